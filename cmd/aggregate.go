package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maelqr/ecomeet/app/plugins"
	"github.com/maelqr/ecomeet/core/aggregate"
	"github.com/maelqr/ecomeet/infra/logger"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [request.json]",
	Short: "Run one cost aggregation from a request file and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runAggregate,
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
}

func runAggregate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req aggregate.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	reg, err := plugins.BuildRegistry(nil)
	if err != nil {
		return fmt.Errorf("calculator registry: %w", err)
	}
	engine, err := aggregate.NewEngine(reg, nil, logger.New("aggregate"))
	if err != nil {
		return fmt.Errorf("aggregation engine: %w", err)
	}

	resp, err := engine.Aggregate(cmd.Context(), req)
	if err != nil {
		if verr, ok := aggregate.AsValidationError(err); ok {
			for _, f := range verr.Failures {
				fmt.Fprintf(os.Stderr, "%s[%d] %s: %s %v\n",
					f.PathTitle, f.ItemIndex, f.Calculator, f.Kind, f.Details)
			}
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
