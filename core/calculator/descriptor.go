package calculator

import (
	"context"
	"errors"

	"github.com/go-viper/mapstructure/v2"
)

var (
	// ErrDuplicateCalculator is returned when registering a name twice.
	ErrDuplicateCalculator = errors.New("calculator: duplicate name")
	// ErrUnknownCalculator is returned when looking up an unregistered name.
	ErrUnknownCalculator = errors.New("calculator: unknown name")
)

// Request is implemented by every calculator request type.
type Request interface {
	Validate() error
}

// Descriptor binds a calculator name to its request and response shapes and
// the functions operating on them. Descriptors are built once at startup and
// are immutable afterwards; typed dispatch happens only at the parse edge.
type Descriptor struct {
	Name           string
	Path           string
	RequestSchema  map[string]any
	ResponseSchema map[string]any

	parse   func(payload map[string]any) (Request, error)
	invoke  func(ctx context.Context, req Request) (any, error)
	extract func(resp any) float64
}

// New builds a Descriptor from a typed invoke/extract pair. The payload
// decoder and the type assertions live here so the rest of the pipeline only
// sees the non-generic Descriptor.
func New[Req Request, Resp any](
	name, path string,
	requestSchema, responseSchema map[string]any,
	invoke func(ctx context.Context, req Req) (Resp, error),
	extract func(resp Resp) float64,
) *Descriptor {
	return &Descriptor{
		Name:           name,
		Path:           path,
		RequestSchema:  requestSchema,
		ResponseSchema: responseSchema,
		parse: func(payload map[string]any) (Request, error) {
			var req Req
			dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				TagName: "json",
				Result:  &req,
			})
			if err != nil {
				return nil, err
			}
			if err := dec.Decode(payload); err != nil {
				return nil, err
			}
			if err := req.Validate(); err != nil {
				return nil, err
			}
			return req, nil
		},
		invoke: func(ctx context.Context, req Request) (any, error) {
			resp, err := invoke(ctx, req.(Req))
			if err != nil {
				return nil, err
			}
			return resp, nil
		},
		extract: func(resp any) float64 {
			return extract(resp.(Resp))
		},
	}
}

// Parse decodes an untyped payload into the descriptor's request type and
// validates it.
func (d *Descriptor) Parse(payload map[string]any) (Request, error) {
	return d.parse(payload)
}

// Invoke runs the calculator on a previously parsed request.
func (d *Descriptor) Invoke(ctx context.Context, req Request) (any, error) {
	return d.invoke(ctx, req)
}

// ExtractCarbonKg reads the CO2 estimate in kilograms out of a response
// produced by Invoke. The value is never negative.
func (d *Descriptor) ExtractCarbonKg(resp any) float64 {
	return d.extract(resp)
}

// PayloadErrors flattens a Parse error into one message per offending field.
// Decode errors arrive joined; anything else yields a single message.
func PayloadErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
