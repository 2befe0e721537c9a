package calculator

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// OnlineName identifies the online-meeting calculator in a registry.
const OnlineName = "online_calculator"

// EmissionBand is a low/high estimate in kg CO2 per hour. Device power and
// network figures vary too much for a single number, so the band endpoints
// are carried through and averaged only at extraction time.
type EmissionBand struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Per-device emission bands in kg CO2 per meeting hour, covering device
// power draw plus the network share of a video stream.
var deviceEmissions = map[string]EmissionBand{
	"laptop":  {Low: 0.011, High: 0.026},
	"desktop": {Low: 0.028, High: 0.063},
	"tablet":  {Low: 0.004, High: 0.012},
	"phone":   {Low: 0.002, High: 0.009},
	"tv":      {Low: 0.033, High: 0.072},
}

// defaultDevice is assumed for participants who did not report hardware.
const defaultDevice = "laptop"

// OnlineRequest asks for the emissions of a pooled online meeting.
type OnlineRequest struct {
	TotalParticipants int      `json:"total_participants"`
	DeviceList        []string `json:"device_list"`
	BandwidthMbps     float64  `json:"bandwidth"`
	Software          string   `json:"software"`
	Connection        string   `json:"connection"`
}

// Validate checks the request.
func (r OnlineRequest) Validate() error {
	if r.TotalParticipants < 1 {
		return fmt.Errorf("total_participants must be at least 1, got %d", r.TotalParticipants)
	}
	for _, d := range r.DeviceList {
		if _, ok := deviceEmissions[d]; !ok {
			return fmt.Errorf("unknown device %q", d)
		}
	}
	if r.BandwidthMbps < 0 {
		return fmt.Errorf("bandwidth must not be negative, got %v", r.BandwidthMbps)
	}
	return nil
}

// DeviceEmission reports the band attributed to one device.
type DeviceEmission struct {
	Device    string       `json:"device"`
	Emissions EmissionBand `json:"emissions"`
}

// OnlineResponse is the online calculator result.
type OnlineResponse struct {
	Devices        []DeviceEmission `json:"devices"`
	TotalEmissions EmissionBand     `json:"total_emissions"`
}

// ComputeOnline calculates the CO2 emission band for an online meeting. When
// no device list is given, one default device per participant is assumed.
func ComputeOnline(_ context.Context, req OnlineRequest) (OnlineResponse, error) {
	devices := req.DeviceList
	if len(devices) == 0 {
		devices = make([]string, req.TotalParticipants)
		for i := range devices {
			devices[i] = defaultDevice
		}
	}
	resp := OnlineResponse{Devices: make([]DeviceEmission, 0, len(devices))}
	for _, d := range devices {
		band := deviceEmissions[d]
		resp.Devices = append(resp.Devices, DeviceEmission{Device: d, Emissions: band})
		resp.TotalEmissions.Low += band.Low
		resp.TotalEmissions.High += band.High
	}
	return resp, nil
}

// OnlineCarbonKg reduces the emission band to a single estimate.
func OnlineCarbonKg(resp OnlineResponse) float64 {
	return stat.Mean([]float64{resp.TotalEmissions.Low, resp.TotalEmissions.High}, nil)
}

// NewOnlineDescriptor builds the online-meeting calculator descriptor.
func NewOnlineDescriptor() *Descriptor {
	reqSchema := map[string]any{
		"title": "Online Calculator Request",
		"type":  "object",
		"properties": map[string]any{
			"total_participants": map[string]any{"type": "integer", "minimum": 1},
			"device_list": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "enum": []string{"laptop", "desktop", "tablet", "phone", "tv"}},
			},
			"bandwidth":  map[string]any{"type": "number", "minimum": 0},
			"software":   map[string]any{"type": "string"},
			"connection": map[string]any{"type": "string"},
		},
		"required": []string{"total_participants"},
	}
	respSchema := map[string]any{
		"title": "Online Calculator Response",
		"type":  "object",
		"properties": map[string]any{
			"devices": map[string]any{"type": "array"},
			"total_emissions": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"low":  map[string]any{"type": "number", "minimum": 0},
					"high": map[string]any{"type": "number", "minimum": 0},
				},
			},
		},
	}
	return New(OnlineName, "/online", reqSchema, respSchema, ComputeOnline, OnlineCarbonKg)
}
