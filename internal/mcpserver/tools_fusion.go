package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/fusion"
	"github.com/papapumpkin/cosmic/internal/habitability"
	"github.com/papapumpkin/cosmic/internal/telemetry"
)

// fuseInput is the input schema for fuse_measurements.
type fuseInput struct {
	Measurements map[string]float64 `json:"measurements" jsonschema:"Distance per mission: hubble, gaia and jwst"`
	Weights      map[string]float64 `json:"weights" jsonschema:"Non-negative trust weight per mission, same keys as measurements"`
}

// fuseOutput is the output schema for fuse_measurements.
type fuseOutput struct {
	Fused      float64 `json:"fused"`
	Degenerate bool    `json:"degenerate"`
}

// assessInput is the input schema for assess_habitability.
type assessInput struct {
	DistanceAU    float64 `json:"distance_au" jsonschema:"Orbital distance in astronomical units, must be positive"`
	MassEarth     float64 `json:"mass_earth" jsonschema:"Planet mass in Earth masses"`
	AtmosphereATM float64 `json:"atmosphere_atm" jsonschema:"Surface pressure in atmospheres"`
	WaterPercent  float64 `json:"water_percent" jsonschema:"Surface water coverage, 0 to 100"`
}

// registerFusionTools registers fuse_measurements and assess_habitability.
func (s *Server) registerFusionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "fuse_measurements",
		Description: "Reconcile per-mission distance measurements into one weighted-mean estimate",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input fuseInput) (*mcp.CallToolResult, fuseOutput, error) {
		m := make(catalog.Measurements, len(input.Measurements))
		for k, v := range input.Measurements {
			m[catalog.Source(k)] = v
		}
		w := make(catalog.Weights, len(input.Weights))
		for k, v := range input.Weights {
			w[catalog.Source(k)] = v
		}
		fused, err := fusion.Fuse(m, w)
		if err != nil {
			return nil, fuseOutput{}, err
		}
		s.emit(telemetry.Event{Kind: telemetry.KindFusionComputed, Data: map[string]float64{"fused": fused}})
		return nil, fuseOutput{Fused: fused, Degenerate: w.Total() == 0}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "assess_habitability",
		Description: "Score a hypothetical planet's habitability from orbit, mass, atmosphere and water",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input assessInput) (*mcp.CallToolResult, habitability.Assessment, error) {
		a, err := habitability.Assess(habitability.Planet(input))
		if err != nil {
			return nil, habitability.Assessment{}, err
		}
		return nil, a, nil
	})
}
