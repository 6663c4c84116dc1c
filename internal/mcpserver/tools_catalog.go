package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/cosmic/internal/catalog"
	"github.com/papapumpkin/cosmic/internal/telemetry"
)

// generateInput is the input schema for generate_catalog and generate_field.
type generateInput struct {
	Count int   `json:"count" jsonschema:"Number of items to generate, 0 to 10000"`
	Seed  int64 `json:"seed" jsonschema:"Seed; the same count and seed always yield the same output"`
}

// recordEntry is one record in the generate_catalog response.
type recordEntry struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	SpectralClass   string             `json:"spectral_class"`
	Kind            string             `json:"kind"`
	TemperatureK    int                `json:"temperature_k"`
	MassSolar       float64            `json:"mass_solar"`
	SizeRelative    float64            `json:"size_relative"`
	DistanceLy      float64            `json:"distance_ly"`
	Measurements    map[string]float64 `json:"measurements"`
	Weights         map[string]float64 `json:"weights"`
	HasConflict     bool               `json:"has_conflict"`
	ConfidenceScore float64            `json:"confidence_score"`
	Sector          string             `json:"sector"`
}

// generateCatalogOutput is the output schema for generate_catalog.
type generateCatalogOutput struct {
	Records   []recordEntry `json:"records"`
	Conflicts int           `json:"conflicts"`
}

// pointEntry is one background point in the generate_field response.
type pointEntry struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Opacity float64 `json:"opacity"`
}

// generateFieldOutput is the output schema for generate_field.
type generateFieldOutput struct {
	Points []pointEntry `json:"points"`
}

// registerCatalogTools registers generate_catalog and generate_field.
func (s *Server) registerCatalogTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_catalog",
		Description: "Generate a reproducible catalog of synthetic celestial objects with per-mission distance measurements",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateCatalogOutput, error) {
		if input.Count > MaxCount {
			return nil, generateCatalogOutput{}, fmt.Errorf("count %d exceeds %d", input.Count, MaxCount)
		}
		records, err := catalog.GenerateWith(input.Count, input.Seed, s.policy)
		if err != nil {
			return nil, generateCatalogOutput{}, err
		}

		out := generateCatalogOutput{Records: make([]recordEntry, 0, len(records))}
		for _, r := range records {
			if r.HasConflict {
				out.Conflicts++
			}
			out.Records = append(out.Records, toRecordEntry(r))
		}
		s.emit(telemetry.Event{Kind: telemetry.KindCatalogGenerated, Data: map[string]int64{"count": int64(input.Count), "seed": input.Seed}})
		return nil, out, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "generate_field",
		Description: "Generate a reproducible field of decorative background points",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateFieldOutput, error) {
		if input.Count > MaxCount {
			return nil, generateFieldOutput{}, fmt.Errorf("count %d exceeds %d", input.Count, MaxCount)
		}
		points, err := catalog.GenerateField(input.Count, input.Seed)
		if err != nil {
			return nil, generateFieldOutput{}, err
		}
		out := generateFieldOutput{Points: make([]pointEntry, 0, len(points))}
		for _, p := range points {
			out.Points = append(out.Points, pointEntry(p))
		}
		s.emit(telemetry.Event{Kind: telemetry.KindFieldGenerated, Data: map[string]int64{"count": int64(input.Count), "seed": input.Seed}})
		return nil, out, nil
	})
}

func toRecordEntry(r catalog.Record) recordEntry {
	weights := catalog.DefaultWeights()
	if r.Weights != nil {
		weights = r.Weights.Snapshot()
	}
	return recordEntry{
		ID:              r.ID,
		Name:            r.Name,
		SpectralClass:   string(r.SpectralClass),
		Kind:            r.Kind,
		TemperatureK:    r.TemperatureK,
		MassSolar:       r.MassSolar,
		SizeRelative:    r.SizeRelative,
		DistanceLy:      r.DistanceLy,
		Measurements:    stringKeys(r.Measurements),
		Weights:         stringKeys(weights),
		HasConflict:     r.HasConflict,
		ConfidenceScore: r.ConfidenceScore,
		Sector:          r.Sector,
	}
}

func stringKeys[M ~map[catalog.Source]float64](m M) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
