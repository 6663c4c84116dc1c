// Package habitability scores a hypothetical planet for Earth-like surface
// conditions from four dials: orbital distance, mass, atmosphere and water.
// The physics is deliberately coarse.
package habitability

import (
	"fmt"
	"math"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// WaterState is the dominant phase of surface water.
type WaterState string

// Water states by surface temperature.
const (
	Steam  WaterState = "STEAM"
	Liquid WaterState = "LIQUID"
	Ice    WaterState = "ICE"
)

// Planet is the set of dials the lab exposes.
type Planet struct {
	DistanceAU    float64 `json:"distance_au"`
	MassEarth     float64 `json:"mass_earth"`
	AtmosphereATM float64 `json:"atmosphere_atm"`
	WaterPercent  float64 `json:"water_percent"`
}

// Earth returns the reference planet.
func Earth() Planet {
	return Planet{DistanceAU: 1, MassEarth: 1, AtmosphereATM: 1, WaterPercent: 70}
}

// Assessment is the scored outcome for a planet.
type Assessment struct {
	SurfaceTempC int        `json:"surface_temp_c"`
	GravityG     float64    `json:"gravity_g"`
	Score        int        `json:"score"`
	State        WaterState `json:"state"`
}

const (
	kelvinOffset    = 273.15
	equilibriumAt1  = 278.0 // K at 1 AU with no atmosphere
	greenhousePerAt = 35.0  // K added per atmosphere
	idealTempC      = 15.0
)

// Validate rejects dials the model cannot evaluate.
func (p Planet) Validate() error {
	switch {
	case !(p.DistanceAU > 0) || math.IsInf(p.DistanceAU, 0):
		return fmt.Errorf("habitability: distance %v AU must be positive: %w", p.DistanceAU, catalog.ErrInvalidArgument)
	case !(p.MassEarth >= 0) || math.IsInf(p.MassEarth, 0):
		return fmt.Errorf("habitability: mass %v must be non-negative: %w", p.MassEarth, catalog.ErrInvalidArgument)
	case !(p.AtmosphereATM >= 0) || math.IsInf(p.AtmosphereATM, 0):
		return fmt.Errorf("habitability: atmosphere %v must be non-negative: %w", p.AtmosphereATM, catalog.ErrInvalidArgument)
	case !(p.WaterPercent >= 0 && p.WaterPercent <= 100):
		return fmt.Errorf("habitability: water %v%% must be within [0, 100]: %w", p.WaterPercent, catalog.ErrInvalidArgument)
	}
	return nil
}

// Assess scores p. Score starts at 100 and loses points for temperature
// away from 15°C, gravity away from 1 g, extreme atmospheres, and too little
// or too much water; it never drops below 0.
func Assess(p Planet) (Assessment, error) {
	if err := p.Validate(); err != nil {
		return Assessment{}, err
	}

	surfaceK := equilibriumAt1/math.Sqrt(p.DistanceAU) + float64(p.AtmosphereATM*greenhousePerAt)
	surfaceC := surfaceK - kelvinOffset
	gravity := math.Pow(p.MassEarth, 0.4)

	score := 100.0
	if diff := math.Abs(surfaceC - idealTempC); diff > 50 {
		score -= 100
	} else {
		score -= float64(diff * 2)
	}
	if diff := math.Abs(gravity - 1); diff > 1.5 {
		score -= 50
	} else {
		score -= float64(diff * 20)
	}
	if p.AtmosphereATM < 0.1 || p.AtmosphereATM > 5 {
		score -= 40
	}
	if p.WaterPercent < 10 {
		score -= 50
	}
	if p.WaterPercent > 95 {
		score -= 20
	}

	state := Liquid
	switch {
	case surfaceC > 100:
		state = Steam
	case surfaceC < -10:
		state = Ice
	}

	return Assessment{
		SurfaceTempC: int(math.Round(surfaceC)),
		GravityG:     math.Round(gravity*100) / 100,
		Score:        int(math.Max(0, math.Round(score))),
		State:        state,
	}, nil
}
