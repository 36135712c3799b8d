// Package main provides CMA-ES optimization for growth parameters.
package main

import (
	"github.com/pthm-cable/hyphae/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Defaults match defaults.yaml.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "fork_k", Path: "growth.fork_k", Min: 0.5, Max: 4.0, Default: 1.5},
			{Name: "initial_jitter", Path: "growth.initial_jitter", Min: 0.0, Max: 20.0, Default: 6.5},
			{Name: "jitter_growth", Path: "growth.jitter_growth_factor", Min: 1.0, Max: 2.0, Default: 1.2},
			{Name: "fork_turn", Path: "growth.fork_turn", Min: 0.0, Max: 45.0, Default: 1.5},
			{Name: "radius_shrink", Path: "growth.radius_shrink_factor", Min: 1.1, Max: 2.5, Default: 1.5},
			{Name: "fork_boost", Path: "growth.fork_boost", Min: 1.0, Max: 4.0, Default: 2.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a growth config.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(g *config.GrowthConfig, values []float64) {
	c := pv.Clamp(values)
	g.ForkK = c[0]
	g.InitialJitter = c[1]
	g.JitterGrowthFactor = c[2]
	g.ForkTurn = c[3]
	g.RadiusShrinkFactor = c[4]
	g.ForkBoost = c[5]
}
