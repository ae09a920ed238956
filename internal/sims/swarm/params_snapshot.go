package swarm

import (
	"math"
	"strconv"

	"rps-swarm/internal/core"
)

// Parameters reports the current tunables grouped for display.
func (a *Arena) Parameters() core.ParameterSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	cfg := a.cfg
	p := cfg.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Arena",
			Params: []core.Parameter{
				floatParam("w", "Width", cfg.Width),
				floatParam("h", "Height", cfg.Height),
				int64Param("seed", "Seed", cfg.Seed),
			},
		},
		{
			Name: "Spawn",
			Params: []core.Parameter{
				floatParam("radius_min", "Radius min", p.RadiusMin),
				floatParam("radius_max", "Radius max", p.RadiusMax),
				floatParam("speed_min", "Speed min", p.SpeedMin),
				floatParam("speed_max", "Speed max", p.SpeedMax),
			},
		},
		{
			Name: "Collision",
			Params: []core.Parameter{
				floatParam("restitution", "Restitution", p.Restitution),
				{Key: "cascade", Label: "Cascade", Type: core.ParamTypeString, Value: string(p.Cascade)},
			},
		},
		{
			Name: "Population",
			Params: []core.Parameter{
				intParam("rock", "Rock", cfg.Population.Rock),
				intParam("paper", "Paper", cfg.Population.Paper),
				intParam("scissors", "Scissors", cfg.Population.Scissors),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable tunables.
func (a *Arena) ParameterControls() []core.ParameterControl {
	maxRadius := math.Min(a.w, a.h) / 2
	return []core.ParameterControl{
		{Key: "speed_min", Label: "Speed min", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, HasMin: true},
		{Key: "speed_max", Label: "Speed max", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, HasMin: true},
		{Key: "radius_min", Label: "Radius min", Type: core.ParamTypeFloat, Step: 1, Min: 1, Max: maxRadius, HasMin: true, HasMax: true},
		{Key: "radius_max", Label: "Radius max", Type: core.ParamTypeFloat, Step: 1, Min: 1, Max: maxRadius, HasMin: true, HasMax: true},
		{Key: "restitution", Label: "Restitution", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "rock", Label: "Rock (reset)", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "paper", Label: "Paper (reset)", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
		{Key: "scissors", Label: "Scissors (reset)", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true},
	}
}

// SetFloatParameter updates a float tunable. Ranges are kept ordered by
// dragging the opposite bound along. Existing entities keep their radius.
func (a *Arena) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	p := &a.cfg.Params
	switch key {
	case "speed_min":
		p.SpeedMin = math.Max(0, value)
		if p.SpeedMax < p.SpeedMin {
			p.SpeedMax = p.SpeedMin
		}
	case "speed_max":
		p.SpeedMax = math.Max(0, value)
		if p.SpeedMin > p.SpeedMax {
			p.SpeedMin = p.SpeedMax
		}
	case "radius_min":
		p.RadiusMin = clamp(value, 1, math.Min(a.w, a.h)/2)
		if p.RadiusMax < p.RadiusMin {
			p.RadiusMax = p.RadiusMin
		}
	case "radius_max":
		p.RadiusMax = clamp(value, 1, math.Min(a.w, a.h)/2)
		if p.RadiusMin > p.RadiusMax {
			p.RadiusMin = p.RadiusMax
		}
	case "restitution":
		p.Restitution = clamp(value, 0, 1)
	default:
		return false
	}
	return true
}

// SetIntParameter updates the initial population used by the next Reset.
func (a *Arena) SetIntParameter(key string, value int) bool {
	if value < 0 {
		value = 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	switch key {
	case "rock":
		a.cfg.Population.Rock = value
	case "paper":
		a.cfg.Population.Paper = value
	case "scissors":
		a.cfg.Population.Scissors = value
	default:
		return false
	}
	return true
}

// SetCascadeMode switches how later pairs in a tick see earlier conversions.
func (a *Arena) SetCascadeMode(mode CascadeMode) error {
	parsed, err := ParseCascadeMode(string(mode))
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Params.Cascade = parsed
	return nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
