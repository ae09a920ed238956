package swarm

import (
	"testing"

	"rps-swarm/internal/core"
)

var (
	_ core.ParameterProvider         = (*Arena)(nil)
	_ core.ParameterControlsProvider = (*Arena)(nil)
	_ core.FloatParameterSetter      = (*Arena)(nil)
	_ core.IntParameterSetter        = (*Arena)(nil)
)

func TestParametersSnapshot(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	snap := a.Parameters()
	for key, want := range map[string]string{
		"w": "900", "h": "720", "seed": "1337",
		"restitution": "0.9", "cascade": "inplace", "paper": "18",
	} {
		p, ok := snap.Lookup(key)
		if !ok || p.Value != want {
			t.Fatalf("%s = %q (%v), want %q", key, p.Value, ok, want)
		}
	}
	for _, ctrl := range a.ParameterControls() {
		if _, ok := snap.Lookup(ctrl.Key); !ok {
			t.Fatalf("control %q has no matching parameter", ctrl.Key)
		}
	}
}

func TestSetFloatParameter(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !a.SetFloatParameter("restitution", 5) || a.Config().Params.Restitution != 1 {
		t.Fatalf("restitution not clamped: %v", a.Config().Params.Restitution)
	}
	if !a.SetFloatParameter("speed_max", 0.2) {
		t.Fatal("speed_max rejected")
	}
	if p := a.Config().Params; p.SpeedMin != 0.2 || p.SpeedMax != 0.2 {
		t.Fatalf("speed range not kept ordered: %+v", p)
	}
	if !a.SetFloatParameter("radius_min", 1000) {
		t.Fatal("radius_min rejected")
	}
	if p := a.Config().Params; p.RadiusMin != 360 || p.RadiusMax != 360 {
		t.Fatalf("radius not clamped to half the short side: %+v", p)
	}
	if a.SetFloatParameter("gravity", 1) {
		t.Fatal("unknown key accepted")
	}
	if err := a.Config().Validate(); err != nil {
		t.Fatalf("setters left an invalid config: %v", err)
	}
}

func TestSetIntParameterAffectsReset(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.SetIntParameter("rock", 3)
	a.SetIntParameter("paper", -4)
	a.SetIntParameter("scissors", 1)
	a.Reset(0)
	if got := a.Counts(); got != (Counts{3, 0, 1}) {
		t.Fatalf("counts after reset %v", got)
	}
}
