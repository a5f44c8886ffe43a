package config

import (
	_ "embed"
)

//go:embed defaults/chickenwar.yaml
var defaultYAML []byte

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Board: BoardSettings{
			Width:  80,
			Height: 40,
		},
		Teams: TeamSettings{
			SizeA:  5,
			SizeB:  5,
			LogicA: "hunter",
			LogicB: "random",
		},
		Units: UnitSettings{
			Radius:        1,
			BeakLength:    0.6,
			BeakWidth:     0.8,
			Step:          0.4,
			TurnStep:      12,
			CooldownTicks: 8,
			MinSeparation: 4,
		},
		Shots: ShotSettings{
			Radius: 0.25,
			Step:   1.6,
		},
		View: ViewSettings{
			FieldOfView: 360,
			Range:       0,
		},
		Timing: TimingSettings{
			PollIntervalMs: 20,
			SlowDown:       1,
			ExitTimeoutMs:  500,
			MaxTicks:       5000,
		},
		Seed: 1,
	}
}
