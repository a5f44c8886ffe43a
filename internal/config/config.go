// Package config provides YAML-based match settings for the arena: board,
// teams, unit physics and engine timing.
package config

import (
	"fmt"
	"time"

	"github.com/vovakirdan/chicken-war/internal/engine"
	"github.com/vovakirdan/chicken-war/internal/logic"
	"github.com/vovakirdan/chicken-war/internal/world"
)

// Settings contains all configuration for a match.
type Settings struct {
	Board  BoardSettings  `yaml:"board"`
	Teams  TeamSettings   `yaml:"teams"`
	Units  UnitSettings   `yaml:"units"`
	Shots  ShotSettings   `yaml:"shots"`
	View   ViewSettings   `yaml:"view"`
	Timing TimingSettings `yaml:"timing"`
	Seed   int64          `yaml:"seed"`
}

// BoardSettings defines the arena size in world units.
type BoardSettings struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// TeamSettings defines team sizes and the logic driving each team.
type TeamSettings struct {
	SizeA  int    `yaml:"size_a"`
	SizeB  int    `yaml:"size_b"`
	LogicA string `yaml:"logic_a"`
	LogicB string `yaml:"logic_b"`
}

// UnitSettings defines chicken geometry and movement.
type UnitSettings struct {
	Radius        float32 `yaml:"radius"`
	BeakLength    float32 `yaml:"beak_length"`
	BeakWidth     float32 `yaml:"beak_width"`
	Step          float32 `yaml:"step"`      // distance per tick at full speed
	TurnStep      float32 `yaml:"turn_step"` // degrees per tick at full turn rate
	CooldownTicks int     `yaml:"cooldown_ticks"`
	MinSeparation float32 `yaml:"min_separation"`
}

// ShotSettings defines projectile size and speed.
type ShotSettings struct {
	Radius float32 `yaml:"radius"`
	Step   float32 `yaml:"step"`
}

// ViewSettings limits what each unit sees. A field of view of 360 and a
// range of 0 see the whole board.
type ViewSettings struct {
	FieldOfView float32 `yaml:"field_of_view"`
	Range       float32 `yaml:"range"`
}

// TimingSettings defines the engine loop timing.
type TimingSettings struct {
	PollIntervalMs int     `yaml:"poll_interval_ms"`
	SlowDown       float64 `yaml:"slow_down"` // 1 = nominal, 2 = twice as slow
	ExitTimeoutMs  int     `yaml:"exit_timeout_ms"`
	MaxTicks       uint64  `yaml:"max_ticks"` // 0 = no limit
}

// PollInterval returns the effective polling window with the slow-down
// factor applied.
func (s Settings) PollInterval() time.Duration {
	return s.Engine().Window()
}

// Rules converts the unit, shot and view settings.
func (s Settings) Rules() logic.Rules {
	return logic.Rules{
		UnitRadius:    s.Units.Radius,
		BeakLength:    s.Units.BeakLength,
		BeakWidth:     s.Units.BeakWidth,
		UnitStep:      s.Units.Step,
		TurnStep:      s.Units.TurnStep,
		ShotRadius:    s.Shots.Radius,
		ShotStep:      s.Shots.Step,
		CooldownTicks: s.Units.CooldownTicks,
		MinSeparation: s.Units.MinSeparation,
		FieldOfView:   s.View.FieldOfView,
		ViewRange:     s.View.Range,
	}
}

// World converts the settings into a world configuration.
func (s Settings) World() world.Config {
	return world.Config{
		Board:     logic.BoardInfo{Width: s.Board.Width, Height: s.Board.Height},
		Rules:     s.Rules(),
		TeamSizes: [logic.TeamCount]int{s.Teams.SizeA, s.Teams.SizeB},
	}
}

// Engine converts the settings into an engine configuration.
func (s Settings) Engine() engine.Config {
	return engine.Config{
		World:        s.World(),
		PollInterval: time.Duration(s.Timing.PollIntervalMs) * time.Millisecond,
		SlowDown:     s.Timing.SlowDown,
		ExitTimeout:  time.Duration(s.Timing.ExitTimeoutMs) * time.Millisecond,
		MaxTicks:     s.Timing.MaxTicks,
		Seed:         s.Seed,
	}
}

// Validate reports configuration errors. It wraps engine.ErrInvalidConfig.
func (s Settings) Validate() error {
	if s.Teams.LogicA == "" || s.Teams.LogicB == "" {
		return fmt.Errorf("config: both teams need a logic name: %w", engine.ErrInvalidConfig)
	}
	if err := s.Engine().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
