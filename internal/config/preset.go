package config

import "fmt"

// SpeedPreset represents a named playback speed.
type SpeedPreset string

const (
	SpeedFast   SpeedPreset = "fast"
	SpeedNormal SpeedPreset = "normal"
	SpeedSlow   SpeedPreset = "slow"
)

// Presets lists the known presets in display order.
var Presets = []SpeedPreset{SpeedFast, SpeedNormal, SpeedSlow}

// SlowDownForPreset returns the slow-down factor for a preset.
func SlowDownForPreset(preset SpeedPreset) (float64, error) {
	switch preset {
	case SpeedFast:
		return 0.25, nil
	case SpeedNormal:
		return 1, nil
	case SpeedSlow:
		return 4, nil
	default:
		return 0, fmt.Errorf("config: unknown speed preset %q", preset)
	}
}

// ApplyPreset sets the slow-down factor from a preset. The empty preset
// leaves the settings untouched.
func ApplyPreset(cfg *Settings, preset SpeedPreset) error {
	if preset == "" {
		return nil
	}
	f, err := SlowDownForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Timing.SlowDown = f
	return nil
}
