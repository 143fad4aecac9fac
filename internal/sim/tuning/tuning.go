package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every gameplay constant so tests can run with smaller
// boards and faster periods.
type Tuning struct {
	BoardW int `yaml:"board_w"`
	BoardH int `yaml:"board_h"`

	StartEnergy int `yaml:"start_energy"`
	FoodValue   int `yaml:"food_value"`

	FoodTarget        int `yaml:"food_target"`
	FoodInitial       int `yaml:"food_initial"`
	FoodPlaceAttempts int `yaml:"food_place_attempts"`
	RegenEverySec     int `yaml:"regen_every_sec"`

	IdleCheckEverySec int `yaml:"idle_check_every_sec"`
	IdleResetAfterSec int `yaml:"idle_reset_after_sec"`
	IdleResetMaxSec   int `yaml:"idle_reset_max_sec"`

	Seed int64 `yaml:"seed"`

	Palette       []string          `yaml:"palette"`
	FallbackColor string            `yaml:"fallback_color"`
	Symbols       map[string]string `yaml:"symbols"`
}

func Defaults() Tuning {
	return Tuning{
		BoardW: 10,
		BoardH: 10,

		StartEnergy: 10,
		FoodValue:   5,

		FoodTarget:        15,
		FoodInitial:       6,
		FoodPlaceAttempts: 100,
		RegenEverySec:     35,

		IdleCheckEverySec: 1,
		IdleResetAfterSec: 5,
		IdleResetMaxSec:   10,

		Seed: 1337,

		Palette:       []string{"RED", "GREEN", "BLUE", "YELLOW", "MAGENTA", "CYAN"},
		FallbackColor: "WHITE",
		Symbols:       map[string]string{},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.BoardW <= 0 || t.BoardH <= 0 {
		return fmt.Errorf("board dimensions must be positive (got %dx%d)", t.BoardW, t.BoardH)
	}
	if t.StartEnergy <= 0 {
		return fmt.Errorf("start_energy must be positive")
	}
	if t.FoodValue <= 0 {
		return fmt.Errorf("food_value must be positive")
	}
	if t.FoodTarget < 0 || t.FoodInitial < 0 {
		return fmt.Errorf("food counts must not be negative")
	}
	if t.FoodPlaceAttempts <= 0 {
		return fmt.Errorf("food_place_attempts must be positive")
	}
	if t.IdleResetAfterSec >= t.IdleResetMaxSec {
		return fmt.Errorf("idle_reset_after_sec must be below idle_reset_max_sec")
	}
	if t.FallbackColor == "" {
		return fmt.Errorf("fallback_color must not be empty")
	}
	return nil
}
