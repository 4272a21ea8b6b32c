package search

import (
	"fmt"

	"github.com/kilianp07/wsnlife/core/schedule"
)

const (
	DefaultIterations         = 5000
	DefaultInitialTemperature = 1000.0
	DefaultCoolingRate        = 0.9
)

// Config defines the search parameters loaded from configuration.
type Config struct {
	// Iterations is the number of trials run after the seed trial.
	Iterations            int     `json:"iterations" yaml:"iterations"`
	InitialTemperature    float64 `json:"initial_temperature" yaml:"initial_temperature"`
	CoolingRate           float64 `json:"cooling_rate" yaml:"cooling_rate"`
	BatteryDuration       int     `json:"battery_duration" yaml:"battery_duration"`
	ActivationProbability float64 `json:"activation_probability" yaml:"activation_probability"`
	Workers               int     `json:"workers" yaml:"workers"`
	// Seed drives every random draw of a run. Zero picks a time-based seed.
	Seed int64 `json:"seed" yaml:"seed"`
	// TimeoutSeconds stops the loop early when positive.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns the reference parameters.
func DefaultConfig() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero values with the reference parameters.
func (c *Config) SetDefaults() {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.InitialTemperature == 0 {
		c.InitialTemperature = DefaultInitialTemperature
	}
	if c.CoolingRate == 0 {
		c.CoolingRate = DefaultCoolingRate
	}
	if c.BatteryDuration == 0 {
		c.BatteryDuration = schedule.DefaultBatteryDuration
	}
	if c.ActivationProbability == 0 {
		c.ActivationProbability = schedule.DefaultActivationProbability
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Validate checks the parameter ranges.
func (c Config) Validate() error {
	switch {
	case c.Iterations < 0:
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	case !(c.InitialTemperature > 0):
		return fmt.Errorf("initial_temperature must be positive, got %v", c.InitialTemperature)
	case !(c.CoolingRate > 0 && c.CoolingRate <= 1):
		return fmt.Errorf("cooling_rate must be in (0,1], got %v", c.CoolingRate)
	case c.BatteryDuration <= 0:
		return fmt.Errorf("battery_duration must be positive, got %d", c.BatteryDuration)
	case !(c.ActivationProbability > 0 && c.ActivationProbability <= 1):
		return fmt.Errorf("activation_probability must be in (0,1], got %v", c.ActivationProbability)
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.TimeoutSeconds < 0:
		return fmt.Errorf("timeout_seconds must not be negative, got %d", c.TimeoutSeconds)
	}
	return nil
}
