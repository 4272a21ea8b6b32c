package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidInput is returned when field parameters are missing, non-numeric
// or not strictly positive.
var ErrInvalidInput = errors.New("invalid input")

// Params holds the four values describing a field.
type Params struct {
	Sensors int     `json:"sensors" yaml:"sensors"`
	Targets int     `json:"targets" yaml:"targets"`
	Size    float64 `json:"size" yaml:"size"`
	Range   float64 `json:"range" yaml:"range"`
}

// Validate checks that every value is strictly positive.
func (p Params) Validate() error {
	switch {
	case p.Sensors <= 0:
		return fmt.Errorf("%w: sensors must be positive, got %d", ErrInvalidInput, p.Sensors)
	case p.Targets <= 0:
		return fmt.Errorf("%w: targets must be positive, got %d", ErrInvalidInput, p.Targets)
	case !(p.Size > 0):
		return fmt.Errorf("%w: size must be positive, got %v", ErrInvalidInput, p.Size)
	case !(p.Range > 0):
		return fmt.Errorf("%w: range must be positive, got %v", ErrInvalidInput, p.Range)
	}
	return nil
}

// ParseParams converts raw user input into validated Params.
func ParseParams(sensors, targets, size, rng string) (Params, error) {
	var p Params
	var err error
	if p.Sensors, err = parseInt("sensors", sensors); err != nil {
		return Params{}, err
	}
	if p.Targets, err = parseInt("targets", targets); err != nil {
		return Params{}, err
	}
	if p.Size, err = parseFloat("size", size); err != nil {
		return Params{}, err
	}
	if p.Range, err = parseFloat("range", rng); err != nil {
		return Params{}, err
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func parseInt(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer", ErrInvalidInput, name, raw)
	}
	return v, nil
}

func parseFloat(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrInvalidInput, name, raw)
	}
	return v, nil
}
