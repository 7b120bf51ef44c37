package tax

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type regimeFile struct {
	Name                string        `yaml:"name" toml:"name"`
	StandardDeduction   float64       `yaml:"standard_deduction" toml:"standard_deduction"`
	RebateThreshold     float64       `yaml:"rebate_threshold" toml:"rebate_threshold"`
	MarginalReliefLimit float64       `yaml:"marginal_relief_limit" toml:"marginal_relief_limit"`
	Brackets            []bracketFile `yaml:"brackets" toml:"brackets"`
}

type bracketFile struct {
	Lower float64  `yaml:"lower" toml:"lower"`
	Upper *float64 `yaml:"upper" toml:"upper"`
	Rate  float64  `yaml:"rate" toml:"rate"`
}

// LoadRegime reads a regime from a YAML (.yaml, .yml) or TOML (.toml) file.
// Rates in the file are percentages; a bracket without an upper bound is
// unbounded.
func LoadRegime(path string) (Regime, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Regime{}, fmt.Errorf("read regime: %w", err)
	}

	var file regimeFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Regime{}, fmt.Errorf("parse regime: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return Regime{}, fmt.Errorf("parse regime: %w", err)
		}
	default:
		return Regime{}, fmt.Errorf("%w: unsupported file type %q", ErrInvalidRegime, filepath.Ext(path))
	}

	regime := Regime{
		Name:                file.Name,
		StandardDeduction:   decimal.NewFromFloat(file.StandardDeduction),
		RebateThreshold:     decimal.NewFromFloat(file.RebateThreshold),
		MarginalReliefLimit: decimal.NewFromFloat(file.MarginalReliefLimit),
	}
	for _, b := range file.Brackets {
		bracket := Bracket{
			Lower: decimal.NewFromFloat(b.Lower),
			Rate:  decimal.NewFromFloat(b.Rate).Div(hundred),
		}
		if b.Upper == nil {
			bracket.Unbounded = true
		} else {
			bracket.Upper = decimal.NewFromFloat(*b.Upper)
		}
		regime.Brackets = append(regime.Brackets, bracket)
	}
	if err := regime.Validate(); err != nil {
		return Regime{}, err
	}
	return regime, nil
}

// LoadEngine builds an engine from path, or returns Default when path is empty.
func LoadEngine(path string) (*Engine, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	regime, err := LoadRegime(path)
	if err != nil {
		return nil, err
	}
	return NewEngine(regime)
}
