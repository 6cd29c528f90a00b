package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/mtlprog/budgetpace/internal/pace"
)

// LoadThresholds builds the engine thresholds. Defaults are overlaid by the
// TOML file at path (skipped when path is empty), then by PACE_* environment
// variables. The result is validated before it is returned.
func LoadThresholds(path string) (pace.Thresholds, error) {
	th := pace.DefaultThresholds()

	if path != "" {
		if err := decodeThresholdsFile(path, &th); err != nil {
			return th, err
		}
	}

	if err := ParseEnv(&th); err != nil {
		return th, err
	}

	if err := th.Validate(); err != nil {
		return th, fmt.Errorf("thresholds: %w", err)
	}

	return th, nil
}

// ParseEnv loads overrides from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func decodeThresholdsFile(path string, th *pace.Thresholds) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading thresholds file: %w", err)
	}

	md, err := toml.Decode(string(data), th)
	if err != nil {
		return fmt.Errorf("parsing thresholds file %s: %w", path, err)
	}

	// A typo in a key would otherwise silently keep the default.
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("parsing thresholds file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	return nil
}
