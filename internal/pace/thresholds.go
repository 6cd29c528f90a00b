package pace

import (
	"fmt"
	"math"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// Thresholds holds every tunable constant used by the engine.
// Percent fields are expressed on a 0-100 scale.
type Thresholds struct {
	// Pace estimation
	RecentDays       int     `toml:"recent_days" env:"PACE_RECENT_DAYS"`
	RecentSessions   int     `toml:"recent_sessions" env:"PACE_RECENT_SESSIONS"`
	MinWindowEntries int     `toml:"min_window_entries" env:"PACE_MIN_WINDOW_ENTRIES"`
	ItemPaceEpsilon  float64 `toml:"item_pace_epsilon" env:"PACE_ITEM_PACE_EPSILON"`

	// Per-item risk
	CriticalHorizonDays int     `toml:"critical_horizon_days" env:"PACE_CRITICAL_HORIZON_DAYS"`
	WarningHorizonDays  int     `toml:"warning_horizon_days" env:"PACE_WARNING_HORIZON_DAYS"`
	ItemRiskPercent     float64 `toml:"item_risk_percent" env:"PACE_ITEM_RISK_PERCENT"`

	// Trajectory
	CriticalOveragePercent float64 `toml:"critical_overage_percent" env:"PACE_CRITICAL_OVERAGE_PERCENT"`
	WarningOveragePercent  float64 `toml:"warning_overage_percent" env:"PACE_WARNING_OVERAGE_PERCENT"`

	// Recommendations
	DriftPercent         float64 `toml:"drift_percent" env:"PACE_DRIFT_PERCENT"`
	ImminentWorkDays     float64 `toml:"imminent_work_days" env:"PACE_IMMINENT_WORK_DAYS"`
	AheadPercent         float64 `toml:"ahead_percent" env:"PACE_AHEAD_PERCENT"`
	UncategorizedPercent float64 `toml:"uncategorized_percent" env:"PACE_UNCATEGORIZED_PERCENT"`
	MaxNamedItems        int     `toml:"max_named_items" env:"PACE_MAX_NAMED_ITEMS"`
}

// DefaultThresholds returns the production defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RecentDays:       7,
		RecentSessions:   5,
		MinWindowEntries: 2,
		ItemPaceEpsilon:  0.001,

		CriticalHorizonDays: 3,
		WarningHorizonDays:  7,
		ItemRiskPercent:     50,

		CriticalOveragePercent: 20,
		WarningOveragePercent:  10,

		DriftPercent:         80,
		ImminentWorkDays:     2,
		AheadPercent:         50,
		UncategorizedPercent: 20,
		MaxNamedItems:        2,
	}
}

// Validate checks that the thresholds describe a usable configuration.
func (t Thresholds) Validate() error {
	switch {
	case t.RecentDays < 1:
		return fmt.Errorf("%w: recent_days must be at least 1, got %d", domain.ErrInvalidThresholds, t.RecentDays)
	case t.RecentSessions < 1:
		return fmt.Errorf("%w: recent_sessions must be at least 1, got %d", domain.ErrInvalidThresholds, t.RecentSessions)
	case t.MinWindowEntries < 1:
		return fmt.Errorf("%w: min_window_entries must be at least 1, got %d", domain.ErrInvalidThresholds, t.MinWindowEntries)
	case t.CriticalHorizonDays < 0 || t.WarningHorizonDays < t.CriticalHorizonDays:
		return fmt.Errorf("%w: horizons must satisfy 0 <= critical (%d) <= warning (%d)",
			domain.ErrInvalidThresholds, t.CriticalHorizonDays, t.WarningHorizonDays)
	case t.WarningOveragePercent > t.CriticalOveragePercent:
		return fmt.Errorf("%w: warning overage %.2f%% exceeds critical overage %.2f%%",
			domain.ErrInvalidThresholds, t.WarningOveragePercent, t.CriticalOveragePercent)
	case t.MaxNamedItems < 1:
		return fmt.Errorf("%w: max_named_items must be at least 1, got %d", domain.ErrInvalidThresholds, t.MaxNamedItems)
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"item_pace_epsilon", t.ItemPaceEpsilon},
		{"item_risk_percent", t.ItemRiskPercent},
		{"critical_overage_percent", t.CriticalOveragePercent},
		{"warning_overage_percent", t.WarningOveragePercent},
		{"drift_percent", t.DriftPercent},
		{"imminent_work_days", t.ImminentWorkDays},
		{"ahead_percent", t.AheadPercent},
		{"uncategorized_percent", t.UncategorizedPercent},
	} {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", domain.ErrInvalidThresholds, f.name, f.value)
		}
	}

	return nil
}
