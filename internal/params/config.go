package params

import (
	"fmt"
	"time"
)

const (
	DefaultAutoLogScaleThreshold = 1.5
	DefaultSortDataSetsBy        = SortByName
	DefaultAnimationDuration     = 256 * time.Millisecond
)

// ChartConfig is the validated form of a chart-creation config payload.
type ChartConfig struct {
	// AutoLogScaleThreshold tunes the creation-time scale heuristic: the
	// logarithmic scale is selected when its worst-off covered fraction
	// exceeds the linear one by this factor.
	AutoLogScaleThreshold float64

	// SortDataSetsBy is the ordering key applied to the content's data
	// sets before chart construction.
	SortDataSetsBy string

	// AnimationDuration is how long a chart's viewport transitions take.
	AnimationDuration time.Duration

	// ColorScheme optionally names the palette the chart draws with. Empty
	// selects the renderer's default; unknown names fall back to it.
	ColorScheme string
}

// ConfigFromRaw validates a raw config payload. Fields absent from the
// payload keep their defaults; present fields must validate.
func ConfigFromRaw(raw any) (*ChartConfig, error) {
	cfg := &ChartConfig{
		AutoLogScaleThreshold: DefaultAutoLogScaleThreshold,
		SortDataSetsBy:        DefaultSortDataSetsBy,
		AnimationDuration:     DefaultAnimationDuration,
	}
	if raw == nil {
		return cfg, nil
	}

	obj, err := toObject(raw)
	if err != nil {
		return nil, err
	}

	if rawThreshold, ok := obj["auto_log_scale_threshold"]; ok {
		threshold, ok := toFloat(rawThreshold)
		if !ok {
			return nil, fmt.Errorf("auto_log_scale_threshold must be a number")
		}
		if threshold <= 0 {
			return nil, fmt.Errorf(
				"auto_log_scale_threshold must be positive, got %v", threshold)
		}
		cfg.AutoLogScaleThreshold = threshold
	}

	if rawSortBy, ok := obj["sort_data_sets_by"]; ok {
		sortBy, ok := rawSortBy.(string)
		if !ok {
			return nil, fmt.Errorf("sort_data_sets_by must be a string")
		}
		switch sortBy {
		case SortByName, SortByMin, SortByMax:
			cfg.SortDataSetsBy = sortBy
		default:
			return nil, fmt.Errorf(
				"sort_data_sets_by must be one of name, min, max; got %q", sortBy)
		}
	}

	if rawScheme, ok := obj["color_scheme"]; ok {
		scheme, ok := rawScheme.(string)
		if !ok {
			return nil, fmt.Errorf("color_scheme must be a string")
		}
		cfg.ColorScheme = scheme
	}

	if rawDuration, ok := obj["animation_duration_ms"]; ok {
		ms, ok := toFloat(rawDuration)
		if !ok || ms < 0 {
			return nil, fmt.Errorf("animation_duration_ms must be a non-negative number")
		}
		cfg.AnimationDuration = time.Duration(ms * float64(time.Millisecond))
	}

	return cfg, nil
}
