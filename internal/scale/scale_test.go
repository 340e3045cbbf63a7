package scale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acharts/acharts/internal/params"
	"github.com/acharts/acharts/internal/scale"
)

func contentWithBounds(min, max float64) *params.Content {
	return &params.Content{Min: min, Max: max}
}

func TestLinear_BoundsMapToUnitRange(t *testing.T) {
	s := scale.NewLinear(contentWithBounds(10, 110))

	assert.InDelta(t, 0.0, s.Normalize(10), 1e-12)
	assert.InDelta(t, 0.5, s.Normalize(60), 1e-12)
	assert.InDelta(t, 1.0, s.Normalize(110), 1e-12)
}

func TestLinear_DegenerateSpan(t *testing.T) {
	s := scale.NewLinear(contentWithBounds(5, 5))

	// A single-value span must not divide by zero.
	assert.InDelta(t, 0.0, s.Normalize(5), 1e-12)
}

func TestLog_BoundsMapToUnitRange(t *testing.T) {
	s := scale.NewLog(contentWithBounds(1, 1000))

	assert.InDelta(t, 0.0, s.Normalize(1), 1e-12)
	assert.InDelta(t, 1.0/3.0, s.Normalize(10), 1e-12)
	assert.InDelta(t, 1.0, s.Normalize(1000), 1e-12)
}

func TestLog_ClampsNonPositiveValues(t *testing.T) {
	s := scale.NewLog(contentWithBounds(1, 100))

	got := s.Normalize(0)
	assert.False(t, got != got, "normalize(0) must not be NaN")
	assert.LessOrEqual(t, got, 0.0)

	got = s.Normalize(-5)
	assert.False(t, got != got, "normalize(-5) must not be NaN")
}

func TestLog_CompressesWideRanges(t *testing.T) {
	// Content spanning [1, 1000]: the [1, 10] slice covers 9/999 of the
	// linear range but a third of the logarithmic one.
	content := contentWithBounds(1, 1000)
	lin := scale.NewLinear(content)
	log := scale.NewLog(content)

	linFraction := lin.Normalize(10) - lin.Normalize(1)
	logFraction := log.Normalize(10) - log.Normalize(1)

	assert.Greater(t, logFraction, linFraction)
}
