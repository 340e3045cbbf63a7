package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/acharts/acharts/internal/host/hosttest"
	"github.com/acharts/acharts/internal/params"
)

func TestDetectClientCaps(t *testing.T) {
	w := hosttest.NewWindow()

	caps := params.DetectClientCaps(w)
	assert.False(t, caps.TouchDevice)
	assert.False(t, caps.ScreenOrientation)

	// Touch-start alone is not enough; the host must report touch points.
	w.TouchStart = true
	caps = params.DetectClientCaps(w)
	assert.False(t, caps.TouchDevice)

	w.TouchPoints = 2
	w.ScreenOrientationAPI = true
	caps = params.DetectClientCaps(w)
	assert.True(t, caps.TouchDevice)
	assert.True(t, caps.ScreenOrientation)
}

func TestCapsRef_ReplacedWholesale(t *testing.T) {
	ref := params.NewCapsRef(params.ClientCaps{TouchDevice: true})

	assert.True(t, ref.Get().TouchDevice)

	ref.Set(params.ClientCaps{ScreenOrientation: true})
	got := ref.Get()
	assert.False(t, got.TouchDevice)
	assert.True(t, got.ScreenOrientation)
}
