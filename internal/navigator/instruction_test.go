package navigator

import (
	"testing"

	"dockview/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScale(t *testing.T) {
	tests := []struct {
		name     string
		viewport Size
		img      Size
		want     float64
	}{
		{"large photo", Size{800, 600}, Size{4000, 3000}, 0.2},
		{"height bound", Size{1000, 500}, Size{1000, 1000}, 0.5},
		{"width bound", Size{500, 1000}, Size{1000, 1000}, 0.5},
		{"small image is not upscaled", Size{800, 600}, Size{200, 100}, 1.0},
		{"viewport not laid out", Size{0, 0}, Size{4000, 3000}, 1.0},
		{"empty image", Size{800, 600}, Size{0, 0}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FitScale(tt.viewport, tt.img), 1e-12)
		})
	}
}

func TestInstructionFit(t *testing.T) {
	nav := loaded(2)
	nav.SetFitToWindow(true)

	ins, err := nav.Instruction(Size{800, 600}, Size{4000, 3000})
	require.NoError(t, err)
	assert.Equal(t, "/img/a.png", ins.Path)
	assert.Equal(t, 0, ins.Index)
	assert.Equal(t, 2, ins.Count)
	assert.InDelta(t, 0.2, ins.Scale, 1e-12)
	assert.Equal(t, Size{800, 600}, ins.Target)
	assert.True(t, ins.Fit)
}

func TestInstructionRotatedFit(t *testing.T) {
	nav := loaded(1)
	nav.SetFitToWindow(true)
	require.NoError(t, nav.Rotate(90))

	ins, err := nav.Instruction(Size{800, 600}, Size{4000, 3000})
	require.NoError(t, err)
	assert.Equal(t, 90, ins.Rotation)
	assert.InDelta(t, 0.15, ins.Scale, 1e-12)
	assert.Equal(t, Size{450, 600}, ins.Target)
}

func TestInstructionExplicitScale(t *testing.T) {
	nav := loaded(1)
	require.NoError(t, nav.ApplyZoom(2))

	ins, err := nav.Instruction(Size{800, 600}, Size{640, 480})
	require.NoError(t, err)
	assert.Equal(t, 2.0, ins.Scale, "explicit zoom may exceed the viewport")
	assert.Equal(t, Size{1280, 960}, ins.Target)
	assert.False(t, ins.Fit)
}

func TestInstructionTinyScaleKeepsOnePixel(t *testing.T) {
	nav := loaded(1)
	require.NoError(t, nav.ApplyZoom(MinScale))
	ins, err := nav.Instruction(Size{800, 600}, Size{10, 4})
	require.NoError(t, err)
	assert.Equal(t, Size{1, 1}, ins.Target)
}

func TestInstructionEmpty(t *testing.T) {
	_, err := New().Instruction(Size{800, 600}, Size{10, 10})
	assert.ErrorIs(t, err, apperr.ErrEmptySet)
}

func TestSizeString(t *testing.T) {
	assert.Equal(t, "800x600", Size{800, 600}.String())
}
