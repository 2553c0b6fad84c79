package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrientationString(t *testing.T) {
	assert.Equal(t, "portrait", OrientationPortrait.String())
	assert.Equal(t, "landscape", OrientationLandscape.String())
	assert.Equal(t, "unknown", Orientation(9).String())
}

func TestIsLandscape(t *testing.T) {
	assert.False(t, OrientationPortrait.IsLandscape())
	assert.True(t, OrientationLandscape.IsLandscape())
}

func TestBoundsSwapped(t *testing.T) {
	b := Bounds{X: 4, Y: 8, Width: 390, Height: 844}
	s := b.Swapped()

	assert.Equal(t, Bounds{X: 4, Y: 8, Width: 844, Height: 390}, s)
	assert.Equal(t, b, s.Swapped())
}

func TestBoundsIsZero(t *testing.T) {
	assert.True(t, Bounds{}.IsZero())
	assert.True(t, Bounds{X: 10, Y: 20}.IsZero())
	assert.False(t, Bounds{Width: 1}.IsZero())
	assert.False(t, Bounds{Height: 1}.IsZero())
}
