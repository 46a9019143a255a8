package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSColor(t *testing.T) {
	c, ok := CSSColor("orange")
	require.True(t, ok)
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(165), c.G)

	_, ok = CSSColor("chartreuse")
	assert.False(t, ok)
}

func TestShade_MixesCategoryColors(t *testing.T) {
	g := &Grid{Width: 1, Height: 1, Categories: 3, Counts: []uint32{1, 0, 1}, Points: 2}

	img := testShader().Shade(g)
	px := img.NRGBAAt(0, 0)

	// Equal parts red (255,0,0) and green (0,128,0).
	assert.Equal(t, uint8(128), px.R)
	assert.Equal(t, uint8(64), px.G)
	assert.Equal(t, uint8(0), px.B)
	assert.Equal(t, uint8(255), px.A)
}

func TestShade_EqualizedAlpha(t *testing.T) {
	// Three cells with totals 1, 2 and 8; one empty cell.
	g := &Grid{
		Width:      4,
		Height:     1,
		Categories: 1,
		Counts:     []uint32{1, 2, 8, 0},
		Points:     11,
	}

	img := Shader{Colors: testShader().Colors[:1], MinAlpha: DefaultMinAlpha}.Shade(g)

	a0 := img.NRGBAAt(0, 0).A
	a1 := img.NRGBAAt(1, 0).A
	a2 := img.NRGBAAt(2, 0).A
	assert.Equal(t, uint8(DefaultMinAlpha), a0)
	assert.Equal(t, uint8(255), a2)
	assert.Greater(t, a1, a0)
	assert.Less(t, a1, a2)
	assert.Zero(t, img.NRGBAAt(3, 0).A)
}

func TestShade_FlipsRows(t *testing.T) {
	g := &Grid{Width: 1, Height: 3, Categories: 1, Counts: []uint32{0, 0, 5}, Points: 5}

	img := Shader{Colors: testShader().Colors[:1], MinAlpha: DefaultMinAlpha}.Shade(g)

	// Grid row 2 is the northernmost and becomes image row 0.
	assert.Equal(t, uint8(255), img.NRGBAAt(0, 0).A)
	assert.Zero(t, img.NRGBAAt(0, 2).A)
}

func TestShade_EmptyGridIsTransparent(t *testing.T) {
	g := Aggregate(nil, 5, 5, 3, Extent{})
	img := testShader().Shade(g)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			assert.Zero(t, img.NRGBAAt(x, y).A)
		}
	}
}
