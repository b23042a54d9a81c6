package graphics

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

var errOutOfRange = errors.New("out of range")

type testMemory map[uint16]uint8

func (m testMemory) ReadByte(address uint16) (uint8, error) {
	if address > 0xFFF {
		return 0, errOutOfRange
	}
	return m[address], nil
}

func TestDrawSpriteCollision(t *testing.T) {
	g := New(testMemory{0x300: 0xFF})

	collision, err := g.DrawSprite(0, 0, 1, 0x300)
	assert.NoError(t, err)
	assert.False(t, collision)
	for x := range 8 {
		assert.True(t, g.Pixel(x, 0))
	}
	assert.False(t, g.Pixel(8, 0))
	assert.True(t, g.TakeRefresh())
	assert.False(t, g.TakeRefresh())

	collision, err = g.DrawSprite(0, 0, 1, 0x300)
	assert.NoError(t, err)
	assert.True(t, collision)
	for x := range 8 {
		assert.False(t, g.Pixel(x, 0))
	}
	assert.True(t, g.TakeRefresh())
}

func TestDrawSpritePartialOverlap(t *testing.T) {
	g := New(testMemory{0x300: 0xF0, 0x301: 0x0F})

	_, err := g.DrawSprite(0, 0, 1, 0x300)
	assert.NoError(t, err)

	// no set pixel is hit by the second sprite
	collision, err := g.DrawSprite(0, 0, 1, 0x301)
	assert.NoError(t, err)
	assert.False(t, collision)
	for x := range 8 {
		assert.True(t, g.Pixel(x, 0))
	}
}

func TestDrawSpriteClipping(t *testing.T) {
	g := New(testMemory{0x300: 0xFF, 0x301: 0xFF})

	collision, err := g.DrawSprite(60, 31, 2, 0x300)
	assert.NoError(t, err)
	assert.False(t, collision)

	for x := range Width {
		want := x >= 60
		assert.Equal(t, want, g.Pixel(x, 31))
		// the second row is below the screen and does not wrap to the top
		assert.False(t, g.Pixel(x, 0))
	}
	// no wrap to column 0
	assert.False(t, g.Pixel(0, 31))
}

func TestDrawSpriteRows(t *testing.T) {
	// glyph "0" of the font
	g := New(testMemory{0: 0xF0, 1: 0x90, 2: 0x90, 3: 0x90, 4: 0xF0})

	_, err := g.DrawSprite(10, 5, 5, 0)
	assert.NoError(t, err)

	assert.True(t, g.Pixel(10, 5))
	assert.True(t, g.Pixel(13, 5))
	assert.True(t, g.Pixel(10, 6))
	assert.False(t, g.Pixel(11, 6))
	assert.True(t, g.Pixel(13, 9))
	assert.False(t, g.Pixel(14, 9))
}

func TestDrawSpriteZeroHeight(t *testing.T) {
	g := New(testMemory{})

	collision, err := g.DrawSprite(0, 0, 0, 0x300)
	assert.NoError(t, err)
	assert.False(t, collision)
	assert.Equal(t, Frame{}, g.Frame())
	assert.True(t, g.TakeRefresh())
}

func TestDrawSpriteMemoryError(t *testing.T) {
	g := New(testMemory{})

	_, err := g.DrawSprite(0, 0, 2, 0xFFF)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errOutOfRange))
}

func TestClearDisplay(t *testing.T) {
	g := New(testMemory{0x300: 0xAA})

	_, err := g.DrawSprite(3, 3, 1, 0x300)
	assert.NoError(t, err)
	g.TakeRefresh()

	g.ClearDisplay()
	assert.Equal(t, Frame{}, g.Frame())
	assert.True(t, g.TakeRefresh())
}

func TestFrameString(t *testing.T) {
	var f Frame
	f[0][0] = true
	f[1][63] = true

	lines := strings.Split(strings.TrimSuffix(f.String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, "#"+strings.Repeat(".", Width-1), lines[0])
	assert.Equal(t, strings.Repeat(".", Width-1)+"#", lines[1])
}

func TestPixelOutOfRange(t *testing.T) {
	g := New(testMemory{})
	assert.False(t, g.Pixel(-1, 0))
	assert.False(t, g.Pixel(Width, 0))
	assert.False(t, g.Pixel(0, Height))
}
