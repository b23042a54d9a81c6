package input

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type recordingListener struct {
	pressed []uint8
}

func (r *recordingListener) KeyPressed(code uint8) {
	r.pressed = append(r.pressed, code)
}

func TestSetKeyState(t *testing.T) {
	in := New()
	l := &recordingListener{}
	in.SetListener(l)

	in.SetKeyState(0xA, true)
	assert.True(t, in.KeyState(0xA))
	assert.Equal(t, []uint8{0xA}, l.pressed)

	// holding the key is not a new edge
	in.SetKeyState(0xA, true)
	assert.Len(t, l.pressed, 1)

	in.SetKeyState(0xA, false)
	assert.False(t, in.KeyState(0xA))
	assert.Len(t, l.pressed, 1)

	in.SetKeyState(0xA, true)
	assert.Len(t, l.pressed, 2)
}

func TestSetKeyStateOutOfRange(t *testing.T) {
	in := New()
	l := &recordingListener{}
	in.SetListener(l)

	in.SetKeyState(0x10, true)
	in.SetKeyState(0xFF, true)
	assert.Len(t, l.pressed, 0)
	assert.False(t, in.KeyState(0x10))
	assert.Equal(t, [KeyCount]bool{}, in.Keys())
}

func TestAllKeys(t *testing.T) {
	in := New()

	for code := range uint8(KeyCount) {
		in.SetKeyState(code, true)
		assert.True(t, in.KeyState(code))
	}

	in.Reset()
	for code := range uint8(KeyCount) {
		assert.False(t, in.KeyState(code))
	}
}

func TestNoListener(t *testing.T) {
	in := New()
	in.SetKeyState(0xF, true)
	assert.True(t, in.KeyState(0xF))
}
