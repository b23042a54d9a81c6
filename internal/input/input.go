// Package input implements the 16 key latch of the CHIP-8 keypad.
package input

// KeyCount is the number of keys on the keypad, 0x0-0xF.
const KeyCount = 16

// Listener is notified when a key changes from released to pressed.
type Listener interface {
	KeyPressed(code uint8)
}

// Input holds the pressed state of all keys.
type Input struct {
	keys     [KeyCount]bool
	listener Listener
}

// New returns a new key latch with all keys released.
func New() *Input {
	return &Input{}
}

// SetListener sets the listener that gets notified of key presses.
func (in *Input) SetListener(l Listener) {
	in.listener = l
}

// SetKeyState updates the state of a key. Codes outside of 0x0-0xF are ignored.
// A transition from released to pressed notifies the listener synchronously.
func (in *Input) SetKeyState(code uint8, pressed bool) {
	if code >= KeyCount {
		return
	}

	edge := pressed && !in.keys[code]
	in.keys[code] = pressed

	if edge && in.listener != nil {
		in.listener.KeyPressed(code)
	}
}

// KeyState returns whether the key is currently pressed.
// Codes outside of 0x0-0xF are reported as released.
func (in *Input) KeyState(code uint8) bool {
	if code >= KeyCount {
		return false
	}
	return in.keys[code]
}

// Keys returns a snapshot of all key states.
func (in *Input) Keys() [KeyCount]bool {
	return in.keys
}

// Reset releases all keys without notifying the listener.
func (in *Input) Reset() {
	in.keys = [KeyCount]bool{}
}
