// Package event defines the notifications the virtual machine reports to its host.
package event

import "strings"

// Event is a set of notifications. Tick returns the events that happened
// during one call, lifecycle operations report a single event.
type Event uint16

// Events that can be reported.
const (
	Refresh         Event = 1 << iota // framebuffer changed
	Beep                              // sound timer decremented
	KeyUnblocked                      // a key press resumed a CPU waiting for input
	Stepped                           // the debugger executed a single step
	RegisterChanged                   // a register was modified through the debugger
	ROMLoaded                         // a ROM was loaded into memory
	Paused                            // the host paused execution
	Resumed                           // the host resumed execution
	Reset                             // the machine was reset
)

var names = []struct {
	event Event
	name  string
}{
	{Refresh, "refresh"},
	{Beep, "beep"},
	{KeyUnblocked, "key_unblocked"},
	{Stepped, "stepped"},
	{RegisterChanged, "register_changed"},
	{ROMLoaded, "rom_loaded"},
	{Paused, "paused"},
	{Resumed, "resumed"},
	{Reset, "reset"},
}

// Has returns whether all events of other are set in e.
func (e Event) Has(other Event) bool {
	return e&other == other && other != 0
}

// String returns the names of all set events separated by "|".
func (e Event) String() string {
	if e == 0 {
		return "none"
	}

	var parts []string
	for _, n := range names {
		if e&n.event != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Observer receives events from the machine.
type Observer interface {
	HandleEvent(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

// HandleEvent calls f(e).
func (f ObserverFunc) HandleEvent(e Event) {
	f(e)
}
