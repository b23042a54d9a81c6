// Package tui implements an interactive terminal front end for the machine
// with views for the display, the registers and the disassembly.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/retroenv/chip8vm/internal/debugger"
	"github.com/retroenv/chip8vm/internal/disasm"
	"github.com/retroenv/chip8vm/internal/event"
	"github.com/retroenv/chip8vm/internal/machine"
	"github.com/retroenv/chip8vm/internal/memory"
	"github.com/retroenv/retrogolib/log"
)

const (
	frameRate = 60
	keyHold   = 150 * time.Millisecond // terminals do not report key releases

	screenView    = "screen"
	registersView = "registers"
	disasmView    = "disasm"
	statusView    = "status"
)

// Config controls the terminal front end.
type Config struct {
	TickRate int  // instructions per second
	Paused   bool // start paused
	Seed     uint64
}

// UI runs a machine inside a gocui terminal interface.
type UI struct {
	logger *log.Logger
	cfg    Config

	mu       sync.Mutex // guards all fields below
	machine  *machine.Machine
	debugger *debugger.Debugger
	lines    []disasm.Line
	releases map[uint8]time.Time // pending key releases
	beeps    int
	lastErr  error
	dirty    bool
}

// New creates the machine for the ROM and returns the UI for it.
func New(logger *log.Logger, rom []byte, cfg Config) (*UI, error) {
	u := &UI{
		logger:   logger,
		cfg:      cfg,
		releases: map[uint8]time.Time{},
		lines:    disasm.Disassemble(rom, memory.ProgramStart),
	}

	options := []machine.Option{machine.WithObserver(u)}
	if cfg.Seed != 0 {
		options = append(options, machine.WithSeed(cfg.Seed))
	}
	u.machine = machine.New(options...)
	u.debugger = debugger.New(u.machine)

	if err := u.machine.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading rom: %w", err)
	}
	if cfg.Paused {
		u.machine.Pause()
	}
	return u, nil
}

// HandleEvent records machine events for the next redraw. It is called with
// the mutex held.
func (u *UI) HandleEvent(e event.Event) {
	if e.Has(event.Beep) {
		u.beeps++
	}
	u.dirty = true
}

// Run shows the interface and runs the machine until the user quits or the
// context is cancelled.
func (u *UI) Run(ctx context.Context) error {
	u.logger.Debug("Starting terminal ui",
		log.Int("rate", u.cfg.TickRate),
		log.Int("lines", len(u.lines)),
	)

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("creating terminal ui: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(u.layout)
	if err := u.setKeybindings(g); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		u.runTicker(ctx, g)
	}()

	err = g.MainLoop()
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, gocui.ErrQuit) {
		return fmt.Errorf("running terminal ui: %w", err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lastErr
}

// runTicker executes the instructions of one frame at a time and schedules a
// redraw after every frame.
func (u *UI) runTicker(ctx context.Context, g *gocui.Gui) {
	budget := frameBudget{rate: max(u.cfg.TickRate, frameRate)}

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
			return

		case now := <-ticker.C:
			u.mu.Lock()
			u.releaseKeys(now)
			if !u.machine.Paused() {
				u.runFrame(budget.next())
			}
			u.mu.Unlock()
			g.Update(u.draw)
		}
	}
}

// frameBudget splits a tick rate into per frame tick counts. The remainder
// of the division is carried over, so a second of frames executes exactly
// rate ticks.
type frameBudget struct {
	rate      int
	remainder int
}

func (b *frameBudget) next() int {
	total := b.rate + b.remainder
	b.remainder = total % frameRate
	return total / frameRate
}

// runFrame executes up to the given number of ticks. It pauses the machine
// on errors and breakpoints.
func (u *UI) runFrame(ticks int) {
	for range ticks {
		if _, err := u.machine.Tick(); err != nil {
			u.lastErr = err
			u.machine.Pause()
			return
		}
		if u.debugger.IsBreakpoint(u.debugger.PC()) {
			u.machine.Pause()
			return
		}
	}
}

func (u *UI) releaseKeys(now time.Time) {
	for code, deadline := range u.releases {
		if now.Before(deadline) {
			continue
		}
		u.machine.SetKeyState(code, false)
		delete(u.releases, code)
	}
}

func (u *UI) setKeybindings(g *gocui.Gui) error {
	for r, code := range keypad {
		if err := g.SetKeybinding("", r, gocui.ModNone, u.pressKey(code)); err != nil {
			return fmt.Errorf("setting key binding: %w", err)
		}
	}

	bindings := []struct {
		key     any
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{gocui.KeyCtrlC, quit},
		{gocui.KeyEsc, quit},
		{gocui.KeySpace, u.togglePause},
		{'n', u.step},
		{'b', u.toggleBreakpoint},
		{gocui.KeyCtrlR, u.reset},
	}
	for _, binding := range bindings {
		if err := g.SetKeybinding("", binding.key, gocui.ModNone, binding.handler); err != nil {
			return fmt.Errorf("setting key binding: %w", err)
		}
	}
	return nil
}

func (u *UI) pressKey(code uint8) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		u.mu.Lock()
		defer u.mu.Unlock()
		u.machine.SetKeyState(code, true)
		u.releases[code] = time.Now().Add(keyHold)
		return nil
	}
}

func (u *UI) togglePause(g *gocui.Gui, _ *gocui.View) error {
	u.mu.Lock()
	if u.machine.Paused() {
		u.lastErr = nil
		u.machine.Resume()
	} else {
		u.machine.Pause()
	}
	u.mu.Unlock()
	return u.draw(g)
}

func (u *UI) step(g *gocui.Gui, _ *gocui.View) error {
	u.mu.Lock()
	if u.machine.Paused() {
		if _, err := u.debugger.Step(); err != nil {
			u.lastErr = err
		}
	}
	u.mu.Unlock()
	return u.draw(g)
}

func (u *UI) toggleBreakpoint(g *gocui.Gui, _ *gocui.View) error {
	u.mu.Lock()
	pc := u.debugger.PC()
	if u.debugger.IsBreakpoint(pc) {
		u.debugger.RemoveBreakpoint(pc)
	} else if err := u.debugger.AddBreakpoint(pc); err != nil {
		u.lastErr = err
	}
	u.mu.Unlock()
	return u.draw(g)
}

func (u *UI) reset(g *gocui.Gui, _ *gocui.View) error {
	u.mu.Lock()
	u.machine.Reset()
	clear(u.releases)
	u.lastErr = nil
	u.mu.Unlock()
	return u.draw(g)
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}

// layout creates the views, the screen takes the left side and the debug
// views are placed to the right of it.
func (u *UI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	const screenWidth = 64 + 1
	const screenHeight = 32/2 + 1
	right := max(maxX-1, screenWidth+2)
	bottom := max(maxY-1, screenHeight+8)

	views := []struct {
		name           string
		title          string
		x0, y0, x1, y1 int
	}{
		{screenView, "CHIP-8", 0, 0, screenWidth, screenHeight},
		{statusView, "Status", 0, screenHeight + 1, screenWidth, screenHeight + 4},
		{registersView, "Registers", screenWidth + 1, 0, right, 8},
		{disasmView, "Disassembly", screenWidth + 1, 9, right, bottom},
	}

	for _, view := range views {
		v, err := g.SetView(view.name, view.x0, view.y0, view.x1, view.y1)
		if err != nil {
			if !errors.Is(err, gocui.ErrUnknownView) {
				return fmt.Errorf("setting view %s: %w", view.name, err)
			}
			v.Title = view.title
		}
	}
	return nil
}

// draw updates all views with the current machine state.
func (u *UI) draw(g *gocui.Gui) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	v, err := g.View(screenView)
	if err != nil {
		return nil //nolint:nilerr // views are created by the first layout call
	}
	if u.dirty {
		v.Clear()
		fmt.Fprint(v, renderScreen(u.machine.Graphics().Frame()))
		u.dirty = false
	}

	if v, err = g.View(registersView); err == nil {
		v.Clear()
		fmt.Fprint(v, renderRegisters(u.debugger.Snapshot()))
	}

	if v, err = g.View(disasmView); err == nil {
		_, height := v.Size()
		v.Clear()
		fmt.Fprint(v, renderDisasm(u.lines, u.debugger.PC(), height, u.debugger.IsBreakpoint))
	}

	if v, err = g.View(statusView); err == nil {
		v.Clear()
		state := "running"
		if u.machine.Paused() {
			state = "paused"
		}
		fmt.Fprintf(v, "%s  beeps %d  [space] pause [n] step [b] break [^R] reset [esc] quit\n", state, u.beeps)
		if u.lastErr != nil {
			fmt.Fprintf(v, "error: %v\n", u.lastErr)
		}
	}
	return nil
}
