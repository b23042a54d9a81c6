// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input ROM file"`
	Output string `flag:"o" usage:"output file for the listing or final screen (default: stdout)"`
	Wav    string `flag:"wav" usage:"record the beeper to a .wav file (headless only)"`
}

// Flags contains behavior options.
type Flags struct {
	Disasm   bool `flag:"disasm" usage:"print a disassembly listing and exit"`
	Headless bool `flag:"headless" usage:"run without terminal ui and print the final screen"`
	Paused   bool `flag:"paused" usage:"start the terminal ui paused"`
	Debug    bool `flag:"debug" usage:"enable debug logging"`
	Quiet    bool `flag:"q" usage:"quiet mode"`
}

// Emulation contains options that control the machine.
type Emulation struct {
	Ticks    int    `flag:"ticks" usage:"number of instructions to run in headless mode"`
	TickRate int    `flag:"rate" usage:"instructions per second"`
	Seed     uint64 `flag:"seed" usage:"random number generator seed (default: time based)"`
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Emulation
}
