// Package app provides the main application helpers for the emulator.
package app

import (
	"fmt"

	"github.com/retroenv/chip8vm/internal/loader"
	"github.com/retroenv/chip8vm/internal/options"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

// Name is the application name shown in the banner.
const Name = "chip8vm"

// PrintBanner prints application version information.
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(Name, log.String("version", buildinfo.Version(version, commit, date)))
}

// PrintInfo prints the information about the input file and the selected mode.
func PrintInfo(logger *log.Logger, opts options.Program, rom loader.ROM) {
	if opts.Quiet {
		return
	}

	mode := "interactive"
	switch {
	case opts.Disasm:
		mode = "disassembly"
	case opts.Headless:
		mode = "headless"
	}

	logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(rom.Data)),
		log.String("crc32", fmt.Sprintf("%08x", rom.Checksum)),
		log.String("mode", mode),
	)
}
