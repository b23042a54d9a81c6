// Package detector handles system detection of input files.
package detector

import (
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// Detector guesses the system a ROM file was made for from its file name.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect returns the system the file extension suggests. Files with unknown
// extensions are assumed to be CHIP-8 programs, which have no header.
func (d *Detector) Detect(filename string) arch.System {
	system := detectFromFile(filename)
	d.logger.Debug("Detected system",
		log.Stringer("system", system),
		log.String("file", filename))
	return system
}

// IsCHIP8 returns whether the file is expected to be a CHIP-8 program.
func (d *Detector) IsCHIP8(filename string) bool {
	return d.Detect(filename) == arch.CHIP8System
}

// WarnIfNotCHIP8 logs a warning if the file extension suggests a ROM for a
// different system. The file is still run as CHIP-8 program.
func (d *Detector) WarnIfNotCHIP8(filename string) {
	system := d.Detect(filename)
	if system == arch.CHIP8System {
		return
	}
	d.logger.Warn("File extension suggests a ROM for a different system, running it as CHIP-8 program",
		log.Stringer("system", system),
		log.String("file", filename))
}

// detectFromFile determines the system type based on file extension.
func detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		// .ch8, .c8, .rom and raw binaries
		return arch.CHIP8System
	}
}
