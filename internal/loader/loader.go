// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"

	"github.com/retroenv/chip8vm/internal/memory"
)

// MaxROMSize is the largest program that fits into memory above the
// interpreter area.
const MaxROMSize = memory.Size - memory.ProgramStart

var (
	// ErrROMTooLarge is returned for files that do not fit into memory.
	ErrROMTooLarge = errors.New("rom too large")
	// ErrROMEmpty is returned for empty files.
	ErrROMEmpty = errors.New("rom is empty")
)

// ROM is a loaded program file.
type ROM struct {
	Data     []byte
	Checksum uint32 // CRC32 of the data
}

// Loader handles loading ROM files from disk.
type Loader struct{}

// New creates a new ROM loader.
func New() *Loader {
	return &Loader{}
}

// Load reads and validates the ROM file at the given path.
func (l *Loader) Load(path string) (ROM, error) {
	file, err := os.Open(path)
	if err != nil {
		return ROM{}, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	rom, err := l.LoadFromReader(file)
	if err != nil {
		return ROM{}, fmt.Errorf("loading rom %s: %w", path, err)
	}
	return rom, nil
}

// LoadFromReader reads and validates a ROM from a reader.
func (l *Loader) LoadFromReader(r io.Reader) (ROM, error) {
	// read one byte more than allowed to detect oversized files
	data, err := io.ReadAll(io.LimitReader(r, MaxROMSize+1))
	if err != nil {
		return ROM{}, fmt.Errorf("reading data: %w", err)
	}

	switch {
	case len(data) == 0:
		return ROM{}, ErrROMEmpty
	case len(data) > MaxROMSize:
		return ROM{}, fmt.Errorf("%w: maximum size is %d bytes", ErrROMTooLarge, MaxROMSize)
	}

	crc32q := crc32.MakeTable(crc32.IEEE)
	return ROM{
		Data:     data,
		Checksum: crc32.Checksum(data, crc32q),
	}, nil
}
