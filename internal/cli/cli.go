// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/chip8vm/internal/config"
	"github.com/retroenv/chip8vm/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" {
		opts.Input = args[0]
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the usage information including all flags.
func (e *UsageError) ShowUsage() {
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	fmt.Printf("usage: chip8vm [options] <rom file>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after the rom file, please pass the rom file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations rejects conflicting or out of range options.
func validateOptionCombinations(opts options.Program) error {
	switch {
	case opts.Disasm && opts.Headless:
		return errors.New("the -disasm and -headless options can not be combined")
	case opts.Wav != "" && !opts.Headless:
		return errors.New("the -wav option requires -headless")
	case opts.TickRate <= 0:
		return fmt.Errorf("invalid instruction rate %d", opts.TickRate)
	case opts.Ticks <= 0:
		return fmt.Errorf("invalid tick count %d", opts.Ticks)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for the listing or final screen, printed on console if no name given")
	flags.StringVar(&opts.Wav, "wav", "", "record the beeper to the given .wav file, requires -headless")
	flags.BoolVar(&opts.Disasm, "disasm", false, "print a disassembly listing of the ROM and exit")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal ui and print the final screen")
	flags.BoolVar(&opts.Paused, "paused", false, "start the terminal ui paused")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.IntVar(&opts.Ticks, "ticks", config.DefaultTicks, "number of instructions to execute in headless mode")
	flags.IntVar(&opts.TickRate, "rate", config.DefaultTickRate, "instructions executed per second")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, time based if 0")
}
