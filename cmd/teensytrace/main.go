// This file is part of Teensytrace.
//
// Teensytrace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Teensytrace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Teensytrace.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/kurin/teensytrace/arm"
	"github.com/kurin/teensytrace/errors"
	"github.com/kurin/teensytrace/firmware"
	"github.com/kurin/teensytrace/hex"
	"github.com/kurin/teensytrace/interactive"
	"github.com/kurin/teensytrace/logger"
	"github.com/kurin/teensytrace/trace"
)

func main() {
	app := &cli.App{
		Name:  "teensytrace",
		Usage: "decode and trace an ARMv7-M Thumb firmware image for the Teensy 3.2",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "steps",
				Aliases: []string{"n"},
				Usage:   "number of instructions to execute",
				Value:   1000,
			},
			&cli.StringFlag{
				Name:    "trace",
				Aliases: []string{"o"},
				Usage:   "trace output destination (default stdout)",
			},
			&cli.BoolFlag{
				Name:  "interactive",
				Usage: "pause after each instruction for a keypress (step/run/quit)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "number of diagnostic log entries to dump on a fatal exit",
				Value: "20",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a fatal error to the documented process exit status: 1 for
// an I/O or argument problem, 2 for a parse or emulation fatal. Errors not
// built by the errors package can only have come from argument handling.
func exitCode(err error) int {
	if !errors.IsAny(err) || errors.Has(err, errors.IO) {
		return 1
	}
	return 2
}

func run(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.Errorf(errors.IO, "usage: teensytrace [flags] <firmware.hex>")
	}

	ld, err := firmware.NewLoader(path)
	if err != nil {
		return err
	}
	if err := ld.Open(); err != nil {
		return err
	}
	logger.Logf("cli", "loaded %s (sha1 %s)", ld.Name, ld.HashSHA1)

	image, err := hex.Parse(ld)
	if err != nil {
		return err
	}

	out := os.Stdout
	if dest := c.String("trace"); dest != "" {
		f, err := os.Create(dest)
		if err != nil {
			return errors.Errorf(errors.IO, err)
		}
		defer f.Close()
		out = f
	}
	sink := trace.NewSink(out)

	m := arm.NewMachine(image, sink)
	sink.Header(m.InitialSP, m.InitialPC, m.NMIAddr)

	steps := c.Int("steps")
	var runErr error
	if c.Bool("interactive") {
		runErr = runInteractive(m, steps)
	} else {
		_, runErr = m.Run(steps)
	}
	if runErr != nil {
		tailLogOnFatal(c)
		return runErr
	}
	return nil
}

// runInteractive drives m one instruction at a time, pausing for a keypress
// between steps until the operator requests a full run or quits early.
func runInteractive(m *arm.Machine, steps int) error {
	ctl := interactive.NewController(os.Stdin)
	defer ctl.Close()

	free := false
	for i := 0; i < steps; i++ {
		if !free {
			key, err := ctl.ReadKey()
			if err != nil {
				return nil
			}
			switch interactive.Parse(key) {
			case interactive.CommandQuit:
				return nil
			case interactive.CommandRun:
				free = true
			}
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
	return nil
}

// tailLogOnFatal dumps the diagnostic logger's most recent entries to
// stderr, sized by --log-level, so a fatal exit carries some context about
// what the emulator was doing leading up to it.
func tailLogOnFatal(c *cli.Context) {
	n := 20
	fmt.Sscanf(c.String("log-level"), "%d", &n)
	logger.Tail(os.Stderr, n)
}
