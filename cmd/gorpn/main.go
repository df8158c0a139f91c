// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lassandro/gorpn/pkg/config"
	"github.com/lassandro/gorpn/pkg/debugger"
	"github.com/lassandro/gorpn/pkg/machine"
	"github.com/lassandro/gorpn/pkg/program"
	"github.com/lassandro/gorpn/pkg/snapshot"
)

var helpvar bool
var debugvar bool
var forcevar bool
var configvar string
var snapshotvar string
var restorevar string

const usage = "gorpn [-config file] [-debug] [-force] " +
	"[-restore file] [-snapshot file] program.bin"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the program in a debug CLI")
	flag.BoolVar(
		&forcevar, "force", false,
		"Writes binary samples even when stdout is a terminal",
	)
	flag.StringVar(&configvar, "config", "", "Reads player settings from a TOML file")
	flag.StringVar(
		&snapshotvar, "snapshot", "",
		"Saves the final machine state to a CBOR file",
	)
	flag.StringVar(
		&restorevar, "restore", "",
		"Starts from a machine state saved with -snapshot",
	)
	flag.Parse()
}

func gorpn() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	cfg := config.Default()

	if configvar != "" {
		loaded, err := config.Load(configvar)

		if err != nil {
			log.Println(err)
			return 1
		}

		cfg = *loaded
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	prog, err := program.Decode(file)
	file.Close()

	if err != nil {
		log.Printf("%s: %v", args[0], err)
		return 1
	}

	var mc machine.Machine

	if restorevar != "" {
		if err := restoreState(restorevar, &mc.State); err != nil {
			log.Println("Error loading snapshot")
			log.Println(err)
			return 1
		}
	}

	runner := program.Runner{Program: prog, Machine: &mc, Reset: cfg.Reset}

	if debugvar {
		dbg := &debugger.Debugger{Break: true, Program: prog}
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = dbg
		runner.Tracer = dbg

		c := make(chan os.Signal, 1)
		defer close(c)

		signal.Notify(c, os.Interrupt)
		defer signal.Stop(c)

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()

		err = debugRun(&runner, dbg, &cfg)
	} else {
		if isTerminal(int(os.Stdout.Fd())) && !forcevar {
			log.Println("Refusing to write binary samples to a terminal, use -force")
			return 1
		}

		err = render(&runner, &cfg)
	}

	if err != nil && !errors.Is(err, debugger.ErrQuit) {
		log.Println(err)
		return 1
	}

	if snapshotvar != "" {
		if err := saveState(snapshotvar, &mc.State); err != nil {
			log.Println("Error writing snapshot")
			log.Println(err)
			return 1
		}
	}

	return 0
}

func render(runner *program.Runner, cfg *config.Config) error {
	output := cfg.OutputMode()
	writer := bufio.NewWriter(os.Stdout)
	buffer := make([]byte, 0, output.Size())

	for i := 0; i < cfg.Count; i++ {
		var err error

		if buffer, err = runner.Render(buffer[:0], cfg.Start+int32(i), output); err != nil {
			return err
		}

		if _, err := writer.Write(buffer); err != nil {
			return err
		}
	}

	return writer.Flush()
}

func restoreState(path string, state *machine.MachineState) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	return snapshot.Read(bufio.NewReader(file), state)
}

func saveState(path string, state *machine.MachineState) error {
	data, err := snapshot.Marshal(state)

	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0666)
}

func main() {
	os.Exit(gorpn())
}
