/*
 * virtualboy - Main process.
 *
 * Copyright 2025, tompko
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/tompko/virtualboy/command/reader"
	"github.com/tompko/virtualboy/emu/core"
	"github.com/tompko/virtualboy/emu/rom"
	"github.com/tompko/virtualboy/util/debug"
	"github.com/tompko/virtualboy/util/logger"
)

func main() {
	optROM := getopt.StringLong("rom", 'r', "", "ROM image to load")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebugFile := getopt.StringLong("debug", 'd', "", "Debug trace file")
	optTrace := getopt.IntLong("trace", 't', 0, "Trace mask, 1 steps 2 bus")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	log := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, false))
	slog.SetDefault(log)

	log.Info("virtualboy started")
	if *optROM == "" {
		log.Error("Please specify a ROM image")
		os.Exit(0)
	}

	if *optDebugFile != "" {
		if err := debug.Open(*optDebugFile); err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
	}

	cart, err := rom.Load(*optROM)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	if name, err := cart.Name(); err == nil {
		log.Info("Loaded " + name + " " + cart.GameCode() + " " + cart.GameVersion())
	}

	machine := core.New(cart)
	machine.CPU.SetDebug(*optTrace)
	machine.Interconnect.SetDebug(*optTrace)

	reader.ConsoleReader(machine)

	log.Info("Shutting down")
}
