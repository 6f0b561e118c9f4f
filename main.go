/*
 * SchedSim - Main process.
 *
 * Copyright 2024, Richard Cornwell
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
	"io"
	"log/slog"
	"os"
	"time"

	getopt "github.com/pborman/getopt/v2"
	reader "github.com/rcornwell/SchedSim/command/reader"
	config "github.com/rcornwell/SchedSim/config/configparser"
	simconfig "github.com/rcornwell/SchedSim/config/simconfig"
	core "github.com/rcornwell/SchedSim/emu/core"
	engine "github.com/rcornwell/SchedSim/emu/engine"
	master "github.com/rcornwell/SchedSim/emu/master"
	timer "github.com/rcornwell/SchedSim/emu/timer"
	scenario "github.com/rcornwell/SchedSim/scenario"
	telnet "github.com/rcornwell/SchedSim/telnet"
	logger "github.com/rcornwell/SchedSim/util/logger"
	web "github.com/rcornwell/SchedSim/web"

	_ "github.com/rcornwell/SchedSim/config/debugconfig"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optLevel := getopt.StringLong("level", 'L', "info", "Log level for log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optScenario := getopt.StringLong("scenario", 's', "", "Run scenario file and print result")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	level, err := logger.ParseLevel(*optLevel)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	var file io.Writer
	if *optLogFile != "" {
		f, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file", "file", *optLogFile, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		file = f
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(level)
	Logger := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(Logger)

	if *optScenario != "" {
		os.Exit(runScenario(*optScenario, Logger))
	}

	Logger.Info("SchedSim Started")
	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
			Logger.Error("Configuration file can't be found", "file", *optConfig)
			os.Exit(1)
		}
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	settings := simconfig.Current()

	eng, err := engine.New(settings.EngineConfig(Logger))
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	if err := settings.Apply(eng); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	if err := eng.StartClock(settings.Tick); err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	masterChannel := make(chan master.Packet)

	// Create new routine to run the scheduler.
	sim := core.NewCore(masterChannel, eng, settings.Resolution)
	go sim.Start()

	clock := timer.NewTimer(masterChannel, time.Duration(settings.Resolution)*time.Millisecond)
	clock.Start()

	// Start remote servers.
	var tnServer *telnet.Server
	if address := telnet.Address(); address != "" {
		tnServer, err = telnet.Listen(address, sim)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		Logger.Info("Telnet server listening", "address", tnServer.Addr().String())
	}
	var httpServer *web.Server
	if address := web.Address(); address != "" {
		httpServer = web.New(sim, Logger)
		if _, err := httpServer.Listen(address); err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	msg := make(chan string, 1)
	go func() {
		reader.ConsoleReader(sim)
		msg <- ""
	}()

	// Wait on shutdown option
	<-msg

	clock.Shutdown()
	if httpServer != nil {
		httpServer.Stop()
	}
	if tnServer != nil {
		tnServer.Stop()
	}
	sim.Stop()
	Logger.Info("Servers stopped.")
}

// Run scenario on virtual time and print result as YAML.
func runScenario(name string, log *slog.Logger) int {
	s, err := scenario.LoadFile(name)
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	result, err := s.Run(log)
	if err != nil {
		log.Error(err.Error())
		return 1
	}
	if err := result.WriteYAML(os.Stdout); err != nil {
		log.Error(err.Error())
		return 1
	}
	return 0
}
