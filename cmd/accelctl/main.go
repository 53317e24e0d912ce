// Command accelctl talks to the accelerometer controller over its
// USB-CDC serial endpoint and drives recording sweeps against an
// OctoPrint-controlled printer.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/axxeldrive/cdc-accel-driver/internal/config"
	"github.com/axxeldrive/cdc-accel-driver/internal/logging"
)

// Exit codes per the command surface: 0 success, 1 "nothing to do" (a
// valid command that had no effective action), 255 usage error.
const (
	exitSuccess     = 0
	exitNothingToDo = 1
	exitUsageError  = 255
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsageError
	}

	configPath := defaultConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	log := logging.Setup(logging.Options{Level: envOr("ACCELCTL_LOG_LEVEL", "info")})

	sub, rest := args[0], args[1:]
	switch sub {
	case "device":
		return deviceCommand(rest, log)
	case "config":
		return configCommand(rest, configPath, cfg)
	case "stream":
		return streamCommand(rest, cfg, log)
	case "decode":
		return decodeCommand(rest, log)
	case "record-step":
		return recordStepCommand(rest, cfg, log)
	case "record-step-series":
		return recordStepSeriesCommand(rest, cfg, log)
	case "convert":
		return convertCommand(rest, log)
	case "daemon":
		return daemonCommand(rest, cfg, log)
	case "-h", "--help", "help":
		printUsage()
		return exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", sub)
		printUsage()
		return exitUsageError
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: accelctl <command> [flags]

commands:
  device {list|json|reboot}
  config {get|set|all}
  stream {start|stop}
  decode {stdout|file}
  record-step
  record-step-series
  convert
  daemon {install|uninstall|start|stop|run}`)
}

func defaultConfigPath() string {
	if p := os.Getenv("ACCELCTL_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "accelctl.yaml"
	}
	return filepath.Join(home, ".config", "accelctl", "config.yaml")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
