package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/bytelink"
	"github.com/axxeldrive/cdc-accel-driver/internal/config"
	"github.com/axxeldrive/cdc-accel-driver/internal/device"
)

func streamCommand(args []string, cfg config.Config, log *logrus.Entry) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: accelctl stream {start|stop}")
		return exitUsageError
	}

	fs := flag.NewFlagSet("stream "+args[0], flag.ContinueOnError)
	port := fs.String("port", cfg.Serial.Device, "serial device path")
	n := fs.Uint("n", 0, "number of samples to request (start only; 0 streams until stop)")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsageError
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "-port is required (or set serial.device in the config file)")
		return exitUsageError
	}
	if args[0] == "start" {
		if err := validateSampleCount(*n); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	}

	link, err := bytelink.Open(*port, bytelink.Config{ReadTimeout: 2 * time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	defer link.Close()
	client := device.NewClient(link, log)

	switch args[0] {
	case "start":
		if err := client.StartSampling(uint16(*n)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		fmt.Println("sampling started")
	case "stop":
		if err := client.StopSampling(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		fmt.Println("sampling stop requested")
	default:
		fmt.Fprintf(os.Stderr, "unknown stream subcommand %q\n", args[0])
		return exitUsageError
	}
	return exitSuccess
}
