package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/bytelink"
	"github.com/axxeldrive/cdc-accel-driver/internal/device"
)

func deviceCommand(args []string, log *logrus.Entry) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: accelctl device {list|json|reboot}")
		return exitUsageError
	}

	switch args[0] {
	case "list":
		return deviceList(false)
	case "json":
		return deviceList(true)
	case "reboot":
		return deviceReboot(args[1:], log)
	default:
		fmt.Fprintf(os.Stderr, "unknown device subcommand %q\n", args[0])
		return exitUsageError
	}
}

func deviceList(asJSON bool) int {
	devices, err := device.ListDevices()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	if len(devices) == 0 {
		fmt.Fprintln(os.Stderr, "no matching devices found")
		return exitNothingToDo
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(devices); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		return exitSuccess
	}

	for _, d := range devices {
		fmt.Printf("%s\t%s %s\tserial=%s\tvid=0x%04x pid=0x%04x\n",
			d.Name, d.Manufacturer, d.Product, d.SerialNumber, d.VID, d.PID)
	}
	return exitSuccess
}

func deviceReboot(args []string, log *logrus.Entry) int {
	fs := flag.NewFlagSet("device reboot", flag.ContinueOnError)
	port := fs.String("port", "", "serial device path (required)")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "-port is required")
		return exitUsageError
	}

	link, err := bytelink.Open(*port, bytelink.Config{ReadTimeout: 2 * time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	defer link.Close()

	client := device.NewClient(link, log)
	if err := client.Reboot(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	fmt.Println("reboot requested")
	return exitSuccess
}
