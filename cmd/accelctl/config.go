package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/axxeldrive/cdc-accel-driver/internal/bytelink"
	"github.com/axxeldrive/cdc-accel-driver/internal/config"
	"github.com/axxeldrive/cdc-accel-driver/internal/device"
	"github.com/axxeldrive/cdc-accel-driver/internal/logging"
	"github.com/axxeldrive/cdc-accel-driver/internal/wire"
)

func configCommand(args []string, configPath string, cfg config.Config) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: accelctl config {get|set|all} [-port dev] [odr|range|scale] [value]")
		return exitUsageError
	}

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	port := fs.String("port", cfg.Serial.Device, "serial device path")
	if err := fs.Parse(args[1:]); err != nil {
		return exitUsageError
	}
	rest := fs.Args()

	if *port == "" {
		fmt.Fprintln(os.Stderr, "-port is required (or set serial.device in the config file)")
		return exitUsageError
	}
	link, err := bytelink.Open(*port, bytelink.Config{ReadTimeout: 2 * time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	defer link.Close()
	client := device.NewClient(link, logging.Setup(logging.Options{Level: "info"}))

	switch args[0] {
	case "all":
		return configGetAll(client)
	case "get":
		if len(rest) != 1 {
			fmt.Fprintln(os.Stderr, "usage: accelctl config get {odr|range|scale}")
			return exitUsageError
		}
		return configGet(client, rest[0])
	case "set":
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "usage: accelctl config set {odr|range|scale} <value>")
			return exitUsageError
		}
		return configSet(client, rest[0], rest[1])
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand %q\n", args[0])
		return exitUsageError
	}
}

func configGet(client *device.Client, key string) int {
	switch key {
	case "odr":
		v, err := client.GetOutputDataRate()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		fmt.Println(v)
	case "range":
		v, err := client.GetRange()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		fmt.Println(v)
	case "scale":
		v, err := client.GetScale()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
		fmt.Println(v)
	default:
		fmt.Fprintf(os.Stderr, "unknown config key %q\n", key)
		return exitUsageError
	}
	return exitSuccess
}

func configGetAll(client *device.Client) int {
	setup, err := client.GetDeviceSetup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	fmt.Printf("odr=%s range=%s scale=%s\n", setup.ODR, setup.Range, setup.Scale)
	return exitSuccess
}

func configSet(client *device.Client, key, value string) int {
	switch key {
	case "odr":
		odr, ok := odrByName(value)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown odr %q\n", value)
			return exitUsageError
		}
		if err := client.SetOutputDataRate(odr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	case "range":
		r, ok := rangeByName(value)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown range %q\n", value)
			return exitUsageError
		}
		if err := client.SetRange(r); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	case "scale":
		s, ok := scaleByName(value)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown scale %q\n", value)
			return exitUsageError
		}
		if err := client.SetScale(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown config key %q\n", key)
		return exitUsageError
	}
	return exitSuccess
}

func odrByName(name string) (wire.OutputDataRate, bool) {
	for _, odr := range []wire.OutputDataRate{
		wire.ODR3200, wire.ODR1600, wire.ODR800, wire.ODR400, wire.ODR200, wire.ODR100,
		wire.ODR50, wire.ODR25, wire.ODR12_5, wire.ODR6_25, wire.ODR3_13, wire.ODR1_56,
		wire.ODR0_78, wire.ODR0_39, wire.ODR0_20, wire.ODR0_10,
	} {
		if odr.String() == name {
			return odr, true
		}
	}
	return 0, false
}

func rangeByName(name string) (wire.Range, bool) {
	for _, r := range []wire.Range{wire.RangeG2, wire.RangeG4, wire.RangeG8, wire.RangeG16} {
		if r.String() == name {
			return r, true
		}
	}
	return 0, false
}

func scaleByName(name string) (wire.Scale, bool) {
	for _, s := range []wire.Scale{wire.ScaleScaled10Bit, wire.ScaleFullRes4mgLSB} {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
