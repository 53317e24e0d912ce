package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/bytelink"
	"github.com/axxeldrive/cdc-accel-driver/internal/decoder"
	"github.com/axxeldrive/cdc-accel-driver/internal/device"
	"github.com/axxeldrive/cdc-accel-driver/internal/store"
)

func decodeCommand(args []string, log *logrus.Entry) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: accelctl decode {stdout|file} [path]")
		return exitUsageError
	}

	target, rest := args[0], args[1:]
	var path string
	switch target {
	case "stdout":
	case "file":
		if len(rest) < 1 {
			fmt.Fprintln(os.Stderr, "usage: accelctl decode file <path>")
			return exitUsageError
		}
		path, rest = rest[0], rest[1:]
	default:
		fmt.Fprintf(os.Stderr, "unknown decode target %q\n", target)
		return exitUsageError
	}

	fs := flag.NewFlagSet("decode "+target, flag.ContinueOnError)
	port := fs.String("port", "", "serial device path (required)")
	n := fs.Uint("n", 0, "number of samples to request (0 streams until stopped)")
	timeoutS := fs.Float64("timeout", 5.0, "message quiescence timeout, in seconds")
	if err := fs.Parse(rest); err != nil {
		return exitUsageError
	}
	if *port == "" {
		fmt.Fprintln(os.Stderr, "-port is required")
		return exitUsageError
	}
	if err := validateSampleCount(*n); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}

	link, err := bytelink.Open(*port, bytelink.Config{ReadTimeout: 2 * time.Second, WriteTimeout: 2 * time.Second})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	defer link.Close()

	var sink *store.SampleStore
	if target == "stdout" {
		sink = store.NewWriter(os.Stdout)
	} else {
		sink, err = store.Create(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsageError
		}
	}

	client := device.NewClient(link, log)
	dec := decoder.New(link, log)

	errCh := make(chan error, 1)
	go func() { errCh <- dec.Decode(context.Background(), true, *timeoutS, sink) }()

	time.Sleep(100 * time.Millisecond)
	if err := client.StartSampling(uint16(*n)); err != nil {
		<-errCh
		sink.Close()
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}

	decodeErr := <-errCh
	closeErr := sink.Close()
	if decodeErr != nil {
		fmt.Fprintln(os.Stderr, decodeErr)
		return exitUsageError
	}
	if closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
		return exitUsageError
	}
	return exitSuccess
}
