package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/run"
	"github.com/axxeldrive/cdc-accel-driver/internal/store"
)

// convertCommand re-derives FFT-variant filenames for a directory of
// recorded stream files sharing a run_hash, the way record-step-series'
// batch output is meant to be picked up downstream: each matched
// <prefix>-<run_hash>-<stream_hash>-...-a<axis>-...tsv stream file gets a
// sibling name per axis in -fft-axes, with the FFT axis component
// inserted before the extension. This only creates empty placeholder files
// or copies; it does not compute an FFT.
func convertCommand(args []string, log *logrus.Entry) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory containing stream files (required)")
	pattern := fs.String("pattern", `\.tsv$`, "regex selecting stream files within -dir")
	fftAxes := fs.String("fft-axes", "x,y,z", "comma-separated FFT axis components to derive per stream file")
	ext := fs.String("ext", "tsv", "extension for the derived FFT filenames")
	copyData := fs.Bool("copy", false, "copy each stream file's contents to its derived name instead of creating an empty file")
	if err := fs.Parse(args); err != nil {
		return exitUsageError
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "-dir is required")
		return exitUsageError
	}

	matches, err := store.SelectFiles(*dir, *pattern)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsageError
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stderr, "no files matched")
		return exitNothingToDo
	}

	axes := splitAxes(*fftAxes)
	derived := 0
	for _, path := range matches {
		stamped, err := run.ParseStreamFilename(filepath.Base(path))
		if err != nil {
			log.WithField("file", path).Warn("skipping: not a stream filename")
			continue
		}
		for _, axis := range axes {
			stamped.Ext = *ext
			outName := run.FormatFFTFilename(stamped, axis)
			outPath := filepath.Join(*dir, outName)
			if err := deriveFFTFile(path, outPath, *copyData); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return exitUsageError
			}
			log.WithFields(logrus.Fields{"in": path, "out": outPath}).Info("derived fft filename")
			derived++
		}
	}
	if derived == 0 {
		return exitNothingToDo
	}
	return exitSuccess
}

// deriveFFTFile creates outPath, either as a copy of in's contents
// (-copy) or as an empty placeholder ready for whatever downstream tool
// fills in the actual FFT (this repo does not compute FFTs itself; see
// the non-goal on in-process FFT pipelines).
func deriveFFTFile(in, out string, copyData bool) error {
	if !copyData {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("convert: create %s: %w", out, err)
		}
		return f.Close()
	}

	src, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("convert: read %s: %w", in, err)
	}
	if err := os.WriteFile(out, src, 0o644); err != nil {
		return fmt.Errorf("convert: write %s: %w", out, err)
	}
	return nil
}
