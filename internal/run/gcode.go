package run

import (
	"fmt"
	"strings"
)

// Point is a cartesian start position in millimeters.
type Point struct{ X, Y, Z int }

// TrajectoryOptions configures GenerateTrajectory.
type TrajectoryOptions struct {
	Axis             string // "x", "y", or "z"
	Start            Point
	DistanceMm       int
	StepRepeatCount  int
	GoToStart        bool
	ReturnToStart    bool
	AutoHome         bool
}

// GenerateTrajectory produces a simple coplanar back-and-forth G-code
// move sequence along one axis, starting from opts.Start. A negative
// DistanceMm moves in the opposite direction.
func GenerateTrajectory(opts TrajectoryOptions) []string {
	ax := strings.ToUpper(opts.Axis)
	startAxisMm := map[string]int{"X": opts.Start.X, "Y": opts.Start.Y, "Z": opts.Start.Z}[ax]

	var commands []string

	if opts.AutoHome {
		commands = append(commands, "G28 O X Y Z")
	}
	if opts.GoToStart {
		commands = append(commands, fmt.Sprintf("G1 X%d Y%d Z%d", opts.Start.X, opts.Start.Y, opts.Start.Z))
	}
	for i := 0; i < opts.StepRepeatCount; i++ {
		commands = append(commands, fmt.Sprintf("G1 %s%d", ax, startAxisMm))
		commands = append(commands, fmt.Sprintf("G1 %s%d", ax, startAxisMm+opts.DistanceMm))
	}
	if opts.ReturnToStart {
		commands = append(commands, fmt.Sprintf("G1 %s%d", ax, startAxisMm))
	}

	return commands
}

// InputShapingCommand renders the "M593 <AX> F<freq> D<zeta>" preamble
// that configures the printer's input shaper ahead of one step, per
// spec.md §4.7.
func InputShapingCommand(axis string, frequencyHz uint16, zetaEm2 uint16) string {
	zeta := float64(zetaEm2) / 100.0
	return fmt.Sprintf("M593 %s F%d D%.2f", strings.ToUpper(axis), frequencyHz, zeta)
}
