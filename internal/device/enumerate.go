// Package device implements the request/reply operations spoken with the
// accelerometer controller, plus USB-serial discovery filtered to its
// known VID/PID pair.
package device

import (
	"fmt"
	"strconv"
	"strings"

	serialenum "go.bug.st/serial/enumerator"
)

// controllerVID and controllerPID identify this accelerometer controller
// among all enumerated serial ports, per spec.md §4.4.
const (
	controllerVID = 0x1209
	controllerPID = 0xE11A
)

// Info describes one matching serial device.
type Info struct {
	Name         string
	Manufacturer string
	Product      string
	VID          uint16
	PID          uint16
	SerialNumber string
}

// ListDevices enumerates serial ports and returns those matching the
// controller's VID/PID.
func ListDevices() ([]Info, error) {
	ports, err := serialenum.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("device: enumerate serial ports: %w", err)
	}

	var matches []Info
	for _, port := range ports {
		if !isController(*port) {
			continue
		}
		info, err := portDetailsToInfo(*port)
		if err != nil {
			continue
		}
		matches = append(matches, info)
	}
	return matches, nil
}

func isController(port serialenum.PortDetails) bool {
	vid, err := strconv.ParseUint(port.VID, 16, 16)
	if err != nil {
		return false
	}
	pid, err := strconv.ParseUint(port.PID, 16, 16)
	if err != nil {
		return false
	}
	return uint16(vid) == controllerVID && uint16(pid) == controllerPID
}

func portDetailsToInfo(port serialenum.PortDetails) (Info, error) {
	vid, err := strconv.ParseUint(strings.ToUpper(port.VID), 16, 16)
	if err != nil {
		return Info{}, err
	}
	pid, err := strconv.ParseUint(strings.ToUpper(port.PID), 16, 16)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Name:         port.Name,
		Manufacturer: port.Manufacturer,
		Product:      port.Product,
		VID:          uint16(vid),
		PID:          uint16(pid),
		SerialNumber: port.SerialNumber,
	}, nil
}
