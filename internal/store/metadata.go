// Package store writes and reads the tab-separated sample files this
// driver produces: one header line, one line per decoded sample, and a
// trailing "# {...}" comment recording the session's device configuration.
package store

import "encoding/json"

// Metadata is the trailing comment's content: the device configuration and
// sample counts observed during one sampling session. Every value is
// rendered as a JSON string, matching the on-disk format byte for byte.
type Metadata struct {
	Rate     string `json:"rate"`
	Range    string `json:"range"`
	Scale    string `json:"scale"`
	Firmware struct {
		Version string `json:"version"`
	} `json:"firmware"`
	Samples struct {
		Requested string `json:"requested"`
		Received  string `json:"received"`
	} `json:"samples"`
}

// FormatMetadata renders m as the trailing comment line, without the
// leading "# " marker.
func FormatMetadata(m Metadata) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseMetadata recovers a Metadata from a comment line's JSON body (the
// "# " marker already stripped by the caller). This is the restricted
// JSON-subset parser the design calls for: encoding/json parses strictly
// defined JSON grammar and never evaluates arbitrary input.
func ParseMetadata(body string) (Metadata, error) {
	var m Metadata
	err := json.Unmarshal([]byte(body), &m)
	return m, err
}
