// Package printer sends G-code command batches to an OctoPrint instance
// (or, in dry-run mode, just logs them) on behalf of a recording step.
package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
)

// requestBody is the payload OctoPrint's /api/printer/command endpoint
// expects.
type requestBody struct {
	Commands []string `json:"commands"`
}

// HTTPPrinter posts G-code command batches to OctoPrint's REST API.
// Success is HTTP 204 with no body, matching OctoPrint's own contract.
type HTTPPrinter struct {
	client *http.Client
	url    string
	apiKey string
	log    *logrus.Entry

	maxElapsed time.Duration
}

// NewHTTPPrinter builds an HTTPPrinter targeting http://address:port.
func NewHTTPPrinter(address string, port int, apiKey string, log *logrus.Entry) *HTTPPrinter {
	return &HTTPPrinter{
		client:     &http.Client{Timeout: 5 * time.Second},
		url:        fmt.Sprintf("http://%s:%d/api/printer/command", address, port),
		apiKey:     apiKey,
		log:        log,
		maxElapsed: 10 * time.Second,
	}
}

// SendCommands posts commands to OctoPrint, retrying transient failures
// (connection refused, 5xx, timeouts) with exponential backoff up to
// maxElapsed. A non-204 response that isn't retryable is returned
// immediately.
func (p *HTTPPrinter) SendCommands(commands []string) error {
	p.log.WithField("commands", commands).Debug("sending gcode to printer")

	body, err := json.Marshal(requestBody{Commands: commands})
	if err != nil {
		return fmt.Errorf("printer: encode request: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.maxElapsed

	return backoff.Retry(func() error {
		req, err := http.NewRequest(http.MethodPost, p.url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("printer: build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Api-Key", p.apiKey)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("printer: request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("printer: server error: %s", resp.Status)
		}
		return backoff.Permanent(fmt.Errorf("printer: unexpected response: %s", resp.Status))
	}, b)
}

// DryRunPrinter logs the commands that would have been sent without
// talking to a printer, for rehearsing a sweep offline.
type DryRunPrinter struct {
	log *logrus.Entry
}

// NewDryRunPrinter builds a DryRunPrinter.
func NewDryRunPrinter(log *logrus.Entry) *DryRunPrinter {
	return &DryRunPrinter{log: log}
}

// SendCommands logs commands and always succeeds.
func (p *DryRunPrinter) SendCommands(commands []string) error {
	p.log.WithField("commands", commands).Info("dry run: would send gcode to printer")
	return nil
}
