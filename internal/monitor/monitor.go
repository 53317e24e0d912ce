// Package monitor exposes a read-only websocket live-view of decoded
// samples and sweep progress, for a browser tab watching a recording in
// progress.
package monitor

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cskr/pubsub"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/axxeldrive/cdc-accel-driver/internal/decoder"
	"github.com/axxeldrive/cdc-accel-driver/internal/run"
	"github.com/axxeldrive/cdc-accel-driver/internal/store"
)

// SampleTopic is the pubsub topic BroadcastingSink publishes Sample
// events on.
const SampleTopic = "monitor.sample"

// Sample is one decoded acceleration reading, broadcast for live-view
// subscribers.
type Sample struct {
	Seq   uint8
	Index uint16
	X, Y, Z float64
}

// BroadcastingSink wraps a decoder.Sink, publishing every written sample
// to a pubsub topic in addition to forwarding the call through — a step
// keeps writing its .tsv file untouched while the live view watches
// along.
type BroadcastingSink struct {
	inner  decoder.Sink
	broker *pubsub.PubSub
}

// NewBroadcastingSink wraps inner, publishing samples on broker.
func NewBroadcastingSink(inner decoder.Sink, broker *pubsub.PubSub) *BroadcastingSink {
	return &BroadcastingSink{inner: inner, broker: broker}
}

func (s *BroadcastingSink) WriteHeader() error { return s.inner.WriteHeader() }

func (s *BroadcastingSink) WriteSample(seq uint8, index uint16, x, y, z float64) error {
	s.broker.TryPub(Sample{Seq: seq, Index: index, X: x, Y: y, Z: z}, SampleTopic)
	return s.inner.WriteSample(seq, index, x, y, z)
}

func (s *BroadcastingSink) WriteMetadata(m store.Metadata) error { return s.inner.WriteMetadata(m) }

// Message is one event sent up the websocket.
type Message struct {
	Sample   *Sample
	Progress *run.Progress
}

// MarshalJSON tags the event with a discriminant "type" field, matching
// the teacher's websocket message shape.
func (m *Message) MarshalJSON() ([]byte, error) {
	if m.Sample != nil {
		return json.Marshal(&struct {
			Type string `json:"type"`
			Sample
		}{Type: "Sample", Sample: *m.Sample})
	}
	if m.Progress != nil {
		return json.Marshal(&struct {
			Type string `json:"type"`
			run.Progress
		}{Type: "Progress", Progress: *m.Progress})
	}
	return nil, errors.New("monitor: empty message")
}

// Handle serves one websocket live-view endpoint per connection,
// forwarding Sample and Progress events published on broker.
type Handle struct {
	Broker *pubsub.PubSub
	Log    *logrus.Entry
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a websocket and streams Sample and
// Progress events until the client disconnects.
func (h *Handle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.Log.WithField("clientAddress", r.RemoteAddr)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("could not upgrade connection to websocket")
		http.Error(w, "websocket upgrade error", http.StatusBadRequest)
		return
	}
	log.Info("monitor websocket connection opened")

	samples := h.Broker.Sub(SampleTopic)
	progress := h.Broker.Sub(run.ProgressTopic)
	defer func() {
		h.Broker.Unsub(samples)
		h.Broker.Unsub(progress)
		conn.Close()
		log.Info("monitor websocket connection closed")
	}()

	var writeMu sync.Mutex
	send := func(msg Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(50 * time.Millisecond))
		return conn.WriteJSON(&msg)
	}

	// Drain and discard client-sent frames so a close frame is noticed
	// promptly; a read error closes the connection.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				conn.Close()
				return
			}
		}
	}()

	for {
		select {
		case v, ok := <-samples:
			if !ok {
				return
			}
			s := v.(Sample)
			if err := send(Message{Sample: &s}); err != nil {
				return
			}
		case v, ok := <-progress:
			if !ok {
				return
			}
			p := v.(run.Progress)
			if err := send(Message{Progress: &p}); err != nil {
				return
			}
		}
	}
}
