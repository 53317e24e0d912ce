package daemon

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func silentLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestProgramStopCancelsSweepContext(t *testing.T) {
	started := make(chan struct{})
	canceled := make(chan struct{})

	p := &program{
		log: silentLog(),
		sweep: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			close(canceled)
			return ctx.Err()
		},
	}

	if err := p.Start(nil); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("sweep never started")
	}

	if err := p.Stop(nil); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case <-canceled:
	case <-time.After(time.Second):
		t.Fatal("sweep context was never canceled")
	}
}
