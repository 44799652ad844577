package model

import (
	"testing"
	"time"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time           { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClock(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClock(time.Minute)
	c.now = ft.now

	ft.advance(10 * time.Second)
	if got := c.Remaining(); got != time.Minute {
		t.Errorf("stopped clock Remaining() = %v; want 1m", got)
	}

	c.Start()
	ft.advance(15 * time.Second)
	if got := c.Remaining(); got != 45*time.Second {
		t.Errorf("running Remaining() = %v; want 45s", got)
	}
	c.Stop()
	if c.Running() {
		t.Error("clock still running after Stop")
	}
	ft.advance(time.Hour)
	if got := c.Remaining(); got != 45*time.Second {
		t.Errorf("Remaining() after Stop = %v; want 45s", got)
	}

	c.Start()
	ft.advance(2 * time.Minute)
	if got := c.Remaining(); got != 0 {
		t.Errorf("expired Remaining() = %v; want 0", got)
	}
}
