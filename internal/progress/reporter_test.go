package progress

import (
	"bytes"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewLineReporter(&buf)
	r.Start(2, "Checking votes")
	r.Update(1, "p1")
	r.Update(2, "p2")
	r.Finish()

	want := "Checking votes: 2 items\n[1/2] p1\n[2/2] p2\nChecking votes: done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestQuietReporter(t *testing.T) {
	if _, ok := NewReporter(&bytes.Buffer{}, true).(Nop); !ok {
		t.Error("quiet reporter is not Nop")
	}
}
