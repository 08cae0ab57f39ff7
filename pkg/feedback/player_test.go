package feedback

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapguide/pkg/align"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func crossed(axis align.Axis) align.Token { return align.Token{Axis: axis, Crossed: true} }

func TestPlayerImmediate(t *testing.T) {
	var batches [][]align.Token
	p := NewPlayer(func(b []align.Token) { batches = append(batches, b) })

	p.Perform([]align.Token{crossed(align.Left), crossed(align.Top)}, align.Immediate)
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Fatalf("batches = %v, want one batch of two", batches)
	}
	if p.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", p.Pending())
	}
}

func TestPlayerAfterRedraw(t *testing.T) {
	var got []align.Token
	p := NewPlayer(func(b []align.Token) { got = append(got, b...) })

	p.Perform([]align.Token{crossed(align.CenterX)}, align.AfterRedraw)
	if len(got) != 0 {
		t.Fatal("AfterRedraw tokens must wait for DrawCompleted")
	}
	if p.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", p.Pending())
	}
	if n := p.DrawCompleted(); n != 1 {
		t.Errorf("DrawCompleted() = %d, want 1", n)
	}
	if len(got) != 1 || got[0].Axis != align.CenterX {
		t.Errorf("played = %v", got)
	}
	if n := p.DrawCompleted(); n != 0 {
		t.Errorf("second DrawCompleted() = %d, want 0", n)
	}
	if p.Played() != 1 {
		t.Errorf("Played() = %d, want 1", p.Played())
	}
}

func TestPlayerDropsHeldTokens(t *testing.T) {
	calls := 0
	p := NewPlayer(func([]align.Token) { calls++ })
	p.Perform([]align.Token{{Axis: align.Left, Crossed: false}}, align.Immediate)
	if calls != 0 {
		t.Errorf("sink called %d times for a held token", calls)
	}
}

func TestPlayerCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	calls := 0
	p := NewPlayer(func([]align.Token) { calls++ },
		WithCooldown(100*time.Millisecond), WithClock(clock.now))

	p.Perform([]align.Token{crossed(align.Left)}, align.Immediate)
	clock.advance(50 * time.Millisecond)
	p.Perform([]align.Token{crossed(align.Left)}, align.Immediate)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 inside cooldown", calls)
	}

	// A different axis is not affected.
	p.Perform([]align.Token{crossed(align.Right)}, align.Immediate)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}

	clock.advance(60 * time.Millisecond)
	p.Perform([]align.Token{crossed(align.Left)}, align.Immediate)
	if calls != 3 {
		t.Errorf("calls = %d, want 3 after cooldown", calls)
	}
}

func TestSinks(t *testing.T) {
	var bell bytes.Buffer
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

	sink := Sinks(Bell(&bell), LogSink(logger), nil)
	sink([]align.Token{crossed(align.Bottom)})

	if bell.String() != "\a" {
		t.Errorf("bell wrote %q", bell.String())
	}
	if !bytes.Contains(logs.Bytes(), []byte("bottom")) {
		t.Errorf("log output %q should name the axis", logs.String())
	}
}

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, nil, &b}
	toks := []align.Token{crossed(align.Top)}
	m.Perform(toks, align.AfterRedraw)
	toks[0].Axis = align.Bottom

	for _, r := range []*Recorder{&a, &b} {
		subs := r.Submissions()
		if len(subs) != 1 {
			t.Fatalf("submissions = %d, want 1", len(subs))
		}
		if subs[0].Timing != align.AfterRedraw || subs[0].Tokens[0].Axis != align.Top {
			t.Errorf("submission = %+v", subs[0])
		}
	}
	a.Reset()
	if len(a.Submissions()) != 0 {
		t.Error("Reset should clear submissions")
	}
}
