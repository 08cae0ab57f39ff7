package feedback

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/observability"
)

// DefaultCooldown is the minimum gap between two feedback events for the
// same axis.
const DefaultCooldown = 150 * time.Millisecond

// Sink produces the actual feedback for a batch of accepted tokens.
type Sink func(tokens []align.Token)

// Bell returns a sink that rings the terminal bell on w.
func Bell(w io.Writer) Sink {
	return func([]align.Token) {
		_, _ = io.WriteString(w, "\a")
	}
}

// LogSink returns a sink that logs each batch at debug level.
func LogSink(logger *log.Logger) Sink {
	if logger == nil {
		logger = log.Default()
	}
	return func(tokens []align.Token) {
		names := make([]string, len(tokens))
		for i, t := range tokens {
			names[i] = t.Axis.String()
		}
		logger.Debug("feedback", "axes", strings.Join(names, ","))
	}
}

// Sinks combines several sinks into one.
func Sinks(sinks ...Sink) Sink {
	return func(tokens []align.Token) {
		for _, s := range sinks {
			if s != nil {
				s(tokens)
			}
		}
	}
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithCooldown sets the per-axis cooldown. Zero disables it.
func WithCooldown(d time.Duration) PlayerOption {
	return func(p *Player) { p.cooldown = d }
}

// WithClock replaces time.Now, for tests and trace replay.
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) { p.now = now }
}

// Player decides which proposed tokens become feedback. Tokens for an axis
// that was already held are dropped, as are tokens for an axis that played
// within the cooldown. Accepted AfterRedraw tokens wait for DrawCompleted.
//
// Player is safe for concurrent use.
type Player struct {
	mu       sync.Mutex
	sink     Sink
	cooldown time.Duration
	now      func() time.Time
	last     map[align.Axis]time.Time
	pending  []align.Token
	played   int
}

// NewPlayer creates a player that hands accepted tokens to sink.
func NewPlayer(sink Sink, opts ...PlayerOption) *Player {
	p := &Player{
		sink:     sink,
		cooldown: DefaultCooldown,
		now:      time.Now,
		last:     make(map[align.Axis]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Perform implements align.Issuer.
func (p *Player) Perform(tokens []align.Token, timing align.Timing) {
	p.mu.Lock()
	now := p.now()
	var accepted []align.Token
	for _, tok := range tokens {
		ok := tok.Crossed && p.ready(tok.Axis, now)
		observability.Alignment().OnFeedback(tok.Axis.String(), ok)
		if !ok {
			continue
		}
		p.last[tok.Axis] = now
		accepted = append(accepted, tok)
	}
	if timing == align.AfterRedraw {
		p.pending = append(p.pending, accepted...)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	p.play(accepted)
}

// DrawCompleted plays tokens held for AfterRedraw and returns how many
// there were.
func (p *Player) DrawCompleted() int {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()
	p.play(batch)
	return len(batch)
}

// Pending returns the number of tokens waiting for DrawCompleted.
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Played returns how many batches reached the sink.
func (p *Player) Played() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played
}

func (p *Player) ready(axis align.Axis, now time.Time) bool {
	last, ok := p.last[axis]
	return !ok || p.cooldown <= 0 || now.Sub(last) >= p.cooldown
}

func (p *Player) play(batch []align.Token) {
	if len(batch) == 0 {
		return
	}
	p.mu.Lock()
	p.played++
	p.mu.Unlock()
	if p.sink != nil {
		p.sink(batch)
	}
}

var _ align.Issuer = (*Player)(nil)
