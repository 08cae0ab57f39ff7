package trace

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
	"github.com/matzehuels/snapguide/pkg/feedback"
)

// Step is the outcome of replaying one sample.
type Step struct {
	Sample   Sample     `json:"sample"`
	Frame    drag.Frame `json:"frame"`
	Accepted bool       `json:"accepted"`
	// Feedback lists the axes whose feedback played after this sample's
	// redraw.
	Feedback []align.Axis `json:"feedback,omitempty"`
}

// Replay is the outcome of replaying a whole trace.
type Replay struct {
	Steps []Step     `json:"steps"`
	Final drag.Frame `json:"final"`
	// Played counts redraws that produced feedback.
	Played int `json:"played"`
}

// Run replays t through a fresh tracker, filter and feedback player. The
// player runs with the recorded cooldown and its clock follows the sample
// timestamps, so cooldowns behave as they did when the trace was recorded.
func Run(t *Trace, logger *log.Logger) (*Replay, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	start := t.CreatedAt
	var clock time.Time
	var played []align.Token
	player := feedback.NewPlayer(
		func(batch []align.Token) { played = append(played, batch...) },
		feedback.WithClock(func() time.Time { return clock }),
		feedback.WithCooldown(t.Cooldown()),
	)

	eng := &align.Engine{
		Decider: feedback.NewFilter(t.SnapDistance, t.ReleaseDistance),
		Issuer:  player,
	}
	tracker := drag.New(eng, drag.Options{
		Bounds:   t.Bounds,
		Box:      t.Box,
		Grid:     t.Grid,
		GridStep: t.GridStep,
		Logger:   logger,
	})

	out := &Replay{Steps: make([]Step, 0, len(t.Samples))}
	for _, s := range t.Samples {
		clock = start.Add(s.At())
		frame, ok := tracker.Handle(s.Event)

		played = played[:0]
		if player.DrawCompleted() > 0 {
			out.Played++
		}
		step := Step{Sample: s, Frame: frame, Accepted: ok}
		for _, tok := range played {
			step.Feedback = append(step.Feedback, tok.Axis)
		}
		out.Steps = append(out.Steps, step)
	}
	out.Final = tracker.Frame()
	logger.Debug("replayed trace", "id", t.ID, "samples", len(t.Samples), "played", out.Played)
	return out, nil
}
