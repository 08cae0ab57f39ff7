package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/feedback"
)

// Trace is a recorded drag session.
type Trace struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name,omitempty" yaml:"name,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Bounds   align.Rect `json:"bounds" yaml:"bounds"`
	Box      align.Rect `json:"box" yaml:"box"`
	Grid     bool       `json:"grid,omitempty" yaml:"grid,omitempty"`
	GridStep float64    `json:"grid_step,omitempty" yaml:"grid_step,omitempty"`

	SnapDistance    float64 `json:"snap_distance" yaml:"snap_distance"`
	ReleaseDistance float64 `json:"release_distance" yaml:"release_distance"`
	// CooldownMillis is the per-axis feedback cooldown the session ran
	// with. Traces without one replay with feedback.DefaultCooldown.
	CooldownMillis *int64 `json:"cooldown_ms,omitempty" yaml:"cooldown_ms,omitempty"`

	Samples []Sample `json:"samples" yaml:"samples"`
}

// Sample is a pointer event with its offset from the start of the session.
type Sample struct {
	drag.Event `yaml:",inline"`
	AtMillis   int64 `json:"at_ms" yaml:"at_ms"`
}

// At returns the sample offset as a duration.
func (s Sample) At() time.Duration {
	return time.Duration(s.AtMillis) * time.Millisecond
}

// Cooldown returns the feedback cooldown to replay t with.
func (t *Trace) Cooldown() time.Duration {
	if t.CooldownMillis == nil {
		return feedback.DefaultCooldown
	}
	return time.Duration(*t.CooldownMillis) * time.Millisecond
}

// SetCooldown records the feedback cooldown of the session.
func (t *Trace) SetCooldown(d time.Duration) {
	ms := d.Milliseconds()
	t.CooldownMillis = &ms
}

// Summary is the listing view of a stored trace.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Samples   int       `json:"samples"`
}

// Summary returns the listing view of t.
func (t *Trace) Summary() Summary {
	return Summary{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, Samples: len(t.Samples)}
}

// Duration returns the offset of the last sample.
func (t *Trace) Duration() time.Duration {
	if len(t.Samples) == 0 {
		return 0
	}
	return t.Samples[len(t.Samples)-1].At()
}

// Validate checks that t can be replayed.
func (t *Trace) Validate() error {
	if _, err := uuid.Parse(t.ID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrace, err, "trace id %q", t.ID)
	}
	if err := t.Bounds.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrace, err, "bounds")
	}
	if err := t.Box.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrace, err, "box")
	}
	if t.CooldownMillis != nil && *t.CooldownMillis < 0 {
		return errors.New(errors.ErrCodeInvalidTrace, "negative cooldown %dms", *t.CooldownMillis)
	}
	var last int64
	for i, s := range t.Samples {
		if s.AtMillis < last {
			return errors.New(errors.ErrCodeInvalidTrace, "sample %d goes back in time (%dms < %dms)", i, s.AtMillis, last)
		}
		last = s.AtMillis
	}
	return nil
}

// Write encodes t as indented JSON.
func Write(w io.Writer, t *Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// Read decodes and validates a trace.
func Read(r io.Reader) (*Trace, error) {
	var t Trace
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTrace, err, "decode trace")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// WriteYAML encodes t as YAML, for hand-edited fixtures.
func WriteYAML(w io.Writer, t *Trace) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML decodes and validates a YAML trace.
func ReadYAML(r io.Reader) (*Trace, error) {
	var t Trace
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTrace, err, "decode trace")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Capture builds a trace while a session runs.
type Capture struct {
	trace *Trace
	start time.Time
	now   func() time.Time
}

// NewCapture starts recording. The template's settings are copied; ID and
// CreatedAt are assigned here.
func NewCapture(template Trace) *Capture {
	return newCapture(template, time.Now)
}

func newCapture(template Trace, now func() time.Time) *Capture {
	t := template
	t.ID = uuid.NewString()
	t.CreatedAt = now().UTC()
	t.Samples = nil
	return &Capture{trace: &t, start: now(), now: now}
}

// Add appends an event stamped with the elapsed time.
func (c *Capture) Add(ev drag.Event) {
	c.trace.Samples = append(c.trace.Samples, Sample{
		Event:    ev,
		AtMillis: c.now().Sub(c.start).Milliseconds(),
	})
}

// Len returns the number of recorded samples.
func (c *Capture) Len() int { return len(c.trace.Samples) }

// Trace returns the recording so far.
func (c *Capture) Trace() *Trace { return c.trace }

func (t *Trace) String() string {
	name := t.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("%s (%s, %d samples)", t.ID, name, len(t.Samples))
}
