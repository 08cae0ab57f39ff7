package feedback

import (
	"sync"

	"github.com/matzehuels/snapguide/pkg/align"
)

// Submission is one call an issuer received.
type Submission struct {
	Tokens []align.Token `json:"tokens"`
	Timing align.Timing  `json:"timing"`
}

// Recorder keeps every submission it receives.
type Recorder struct {
	mu          sync.Mutex
	submissions []Submission
}

// Perform implements align.Issuer.
func (r *Recorder) Perform(tokens []align.Token, timing align.Timing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, Submission{
		Tokens: append([]align.Token(nil), tokens...),
		Timing: timing,
	})
}

// Submissions returns a copy of everything recorded so far.
func (r *Recorder) Submissions() []Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Submission(nil), r.submissions...)
}

// Reset discards recorded submissions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = nil
}

// Multi fans each submission out to several issuers in order.
type Multi []align.Issuer

// Perform implements align.Issuer.
func (m Multi) Perform(tokens []align.Token, timing align.Timing) {
	for _, iss := range m {
		if iss != nil {
			iss.Perform(tokens, timing)
		}
	}
}

var (
	_ align.Issuer = (*Recorder)(nil)
	_ align.Issuer = Multi(nil)
)
