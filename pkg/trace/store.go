package trace

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/snapguide/pkg/errors"
)

// Store persists traces.
type Store interface {
	// Save stores t, replacing any trace with the same ID.
	Save(ctx context.Context, t *Trace) error

	// Load returns the trace with the given ID, or a TRACE_NOT_FOUND error.
	Load(ctx context.Context, id string) (*Trace, error)

	// List returns summaries of all stored traces, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Delete removes a trace. Deleting a missing trace is not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes every trace and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// Resolve finds the unique stored trace whose ID starts with prefix. A full
// ID is loaded directly.
func Resolve(ctx context.Context, s Store, prefix string) (*Trace, error) {
	if _, err := uuid.Parse(prefix); err == nil {
		return s.Load(ctx, prefix)
	}
	if prefix == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty trace id")
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var match []string
	for _, sum := range all {
		if strings.HasPrefix(sum.ID, prefix) {
			match = append(match, sum.ID)
		}
	}
	switch len(match) {
	case 0:
		return nil, errors.New(errors.ErrCodeTraceNotFound, "no trace matches %q", prefix)
	case 1:
		return s.Load(ctx, match[0])
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "%q matches %d traces", prefix, len(match))
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "trace id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeTraceNotFound, "trace %s not found", id)
}

func sortNewestFirst(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].ID < s[j].ID
		}
		return s[i].CreatedAt.After(s[j].CreatedAt)
	})
}
