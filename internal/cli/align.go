package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/api"
	"github.com/matzehuels/snapguide/pkg/errors"
	"github.com/matzehuels/snapguide/pkg/feedback"
)

// alignOptions holds the flags of the align command.
type alignOptions struct {
	previous  string
	candidate string
	bounds    string
	snap      float64
	release   float64
	json      bool
	remote    string
}

// alignCommand creates the align command for a single alignment pass.
func (c *CLI) alignCommand() *cobra.Command {
	opts := alignOptions{}

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Run one alignment pass and print the corrected rectangle",
		Long: `Run one alignment pass over a previous and a candidate rectangle.

Rectangles are given as x,y,width,height. Bounds default to the configured
canvas. The command prints the corrected rectangle, the engaged axes and
the feedback tokens proposed for the pass.`,
		Example: `  snapguide align --previous 120,40,200,200 --candidate 101,40,200,200 --bounds 0,0,400,300`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAlign(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.previous, "previous", "", "rectangle shown last (x,y,w,h)")
	cmd.Flags().StringVar(&opts.candidate, "candidate", "", "rectangle the pointer would produce (x,y,w,h)")
	cmd.Flags().StringVar(&opts.bounds, "bounds", "", "container rectangle (default: configured canvas)")
	cmd.Flags().Float64Var(&opts.snap, "snap", 0, "snap distance (default: configured)")
	cmd.Flags().Float64Var(&opts.release, "release", 0, "release distance (default: configured)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "ask a snapguide server at this URL instead of aligning locally")
	_ = cmd.MarkFlagRequired("candidate")

	return cmd
}

func (c *CLI) runAlign(cmd *cobra.Command, opts alignOptions) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	candidate, err := parseRect(opts.candidate)
	if err != nil {
		return fmt.Errorf("--candidate: %w", err)
	}
	previous := candidate
	if opts.previous != "" {
		if previous, err = parseRect(opts.previous); err != nil {
			return fmt.Errorf("--previous: %w", err)
		}
	}
	bounds := cfg.Bounds()
	if opts.bounds != "" {
		if bounds, err = parseRect(opts.bounds); err != nil {
			return fmt.Errorf("--bounds: %w", err)
		}
	}

	snap, release := cfg.Snap.Distance, cfg.Snap.Release
	if opts.snap > 0 {
		snap = opts.snap
	}
	if opts.release > 0 {
		release = opts.release
	}

	var res align.Result
	if opts.remote != "" {
		res, err = api.NewClient(opts.remote).Align(cmd.Context(), api.AlignRequest{
			Previous:        previous,
			Candidate:       candidate,
			Bounds:          bounds,
			SnapDistance:    snap,
			ReleaseDistance: release,
		})
		if err != nil {
			return err
		}
	} else {
		rec := &feedback.Recorder{}
		eng := align.Engine{Decider: feedback.NewFilter(snap, release), Issuer: rec}
		res = eng.Align(previous, candidate, bounds)
		c.Logger.Debug("aligned", "previous", previous, "candidate", candidate, "bounds", bounds, "submissions", len(rec.Submissions()))
	}

	out := cmd.OutOrStdout()
	if opts.json {
		if res.Tokens == nil {
			res.Tokens = []align.Token{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "rect      %s\n", formatRect(res.Rect))
	fmt.Fprintf(out, "snaps     %s\n", res.Snaps)
	fmt.Fprintf(out, "center    x=%t y=%t\n", res.CenterX, res.CenterY)
	for _, tok := range res.Tokens {
		fmt.Fprintf(out, "token     %-8s ref=%g default=%g crossed=%t\n", tok.Axis, tok.Reference, tok.Default, tok.Crossed)
	}
	return nil
}

// parseRect parses "x,y,w,h". Whitespace around the numbers is ignored.
func parseRect(s string) (align.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return align.Rect{}, errors.New(errors.ErrCodeInvalidInput, "rectangle %q: want x,y,width,height", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return align.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "rectangle %q", s)
		}
		v[i] = f
	}
	r := align.NewRect(v[0], v[1], v[2], v[3])
	if err := r.Validate(); err != nil {
		return align.Rect{}, err
	}
	return r, nil
}
