// Package batch simulates many independent fields in parallel.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"rensa_sim/internal/field"
)

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrent simulations; 0 means no bound.
	Workers int
	// Fast uses the fast resolver; Frames and Quick stay zero.
	Fast bool
}

// Outcome is the result for the field at Index of the input.
type Outcome struct {
	Index    int               `json:"index"`
	Result   field.RensaResult `json:"result"`
	Rows     []string          `json:"rows"`
	Zenkeshi bool              `json:"zenkeshi"`
}

// Simulate runs every field to the end of its cascade. Each worker owns a copy of
// its field; the input slice is not modified. Cancellation is observed between
// fields, never inside a cascade.
func Simulate(ctx context.Context, fields []field.Field, opts Options) ([]Outcome, error) {
	out := make([]Outcome, len(fields))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}

	for i := range fields {
		if gctx.Err() != nil {
			break
		}
		f := fields[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = run(i, f, opts.Fast)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func run(i int, f field.Field, fast bool) Outcome {
	var res field.RensaResult
	if fast {
		res.Chains, res.Score = f.SimulateFast()
	} else {
		res = f.Simulate()
	}
	g := f.ToGrid()
	return Outcome{
		Index:    i,
		Result:   res,
		Rows:     g.Rows(),
		Zenkeshi: f.IsZenkeshi(),
	}
}
