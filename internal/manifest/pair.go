package manifest

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// LoadPair loads the old and new manifests in parallel. The two loads share
// nothing but the optional progress bar; the first error cancels the other.
func LoadPair(ctx context.Context, oldPath, newPath string, opts Options) (old, new *Manifest, err error) {
	var tracker *progressTracker
	if opts.ShowProgress {
		tracker, err = newProgressTracker(oldPath, newPath)
		if err != nil {
			return nil, nil, err
		}
		defer tracker.Finish()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := load(gctx, oldPath, opts, tracker)
		old = m
		return err
	})
	g.Go(func() error {
		m, err := load(gctx, newPath, opts, tracker)
		new = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return old, new, nil
}
