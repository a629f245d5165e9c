package manifest

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// progressTracker counts compressed bytes read across one or more files
type progressTracker struct {
	bar *progressbar.ProgressBar
}

func newProgressTracker(paths ...string) (*progressTracker, error) {
	var total int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		total += info.Size()
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("loading manifests"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	return &progressTracker{bar: bar}, nil
}

// wrap returns r unchanged on a nil tracker
func (t *progressTracker) wrap(r io.Reader) io.Reader {
	if t == nil {
		return r
	}
	return io.TeeReader(r, t.bar)
}

func (t *progressTracker) Finish() {
	if t == nil {
		return
	}
	_ = t.bar.Finish()
}
