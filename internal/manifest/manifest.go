// Package manifest streams package identifiers out of compose rpms.json
// manifests.
//
// A manifest is a productmd "rpms" document. Package identifiers are the
// keys of the object found at a dotted key path, by default
// payload.rpms.Everything.x86_64. Only those keys are kept; their values
// (the per-file details of each build) are skipped token by token so that
// large manifests are never held in memory as a whole.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/nevra"
	"github.com/ralt/composediff/internal/pkgset"
	"github.com/ralt/composediff/internal/utils"
	"github.com/sirupsen/logrus"
)

// Options controls how a manifest is loaded
type Options struct {
	// Prefix is the dotted key path of the package object
	Prefix string
	// DistroMarker overrides nevra.DefaultDistroMarker when set
	DistroMarker string
	// SkipInvalid logs and skips identifiers that fail to parse instead
	// of aborting the load
	SkipInvalid bool
	// Include and Exclude are glob patterns matched against package names
	Include []string
	Exclude []string
	// ShowProgress draws a progress bar on stderr while reading
	ShowProgress bool
}

// Manifest is the result of loading one manifest file
type Manifest struct {
	Path        string
	Packages    *pkgset.Set
	Compose     ComposeInfo
	Format      string // productmd header version
	Compression utils.Compression
	PrefixFound bool
	Skipped     int // identifiers dropped by SkipInvalid
	Filtered    int // identifiers dropped by Include/Exclude
}

func (o Options) prefixPath() []string {
	prefix := o.Prefix
	if prefix == "" {
		prefix = models.DefaultPrefix
	}
	return strings.Split(prefix, ".")
}

func (o Options) parser() nevra.Parser {
	marker := o.DistroMarker
	if marker == "" {
		marker = nevra.DefaultDistroMarker
	}
	return nevra.Parser{DistroMarker: marker}
}

// Load reads the manifest at path
func Load(ctx context.Context, path string, opts Options) (*Manifest, error) {
	var tracker *progressTracker
	if opts.ShowProgress {
		t, err := newProgressTracker(path)
		if err != nil {
			return nil, err
		}
		tracker = t
		defer tracker.Finish()
	}
	return load(ctx, path, opts, tracker)
}

func load(ctx context.Context, path string, opts Options, tracker *progressTracker) (*Manifest, error) {
	logrus.Debugf("Loading manifest %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, &models.ComposeDiffError{
			Type: models.ErrFileOp,
			File: path,
			Err:  err,
		}
	}
	defer f.Close()

	r, compression, err := utils.NewDecompressingReader(tracker.wrap(f))
	if err != nil {
		return nil, &models.ComposeDiffError{
			Type: models.ErrManifest,
			File: path,
			Err:  fmt.Errorf("failed to open %s stream: %w", compression, err),
		}
	}
	defer r.Close()

	filter, err := newNameFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, &models.ComposeDiffError{Type: models.ErrInvalidConfig, Err: err}
	}

	m := &Manifest{
		Path:        path,
		Packages:    pkgset.New(),
		Compression: compression,
	}
	parser := opts.parser()

	w := newWalker(r, opts.prefixPath())
	w.onKey = func(id string) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		pkg, err := parser.Parse(id)
		if err != nil {
			if opts.SkipInvalid {
				logrus.Warnf("Skipping %s: %v", path, err)
				m.Skipped++
				return nil
			}
			return &models.ComposeDiffError{
				Type: models.ErrPackageParse,
				File: path,
				Err:  err,
			}
		}

		if !filter.keep(pkg.Name) {
			m.Filtered++
			return nil
		}
		m.Packages.Add(pkg)
		return nil
	}
	w.onMetadata = func(key string, value interface{}) {
		switch key {
		case headerKey:
			m.Format = headerVersion(value)
		case composeKey:
			m.Compose = composeInfo(value)
		}
	}

	if err := w.run(); err != nil {
		var cdErr *models.ComposeDiffError
		if errors.As(err, &cdErr) || ctx.Err() != nil {
			return nil, err
		}
		return nil, &models.ComposeDiffError{
			Type: models.ErrManifest,
			File: path,
			Err:  err,
		}
	}
	m.PrefixFound = w.prefixFound

	if !m.PrefixFound {
		logrus.Warnf("Prefix %s not found in %s", strings.Join(w.prefix, "."), path)
	}
	checkFormat(path, m.Format)

	logrus.Infof("Loaded %d packages from %s", m.Packages.Len(), path)
	if m.Compose.ID != "" {
		logrus.Debugf("%s is compose %s", path, m.Compose.ID)
	}
	return m, nil
}
