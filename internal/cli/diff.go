package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ralt/composediff/internal/manifest"
	"github.com/ralt/composediff/internal/models"
	"github.com/ralt/composediff/internal/reconcile"
	"github.com/ralt/composediff/internal/render"
	"github.com/ralt/composediff/internal/signer"
	"github.com/ralt/composediff/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewDiffCmd creates the diff command
func NewDiffCmd() *cobra.Command {
	var config models.DiffConfig

	cmd := &cobra.Command{
		Use:   "diff [flags] OLD_RPMS_JSON NEW_RPMS_JSON",
		Short: "Compare two compose manifests",
		Long: `Parses the package identifiers of two rpms.json compose manifests
and lists the packages removed, added and changed between them.

Manifests may be plain JSON or compressed with gzip, zstd or xz.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.OldPath = args[0]
			config.NewPath = args[1]

			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Debugf("Configuration: %+v", config)

			return runDiff(cmd.Context(), cmd.OutOrStdout(), &config)
		},
	}

	// Input flags
	cmd.Flags().StringVarP(&config.Prefix, "prefix", "p", models.DefaultPrefix,
		"The prefix used to specify the JSON object to parse from the files")
	cmd.Flags().StringVar(&config.DistroMarker, "distro-marker", "",
		"Substring marking identifiers that carry a distro tag (default \".fc\")")

	// Filtering flags
	cmd.Flags().StringSliceVar(&config.Include, "include", nil, "Only compare packages whose name matches these globs")
	cmd.Flags().StringSliceVar(&config.Exclude, "exclude", nil, "Ignore packages whose name matches these globs")
	cmd.Flags().BoolVar(&config.SkipInvalid, "skip-invalid", false, "Skip identifiers that cannot be parsed instead of failing")

	// Output flags
	cmd.Flags().StringVar(&config.Format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&config.OutputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&config.Summary, "summary", false, "Only print the number of packages in each group")
	cmd.Flags().BoolVar(&config.NoColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&config.Pretty, "pretty", true, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&config.Progress, "progress", false, "Show a progress bar while reading manifests")

	// Verification flags
	cmd.Flags().StringVar(&config.KeyringPath, "keyring", "", "OpenPGP keyring used to verify manifest signatures")
	cmd.Flags().StringVar(&config.SignatureSuffix, "signature-suffix", ".asc", "Suffix of the detached signature next to each manifest")

	return cmd
}

func validateConfig(config *models.DiffConfig) error {
	config.Format = strings.ToLower(config.Format)
	if config.Format != "text" && config.Format != "json" {
		return &models.ComposeDiffError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("invalid --format %q (expected text|json)", config.Format),
		}
	}

	if strings.TrimSpace(config.Prefix) == "" {
		return &models.ComposeDiffError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("prefix is required"),
		}
	}

	if config.KeyringPath != "" && config.SignatureSuffix == "" {
		return &models.ComposeDiffError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("signature-suffix is required with --keyring"),
		}
	}

	return nil
}

func runDiff(ctx context.Context, stdout io.Writer, config *models.DiffConfig) error {
	// Step 1: Verify signatures
	if config.KeyringPath != "" {
		if err := verifyManifests(config); err != nil {
			return err
		}
	}

	// Step 2: Load both manifests
	logrus.Infof("Comparing %s and %s", config.OldPath, config.NewPath)
	oldManifest, newManifest, err := manifest.LoadPair(ctx, config.OldPath, config.NewPath, manifest.Options{
		Prefix:       config.Prefix,
		DistroMarker: config.DistroMarker,
		SkipInvalid:  config.SkipInvalid,
		Include:      config.Include,
		Exclude:      config.Exclude,
		ShowProgress: config.Progress,
	})
	if err != nil {
		return err
	}

	warnDuplicates(oldManifest)
	warnDuplicates(newManifest)

	// Step 3: Reconcile
	result := reconcile.Reconcile(oldManifest.Packages, newManifest.Packages)
	logrus.Debugf("%d removed, %d added, %d changed",
		result.Removed.Len(), result.Added.Len(), len(result.Changed))

	// Step 4: Render
	out := stdout
	var buf bytes.Buffer
	if config.OutputPath != "" {
		out = &buf
	}

	switch config.Format {
	case "json":
		report := render.NewReport(result, describe(oldManifest), describe(newManifest), config.Summary)
		err = render.JSON(out, report, config.Pretty)
	default:
		err = render.Text(out, result, render.TextOptions{
			Color:   config.OutputPath == "" && render.ColorEnabled(stdout, config.NoColor),
			Summary: config.Summary,
		})
	}
	if err != nil {
		return err
	}

	if config.OutputPath != "" {
		if err := utils.WriteFile(config.OutputPath, buf.Bytes(), 0644); err != nil {
			return &models.ComposeDiffError{
				Type: models.ErrFileOp,
				File: config.OutputPath,
				Err:  err,
			}
		}
		logrus.Infof("Report written to %s", config.OutputPath)
	}

	return nil
}

func verifyManifests(config *models.DiffConfig) error {
	verifier, err := signer.NewGPGVerifier(config.KeyringPath)
	if err != nil {
		return &models.ComposeDiffError{
			Type: models.ErrSignature,
			File: config.KeyringPath,
			Err:  fmt.Errorf("failed to initialize verifier: %w", err),
		}
	}

	for _, path := range []string{config.OldPath, config.NewPath} {
		if err := verifier.VerifyFile(path, path+config.SignatureSuffix); err != nil {
			return &models.ComposeDiffError{
				Type: models.ErrSignature,
				File: path,
				Err:  err,
			}
		}
	}
	logrus.Info("Manifest signatures verified")
	return nil
}

// warnDuplicates reports names that only take part in alignment through
// their last identifier
func warnDuplicates(m *manifest.Manifest) {
	for name, ids := range reconcile.DuplicateNames(m.Packages) {
		logrus.Warnf("%s lists %d builds of %s, comparing only %s",
			m.Path, len(ids), name, ids[len(ids)-1])
	}
}

func describe(m *manifest.Manifest) render.Source {
	src := render.Source{
		Path:      m.Path,
		ComposeID: m.Compose.ID,
		Date:      m.Compose.Date,
		Packages:  m.Packages.Len(),
	}
	if sum, err := utils.CalculateChecksum(m.Path); err == nil {
		src.SHA256 = sum.SHA256
	} else {
		logrus.Warnf("Failed to checksum %s: %v", m.Path, err)
	}
	return src
}
