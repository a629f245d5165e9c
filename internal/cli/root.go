package cli

import (
	"github.com/ralt/composediff/internal/config"
	"github.com/ralt/composediff/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "composediff",
		Short: "Compare the package sets of two Fedora composes",
		Long: `Composediff reads the rpms.json manifests of two composes and reports
the packages that were removed, added or changed between them.

A package is changed when the same name appears in both composes with a
different epoch, version, release or distro tag.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}

			return applyConfigFile(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "YAML file with flag defaults")

	// Add subcommands
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewComposesCmd())

	return rootCmd
}

func applyConfigFile(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return nil
	}

	file, err := config.Load(path)
	if err != nil {
		return &models.ComposeDiffError{
			Type: models.ErrInvalidConfig,
			File: path,
			Err:  err,
		}
	}
	logrus.Debugf("Using config file %s", path)

	if err := file.Apply(cmd.Flags()); err != nil {
		return &models.ComposeDiffError{
			Type: models.ErrInvalidConfig,
			File: path,
			Err:  err,
		}
	}
	return nil
}
