package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ralt/composediff/internal/compose"
	"github.com/ralt/composediff/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewComposesCmd creates the composes command
func NewComposesCmd() *cobra.Command {
	var config models.ListingConfig

	cmd := &cobra.Command{
		Use:   "composes",
		Short: "List recent Rawhide composes",
		Long: `Reads the Rawhide compose listing and prints the composes of the last
days together with the location of their rpms.json manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.DaysAgo < 0 {
				return &models.ComposeDiffError{
					Type: models.ErrInvalidConfig,
					Err:  fmt.Errorf("--days must not be negative"),
				}
			}
			return runComposes(cmd.Context(), cmd.OutOrStdout(), compose.NewClient(config.URL), config.DaysAgo)
		},
	}

	cmd.Flags().IntVarP(&config.DaysAgo, "days", "d", compose.DefaultDaysAgo, "List composes of the last N days")
	cmd.Flags().StringVar(&config.URL, "url", compose.DefaultURL, "Compose listing URL")

	return cmd
}

func runComposes(ctx context.Context, out io.Writer, client *compose.Client, daysAgo int) error {
	dirs, err := client.Recent(ctx, daysAgo)
	if err != nil {
		return &models.ComposeDiffError{
			Type: models.ErrListing,
			Err:  err,
		}
	}

	if len(dirs) == 0 {
		logrus.Warnf("No composes found in the last %d days", daysAgo)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, dir := range dirs {
		fmt.Fprintf(w, "%s\t%s\n", dir, dir.ManifestURL(client.URL))
	}
	return w.Flush()
}
