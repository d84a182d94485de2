package cli

import (
	"time"

	"github.com/spf13/cobra"

	apperrors "dividend-hunter/internal/errors"
)

func newRefreshCmd(app *App) *cobra.Command {
	var background bool

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch fresh data for the whole universe",
		Long: `Fetches dividend data for every ticker in the universe in rate-limited
batches, then atomically replaces the cached snapshot. A full run over the
S&P 500 takes a few minutes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if background {
				if err := app.Service.TriggerRefresh(cmd.Context()); err != nil {
					if apperrors.Is(err, apperrors.ErrRefreshInProgress) {
						output.Warning("A refresh is already running.")
						return nil
					}
					return err
				}
				if output.IsJSON() {
					return output.JSON(map[string]string{"status": "started"})
				}
				output.Success("Refresh started in the background.")
				return nil
			}

			output.Info("Refreshing dividend data, this takes a few minutes...")
			started := time.Now()
			if err := app.Service.Refresh(cmd.Context()); err != nil {
				if apperrors.Is(err, apperrors.ErrRefreshInProgress) {
					output.Warning("A refresh is already running.")
					return nil
				}
				return err
			}

			status := app.Service.CacheStatus()
			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"status":   string(status),
					"duration": time.Since(started).String(),
				})
			}
			output.Success("✓ Refresh complete in %s", time.Since(started).Round(time.Second))
			return nil
		},
	}

	cmd.Flags().BoolVar(&background, "background", false, "start the refresh and return immediately")

	return cmd
}
