package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/l1jgo/combatstats/internal/app"
	"github.com/l1jgo/combatstats/internal/capture"
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture-file>",
	Short: "Replay a combat capture into the statistics store",
	Long: `Replay feeds every record of a zstd capture through world state and the
combat engine, then waits for all statistics writes to finish.

Examples:
  statsctl replay session.cap
  statsctl replay -c prod.toml session.cap`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := capture.NewReader(f)
	if err != nil {
		return err
	}
	defer r.Close()

	a, err := app.New(cmd.Context(), cfg, log, app.Options{})
	if err != nil {
		return err
	}

	start := time.Now()
	st, replayErr := a.Replay(cmd.Context(), r)
	if err := a.Close(); err != nil && replayErr == nil {
		replayErr = err
	}
	if replayErr != nil {
		return fmt.Errorf("replay %s: %w", args[0], replayErr)
	}

	log.Info("replay finished",
		zap.String("file", args[0]),
		zap.Int("records", st.Records),
		zap.Int("packets", st.Packets),
		zap.Int("handled", st.Handled),
		zap.Int("skipped", st.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%d records, %d packets (%d handled, %d skipped)\n",
		st.Records, st.Packets, st.Handled, st.Skipped)
	return nil
}

func init() {
	rootCmd.AddCommand(replayCmd)
}
