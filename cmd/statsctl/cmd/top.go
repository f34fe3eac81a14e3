package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/l1jgo/combatstats/internal/app"
	"github.com/l1jgo/combatstats/internal/combat"
)

var topLimit int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Print the high-score table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := app.OpenStore(cmd.Context(), cfg.Store, app.ScoringFromConfig(cfg.Scoring))
		if err != nil {
			return err
		}
		defer store.Close()

		scores, err := store.TopHighScores(cmd.Context(), topLimit)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tACCOUNT\tSCORE")
		for i, s := range scores {
			fmt.Fprintf(tw, "%d\t%d\t%d\n", i+1, s.AccountID, s.Score)
		}
		return tw.Flush()
	},
}

var playerCmd = &cobra.Command{
	Use:   "player <account-id>",
	Short: "Print the stored statistics of one account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("account id %q: %w", args[0], err)
		}
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer log.Sync()

		store, err := app.OpenStore(cmd.Context(), cfg.Store, app.ScoringFromConfig(cfg.Scoring))
		if err != nil {
			return err
		}
		defer store.Close()

		ps, err := store.PlayerStats(cmd.Context(), int32(id))
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "account\t%d\n", ps.AccountID)
		fmt.Fprintf(tw, "kills\tmob %d  boss %d  player %d\n", ps.MobKills, ps.BossKills, ps.PlayerKills)
		fmt.Fprintf(tw, "deaths\t%d\n", ps.Deaths)
		fmt.Fprintf(tw, "spree\topen %d/%d/%d  best %d\n", ps.OpenSpree[0], ps.OpenSpree[1], ps.OpenSpree[2], ps.BestSpree)
		for _, c := range combat.DamageCategories {
			fmt.Fprintf(tw, "damage %s\t%d\n", c, ps.Damage[c])
		}
		return tw.Flush()
	},
}

func init() {
	topCmd.Flags().IntVarP(&topLimit, "limit", "n", 10, "number of rows")
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(playerCmd)
}
