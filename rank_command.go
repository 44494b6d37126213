package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jcheval/faceoff/internal/library"
	"github.com/jcheval/faceoff/internal/ranking"
)

func newRankCommand(ctx *commandContext) *cobra.Command {
	var algo string
	var limit int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Recompute a full ranking from comparison history",
		Long: `Recompute a full ranking from comparison history.

Available algorithms:
  elo      iterated batch Elo (default)
  asm      leave-one-out adjusted score heuristic
  bestfit  grid search over decayed pair scores
  bt       Bradley-Terry maximum likelihood`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rankCfg := cfg.GetRankingConfig()
			if algo == "" {
				algo = rankCfg.Algorithm
			}

			var estimator ranking.Estimator
			switch algo {
			case "elo":
				estimator = &ranking.Elo{MaxIterations: rankCfg.MaxIterations}
			case "asm":
				estimator = &ranking.ASM{}
			case "bestfit":
				estimator = &ranking.BestFit{MaxSweeps: rankCfg.MaxIterations}
			case "bt":
				estimator = &ranking.BradleyTerry{Alpha: rankCfg.Regularization}
			default:
				return fmt.Errorf("unknown algorithm %q", algo)
			}

			return ctx.withLibrary(func(lib *library.Library) error {
				ids, err := lib.TrackIDs()
				if err != nil {
					return err
				}
				log, err := lib.ComparisonLog()
				if err != nil {
					return err
				}

				history := make([]ranking.Comparison, len(log))
				for i, c := range log {
					history[i] = ranking.Comparison{
						First:  c.FirstTrackID,
						Second: c.SecondTrackID,
						Score:  c.Score,
					}
				}

				standings, err := estimator.Rank(cmd.Context(), ids, history)
				if err != nil {
					return err
				}
				if limit > 0 && len(standings) > limit {
					standings = standings[:limit]
				}

				rows := make([][]string, 0, len(standings))
				for i, s := range standings {
					track, err := lib.TrackByID(s.TrackID)
					if err != nil {
						return err
					}
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						strconv.FormatInt(s.TrackID, 10),
						fmt.Sprintf("%.3f", s.Score),
						track.Description(),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "ID", "Score", "Track"}, rows, 1, 2, 3))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&algo, "algo", "a", "", "Ranking algorithm (elo, asm, bestfit, bt)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the top N tracks")

	return cmd
}
