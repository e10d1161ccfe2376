package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/pipeline"
)

var (
	runQuery   string
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <entity>",
	Short: "Resolve a single entity and print its profile as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := contextWithTimeout(cmd.Context(), runTimeout)
		defer cancel()

		st, err := initStages()
		if err != nil {
			return err
		}

		orch := pipeline.New(st.Search, st.Extractor, st.Verifier, pipeline.Config{
			MaxResults: cfg.Search.MaxResults,
		})

		rows, err := orch.Run(ctx, []string{args[0]}, runQuery)
		if err != nil {
			return eris.Wrap(err, "resolve entity")
		}

		row := rows[0]
		if row.Error != "" {
			return eris.Errorf("resolve entity: %s", row.Error)
		}

		zap.L().Info("entity resolved",
			zap.String("entity", row.Entity),
			zap.Int("scored_fields", len(row.Profile.ConfidenceScores)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(row.Profile)
	},
}

func init() {
	runCmd.Flags().StringVar(&runQuery, "query", "", "search query template, {entity} is replaced with the entity name")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall deadline for the run")
	rootCmd.AddCommand(runCmd)
}
