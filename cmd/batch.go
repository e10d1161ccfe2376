package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/export"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/fetcher"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/pipeline"
)

var (
	batchOut        string
	batchColumn     string
	batchSheet      string
	batchQuery      string
	batchSize       int
	batchMaxResults int
	batchLimit      int
	batchTimeout    time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <input-file>",
	Short: "Resolve every entity in a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0])
	},
}

func runBatch(cmd *cobra.Command, input string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := contextWithTimeout(ctx, batchTimeout)
	defer cancel()

	st, err := initStages()
	if err != nil {
		return err
	}

	entities, err := fetcher.ReadEntities(input, fetcher.Options{
		Column: batchColumn,
		Sheet:  batchSheet,
		Limit:  batchLimit,
	})
	if err != nil {
		return eris.Wrap(err, "read entities")
	}
	zap.L().Info("batch input loaded",
		zap.String("file", input),
		zap.Int("entities", len(entities)),
	)

	size := batchSize
	if size <= 0 {
		size = cfg.Batch.Size
	}
	maxResults := batchMaxResults
	if maxResults <= 0 {
		maxResults = cfg.Search.MaxResults
	}

	orch := pipeline.New(st.Search, st.Extractor, st.Verifier, pipeline.Config{
		BatchSize:       size,
		MaxResults:      maxResults,
		InterBatchPause: time.Duration(cfg.Batch.InterBatchPauseMS) * time.Millisecond,
		FailurePause:    time.Duration(cfg.Batch.FailurePauseMS) * time.Millisecond,
		Progress: func(processed, total int) {
			fmt.Fprintf(os.Stderr, "\rprocessed %d/%d", processed, total)
			if processed == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})

	rows, runErr := orch.Run(ctx, entities, batchQuery)

	out := batchOut
	if out == "" {
		out = defaultOutPath(input)
	}
	if len(rows) > 0 {
		if err := export.WriteRows(out, rows); err != nil {
			return err
		}
		zap.L().Info("batch output written",
			zap.String("file", out),
			zap.Int("rows", len(rows)),
		)
	}

	if runErr != nil {
		return eris.Wrap(runErr, "batch run")
	}

	failed := 0
	for _, row := range rows {
		if row.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		zap.L().Warn("batch finished with failed entities",
			zap.Int("failed", failed),
			zap.Int("total", len(rows)),
		)
	}
	return nil
}

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output file, .csv or .xlsx (default: <input>_results.csv)")
	batchCmd.Flags().StringVar(&batchColumn, "column", "", "header name of the entity column (default: first column)")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	batchCmd.Flags().StringVar(&batchQuery, "query", "", "search query template, {entity} is replaced with the entity name")
	batchCmd.Flags().IntVar(&batchSize, "batch-size", 0, "entities processed concurrently per batch (default from config)")
	batchCmd.Flags().IntVar(&batchMaxResults, "max-results", 0, "search results per entity (default from config)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max entities to process, 0 = all")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 0, "overall deadline for the run, 0 = none")
	rootCmd.AddCommand(batchCmd)
}

// contextWithTimeout wraps ctx with a deadline when one is configured.
func contextWithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// defaultOutPath derives the output file name from the input file.
func defaultOutPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_results.csv"
}
