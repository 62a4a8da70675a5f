package main

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/idgen"
	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/store/postgres"
)

var runsCmd = &cobra.Command{
	Use:     "runs [run-id]",
	Short:   "List recent runs, or the downloads of one run",
	GroupID: "system",
	Args:    runsArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("runs needs the run ledger: set ARTRON_DATABASE_URL or database_url")
		}

		s, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer s.Close()

		out := cmd.OutOrStdout()
		if len(args) == 0 {
			runs, err := s.ListRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			return printRuns(out, runs, jsonOutput)
		}

		run, err := s.GetRun(ctx, args[0])
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		downloads, err := s.ListDownloads(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("list downloads: %w", err)
		}
		if jsonOutput {
			return printJSON(out, map[string]any{"run": run, "downloads": downloads})
		}
		if err := printRuns(out, []*model.Run{run}, false); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return printDownloads(out, downloads, false)
	},
}

// runsArgs rejects a malformed run id before the ledger is opened.
func runsArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
		return err
	}
	if len(args) == 1 && !idgen.IsRunID(args[0]) {
		return fmt.Errorf("invalid run id %q (expected %s followed by %d characters)", args[0], idgen.RunPrefix, idgen.Length)
	}
	return nil
}

func init() {
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
}
