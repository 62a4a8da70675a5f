package main

import (
	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/idgen"
	"github.com/ItIsUday/artron/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Export the download plan as JSONL",
	Long: `Export the download plan as JSONL: a header record, one record per
light curve, and one record per target with no sector in range.

By default the manifest is written to stdout. --to accepts a file path or an
s3://bucket/key URL and may be repeated.`,
	GroupID: "plan",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		targets, _ := cmd.Flags().GetStringArray("to")

		p, err := buildPlan(ctx, cfg, refresh, logger)
		if err != nil {
			return err
		}
		runID, err := idgen.NewRunID()
		if err != nil {
			return err
		}
		data, err := manifest.Marshal(manifest.Manifest{
			RunID:      runID,
			Resolution: p.Resolution,
			Jobs:       p.Jobs,
		})
		if err != nil {
			return err
		}

		dests, err := manifestDestinations(cmd, targets)
		if err != nil {
			return err
		}
		if err := manifest.Deliver(ctx, data, dests...); err != nil {
			return err
		}
		for _, d := range dests {
			logger.Info("manifest written", "destination", d.String(), "bytes", len(data), "jobs", len(p.Jobs))
		}
		return nil
	},
}

func manifestDestinations(cmd *cobra.Command, targets []string) ([]manifest.Destination, error) {
	if len(targets) == 0 {
		return []manifest.Destination{&manifest.WriterDestination{W: cmd.OutOrStdout(), Name: "stdout"}}, nil
	}
	var dests []manifest.Destination
	for _, t := range targets {
		if t == "-" {
			dests = append(dests, &manifest.WriterDestination{W: cmd.OutOrStdout(), Name: "stdout"})
			continue
		}
		if bucket, key, ok := manifest.ParseS3URL(t); ok {
			d, err := manifest.NewS3Destination(cmd.Context(), bucket, key, cfg.CacheS3Region, cfg.CacheS3Endpoint)
			if err != nil {
				return nil, err
			}
			dests = append(dests, d)
			continue
		}
		dests = append(dests, &manifest.FileDestination{Path: t})
	}
	return dests, nil
}

func init() {
	manifestCmd.Flags().StringArray("to", nil, "destination: file path, s3://bucket/key, or - for stdout")
}
