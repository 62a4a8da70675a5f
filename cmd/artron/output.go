package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ItIsUday/artron/internal/fetch"
	"github.com/ItIsUday/artron/internal/model"
	"github.com/ItIsUday/artron/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func joinEpochs(epochs []int) string {
	parts := make([]string, len(epochs))
	for i, e := range epochs {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, ",")
}

func printResolution(w io.Writer, r *model.Resolution, asJSON bool) error {
	if asJSON {
		return printJSON(w, r)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSECTORS")
	for _, t := range r.Targets {
		fmt.Fprintf(tw, "%s\t%s\n", t.TargetID, joinEpochs(t.Epochs))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d targets, %d light curves", r.Len(), r.PairCount())
	if len(r.Dropped) > 0 {
		fmt.Fprintf(w, " (%d targets with no sectors in range)", len(r.Dropped))
	}
	fmt.Fprintln(w)
	return nil
}

func printPlan(w io.Writer, p *plan, asJSON bool) error {
	if asJSON {
		return printJSON(w, p.Jobs)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSECTOR\tFILE")
	for _, j := range p.Jobs {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", j.TargetID, j.Epoch, j.FileName)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d light curves for %d targets (dry run)\n", len(p.Jobs), p.Resolution.Len())
	return nil
}

func printSummary(w io.Writer, s *fetch.Summary, asJSON bool) error {
	if asJSON {
		return printJSON(w, s)
	}
	status := ui.RenderSuccess(s.Status)
	if s.Failed > 0 || s.Status != string(model.RunStatusComplete) {
		status = ui.RenderFailure(s.Status)
	}
	fmt.Fprintf(w, "%s %s: %d of %d light curves downloaded in %s\n",
		ui.RenderAccent(s.RunID), status, s.Succeeded, s.Planned, s.Duration.Round(time.Millisecond))
	for _, f := range s.Failures() {
		fmt.Fprintf(w, "  %s TIC %s s%04d: %s\n", ui.RenderFailure("failed"), f.TargetID, f.Epoch, f.Error)
	}
	return nil
}

func printRuns(w io.Writer, runs []*model.Run, asJSON bool) error {
	if asJSON {
		return printJSON(w, runs)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSTARTED\tPLANNED\tOK\tFAILED\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID,
			r.Status,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Planned,
			r.Succeeded,
			r.Failed,
			r.OutputDir,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

func printDownloads(w io.Writer, downloads []*model.Download, asJSON bool) error {
	if asJSON {
		return printJSON(w, downloads)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSECTOR\tSTATUS\tBYTES\tDETAIL")
	for _, d := range downloads {
		detail := d.Path
		if d.Status == model.DownloadStatusFailed {
			detail = d.Error
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", d.TargetID, d.Epoch, d.Status, d.Bytes, detail)
	}
	tw.Flush()
	return nil
}
