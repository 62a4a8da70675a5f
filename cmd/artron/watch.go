package main

import (
	"fmt"
	"io"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/events"
	"github.com/ItIsUday/artron/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow pipeline progress from the event bus",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic, _ := cmd.Flags().GetString("topic")
		if cfg.NATSURL == "" {
			return fmt.Errorf("watch needs an event bus: set ARTRON_NATS_URL or nats_url")
		}

		sub, err := events.NewNATSSubscriber(cfg.NATSURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats reconnected")
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, err := sub.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		logger.Info("watching", "topic", topic)

		out := cmd.OutOrStdout()
		for msg := range ch {
			printEvent(out, msg, jsonOutput)
		}
		return nil
	},
}

// printEvent writes one event line. Unknown topics and undecodable payloads
// are printed raw rather than dropped.
func printEvent(w io.Writer, msg events.Message, asJSON bool) {
	if asJSON {
		fmt.Fprintf(w, "{\"topic\":%q,\"data\":%s}\n", msg.Topic, msg.Data)
		return
	}
	fmt.Fprintln(w, formatEvent(msg))
}

func formatEvent(msg events.Message) string {
	decoded, err := events.Decode(msg)
	if err != nil {
		return fmt.Sprintf("%s %s", ui.RenderMuted(msg.Topic), msg.Data)
	}
	switch e := decoded.(type) {
	case events.RunStarted:
		return fmt.Sprintf("%s started: %d light curves for %d targets into %s",
			ui.RenderAccent(e.RunID), e.Planned, e.Targets, e.OutputDir)
	case events.DownloadSucceeded:
		return fmt.Sprintf("%s %s TIC %s s%04d  %s",
			ui.RenderMuted(e.RunID), ui.RenderSuccess("ok  "), e.TargetID, e.Epoch, ui.FormatBytes(e.Bytes))
	case events.DownloadFailed:
		return fmt.Sprintf("%s %s TIC %s s%04d  %s",
			ui.RenderMuted(e.RunID), ui.RenderFailure("FAIL"), e.TargetID, e.Epoch, e.Error)
	case events.RunFinished:
		status := ui.RenderSuccess(e.Status)
		if e.Failed > 0 {
			status = ui.RenderFailure(e.Status)
		}
		return fmt.Sprintf("%s %s: %d ok, %d failed in %s",
			ui.RenderAccent(e.RunID), status, e.Succeeded, e.Failed, e.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s %s", ui.RenderMuted(msg.Topic), msg.Data)
}

func init() {
	watchCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to (NATS wildcards allowed)")
}
