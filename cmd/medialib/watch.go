package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/events"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream library events from NATS",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats")
		if natsURL == "" {
			return fmt.Errorf("no NATS URL; set --nats, MEDIALIB_NATS_URL, or a remote with --nats")
		}
		topic, _ := cmd.Flags().GetString("topic")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
		sub, err := events.NewNATSSubscriber(natsURL,
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

		return watchEvents(ctx, sub, topic, cmd.OutOrStdout())
	},
}

// watchEvents prints each event on topic until ctx is done.
func watchEvents(ctx context.Context, sub events.Subscriber, topic string, out io.Writer) error {
	ch, cancel, err := sub.Subscribe(topic)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			ev, err := events.Decode(msg.Topic, msg.Data)
			if err != nil {
				fmt.Fprintf(out, "%s %s\n", ui.RenderMuted(time.Now().Format(time.TimeOnly)), ui.RenderExclude(err.Error()))
				continue
			}
			if jsonOutput {
				if err := printJSON(out, map[string]any{"topic": msg.Topic, "event": ev}); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "%s %s %s\n",
				ui.RenderMuted(time.Now().Format(time.TimeOnly)),
				ui.RenderAccent(strings.TrimPrefix(msg.Topic, "medialib.")),
				describeEvent(ev))
		}
	}
}

// describeEvent renders a decoded event as a short line.
func describeEvent(ev any) string {
	switch e := ev.(type) {
	case *events.MediaCreated:
		if e.Media == nil {
			return ""
		}
		return fmt.Sprintf("%s %s (%s)", e.Media.ID, e.Media.RelativePath, e.Media.Type)
	case *events.MediaDeleted:
		return e.MediaID
	case *events.MediaTagged:
		return e.MediaID + " +" + e.TagID
	case *events.PostCreated:
		if e.Post == nil {
			return ""
		}
		return fmt.Sprintf("%s on %s (%s, %d media)", e.Post.ID, e.Post.ChannelID, e.Post.Status, len(e.Post.MediaIDs))
	case *events.PresetSaved:
		if e.Preset == nil {
			return ""
		}
		return fmt.Sprintf("%s %q: %s", e.Preset.ID, e.Preset.Name, ui.RenderSummary(e.Summary))
	case *events.PresetDeleted:
		return e.PresetID
	}
	return fmt.Sprintf("%v", ev)
}

func defaultNATSURL() string {
	if s := os.Getenv("MEDIALIB_NATS_URL"); s != "" {
		return s
	}
	return currentRemote().NATSURL
}

func init() {
	watchCmd.Flags().String("nats", defaultNATSURL(), "NATS server URL")
	watchCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to")
}
