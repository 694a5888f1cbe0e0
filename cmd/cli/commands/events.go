package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"ougadgets/cmd/cli/output"
	"ougadgets/internal/config"
	"ougadgets/internal/events"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect catalog change events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print catalog events from RabbitMQ until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadAppConfig()
		mq, err := events.NewRabbitMQ(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer mq.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		output.Info("Watching %s (Ctrl+C to stop)", cfg.RabbitMQ.Queue)
		err = mq.Consume(ctx, func(_ context.Context, ev events.Event) error {
			if jsonOutput {
				return printJSON(ev)
			}
			switch {
			case ev.PhoneID != "":
				output.Muted("%s  %-16s phone=%s", ev.At.Format("15:04:05"), ev.Type, ev.PhoneID)
			case ev.Count > 0:
				output.Muted("%s  %-16s count=%d", ev.At.Format("15:04:05"), ev.Type, ev.Count)
			default:
				output.Muted("%s  %s", ev.At.Format("15:04:05"), ev.Type)
			}
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsWatchCmd)
}
