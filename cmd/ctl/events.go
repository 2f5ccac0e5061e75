package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"subtracker-be/pkg/events"
	pktNats "subtracker-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var eventsDurable string

var eventsCmd = &cobra.Command{
	Use:   "events [filter]",
	Short: "Tail domain events from NATS",
	Long: `Print domain events published to the NATS stream until interrupted.
The optional filter is an event type pattern, e.g. "subscription.>" or
"catalog.price_updated". It defaults to every event.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ">"
		if len(args) == 1 {
			filter = args[0]
		}

		sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		color.Cyan("Listening on %s%s (Ctrl+C to stop)", pktNats.SubjectPrefix, filter)
		return sub.Subscribe(ctx, filter, eventsDurable, printEvent)
	},
}

func printEvent(ctx context.Context, event events.Event) error {
	data, err := json.MarshalIndent(event.Payload(), "", "  ")
	if err != nil {
		return err
	}
	color.New(color.FgYellow, color.Bold).Printf("%s ", event.Timestamp().Format("2006-01-02 15:04:05"))
	color.New(color.FgGreen).Println(event.EventType())
	fmt.Println(string(data))
	return nil
}

func init() {
	eventsCmd.Flags().StringVar(&eventsDurable, "durable", "", "durable consumer name, resumes where it left off")
}
