package cli

import (
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jhoicas/asseta-api/internal/infrastructure/events"
	"github.com/jhoicas/asseta-api/pkg/mq"
)

func (a *cliApp) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Domain events published over RabbitMQ",
	}
	var keys []string
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Print domain events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.AMQPURL == "" {
				return errors.New("ASSETA_AMQP_URL is not set")
			}
			ctx, stop := signal.NotifyContext(a.ctx(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			consumer, err := mq.NewConsumer(a.cfg.AMQPURL, a.cfg.Exchange, "", keys)
			if err != nil {
				return err
			}
			defer consumer.Close()

			deliveries, err := consumer.Deliveries(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for {
				select {
				case <-ctx.Done():
					return nil
				case d, ok := <-deliveries:
					if !ok {
						return nil
					}
					if a.jsonOut {
						printf(w, "%s\n", d.Body)
						continue
					}
					var env events.Envelope
					if err := json.Unmarshal(d.Body, &env); err != nil {
						printf(w, "%s\t(invalid payload)\n", d.RoutingKey)
						continue
					}
					printf(w, "%s\t%s\t%s\n", env.OccurredAt.Local().Format("15:04:05"), env.Event, env.Source)
				}
			}
		},
	}
	tail.Flags().StringSliceVar(&keys, "keys", []string{"#"}, "routing keys to bind")
	cmd.AddCommand(tail)
	return cmd
}
