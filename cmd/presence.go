package cmd

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jovitools/portal/internal/presence"
	"github.com/jovitools/portal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	presenceUserID string
	presenceEmail  string
	presenceName   string
	presenceWatch  bool
)

// presenceCmd announces a synthetic session on the presence channel until
// interrupted, or with --watch runs a standalone monitor printing the live
// view. Useful for exercising the admin presence view without a second
// browser.
var presenceCmd = &cobra.Command{
	Use:   "presence",
	Short: "Announce a presence session or watch the channel",
	Long:  `Join the presence channel as the given user and keep the session alive until interrupted, or watch the channel and print who is online.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Observability.Env)

		client, err := initRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("failed to init redis: %v", err)
		}
		defer client.Close()

		if presenceWatch {
			return watchPresence(client, cfg.Redis.PresenceChannel)
		}

		if presenceUserID == "" {
			presenceUserID = uuid.NewString()
		}

		record := presence.Record{
			UserID:    presenceUserID,
			UserEmail: presenceEmail,
			UserName:  presenceName,
			OnlineAt:  time.Now().UTC(),
		}

		tracker := presence.NewTracker(client, cfg.Redis.PresenceChannel, record, logger.L())

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return tracker.Run(ctx)
	},
}

func watchPresence(client *redis.Client, channel string) error {
	agg := presence.NewAggregator()
	subscriber := presence.NewSubscriber(client, channel, agg, logger.L())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				records := agg.Snapshot()
				fmt.Printf("online: %d\n", len(records))
				for _, r := range records {
					fmt.Printf("  %s (%s) since %s\n", r.UserName, r.UserEmail, r.OnlineAt.Format(time.RFC3339))
				}
			}
		}
	}()

	return subscriber.Run(ctx)
}

func init() {
	presenceCmd.Flags().StringVar(&presenceUserID, "user-id", "", "user id to announce (random when omitted)")
	presenceCmd.Flags().StringVar(&presenceEmail, "email", "ops@portal.dev", "email to announce")
	presenceCmd.Flags().StringVar(&presenceName, "name", "Ops Session", "display name to announce")
	presenceCmd.Flags().BoolVar(&presenceWatch, "watch", false, "watch the channel instead of announcing")
}
