package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dlatelier/storefront/pkg/cache"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/queue"
)

var queueWorkersFlag int

// storefront queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		queue.UseDB(database.DB)

		// Workers need the shared Redis queue to see jobs pushed by the
		// web process.
		if err := cache.Connect(); err != nil {
			logger.Warn("redis unavailable, worker limited to in-process jobs", "error", err)
		} else {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
