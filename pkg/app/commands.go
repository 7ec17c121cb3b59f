package app

// commands.go implements the CLI sub-commands dispatched by Application.Run.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/migration"
	"github.com/dlatelier/storefront/pkg/queue"
	"github.com/dlatelier/storefront/pkg/router"
)

func cmdServe(a *Application) error {
	return startServer(a)
}

func cmdMigrate() error {
	if err := bootDB(); err != nil {
		return err
	}
	fmt.Println("Running migrations…")
	return migration.NewRunner(database.DB).Run()
}

func cmdMigrateRollback() error {
	if err := bootDB(); err != nil {
		return err
	}
	fmt.Println("Rolling back last migration…")
	return migration.NewRunner(database.DB).Rollback()
}

func cmdMigrateStatus() error {
	if err := bootDB(); err != nil {
		return err
	}
	return migration.NewRunner(database.DB).Status()
}

func cmdSeed(seeders []func()) error {
	if err := bootDB(); err != nil {
		return err
	}
	if len(seeders) == 0 {
		fmt.Println("No seeders registered. Use .Seeders() on the Application.")
		return nil
	}
	for _, fn := range seeders {
		fn()
	}
	fmt.Printf("Seeding complete (%d seeders ran)\n", len(seeders))
	return nil
}

func cmdQueueWork() error {
	if err := bootDB(); err != nil {
		return err
	}
	queue.UseDB(database.DB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Queue worker started. Press Ctrl+C to stop.")
	queue.StartWorkers(ctx, 5)

	<-ctx.Done()
	fmt.Println("\nQueue worker stopped.")
	return nil
}

func cmdRouteList(a *Application) error {
	if err := config.Load(); err != nil {
		return err
	}

	r := router.New()
	for _, fn := range a.routesFns {
		fn(r)
	}

	infos := r.Routes()
	if len(infos) == 0 {
		fmt.Println("No routes registered.")
		return nil
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Path != infos[j].Path {
			return infos[i].Path < infos[j].Path
		}
		return infos[i].Method < infos[j].Method
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}
