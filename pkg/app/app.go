// Package app is the storefront application runner: a small builder that
// collects routes, models and seeders, then dispatches CLI commands.
//
//	app.New().
//		Routes(routes.Register).
//		AutoMigrate(&models.User{}).
//		Run()
package app

import (
	"fmt"
	"os"

	"github.com/dlatelier/storefront/pkg/router"
)

// Application collects the project's configuration before Run dispatches a
// command.
type Application struct {
	routesFns []func(*router.Router)
	models    []interface{}
	seeders   []func()
}

func New() *Application {
	return &Application{}
}

// Routes registers a route-registration callback. May be called multiple
// times; callbacks run in order when the HTTP kernel is built.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// AutoMigrate adds GORM model pointers migrated on server start.
func (a *Application) AutoMigrate(models ...interface{}) *Application {
	a.models = append(a.models, models...)
	return a
}

// Seeders registers seeder functions run by the seed command.
func (a *Application) Seeders(fns ...func()) *Application {
	a.seeders = append(a.seeders, fns...)
	return a
}

// Serve boots the subsystems and starts the HTTP server. Exposed for CLIs
// that do their own command parsing.
func (a *Application) Serve() error {
	return startServer(a)
}

// Run reads os.Args and dispatches to the matching command. The only call a
// main() needs.
func (a *Application) Run() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "serve", "start", "run":
		err = cmdServe(a)
	case "migrate":
		err = cmdMigrate()
	case "migrate:rollback", "migrate:down":
		err = cmdMigrateRollback()
	case "migrate:status":
		err = cmdMigrateStatus()
	case "seed":
		err = cmdSeed(a.seeders)
	case "queue:work":
		err = cmdQueueWork()
	case "route:list", "routes":
		err = cmdRouteList(a)
	case "help", "--help", "-h":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %q\n\nRun with --help for usage.\n", cmd)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Print(`DL Atelier storefront

Usage:
  <program> <command>

Commands:
  serve            Start the HTTP server (aliases: start, run)
  migrate          Run all pending database migrations
  migrate:rollback Rollback the last applied migration
  migrate:status   Show migration status
  seed             Run all registered database seeders
  queue:work       Start the queue worker
  route:list       List registered API routes

`)
}
