package app

// server.go bridges the Application to internal/server: build the HTTP
// handler via the kernel, hand it to the server that binds the port.

import "github.com/dlatelier/storefront/internal/server"

func startServer(a *Application) error {
	if err := server.Boot(); err != nil {
		return err
	}
	return server.Start(buildHandler(a))
}
