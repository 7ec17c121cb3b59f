package main

import (
	"github.com/dlatelier/storefront/app/jobs"
	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/app/routes"
	"github.com/dlatelier/storefront/database/seeders"
	"github.com/dlatelier/storefront/pkg/app"
	"github.com/dlatelier/storefront/pkg/queue"

	// Migrations register themselves from init().
	_ "github.com/dlatelier/storefront/database/migrations"
)

func main() {
	jobs.RegisterAll()

	app.New().
		Routes(routes.Register).
		AutoMigrate(
			&models.User{},
			&models.Address{},
			&models.Product{},
			&models.Cart{},
			&models.CartItem{},
			&models.Order{},
			&models.OrderItem{},
			&queue.FailedJobRecord{},
		).
		Seeders(seeders.All()...).
		Run()
}
