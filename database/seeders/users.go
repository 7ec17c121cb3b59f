package seeders

import (
	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/auth"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/logger"
)

func init() {
	register("users", seedUsers)
}

// seedUsers creates the admin account and one demo customer with an address
// book. Skipped when the emails already exist.
func seedUsers() {
	hash, err := auth.HashPassword("password")
	if err != nil {
		logger.Error("seed: hash password", "error", err)
		return
	}

	users := []models.User{
		{
			Name: "Atelier Admin", Email: "admin@dlatelier.com",
			Password: hash, Role: models.RoleAdmin,
		},
		{
			Name: "Demo Customer", Email: "demo@dlatelier.com",
			Password: hash, Role: models.RoleUser,
			BarryEntitlements: 2,
			Addresses: []models.Address{
				{Street: "12 Linden Street", City: "Mumbai", State: "MH",
					PostalCode: "400001", Country: "IN", Phone: "+91 98000 00000",
					IsDefault: true},
			},
		},
	}

	for _, u := range users {
		var existing models.User
		if err := database.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&u).Error; err != nil {
			logger.Error("seed: user", "email", u.Email, "error", err)
		}
	}
}
