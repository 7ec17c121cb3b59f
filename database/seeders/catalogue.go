package seeders

import (
	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/logger"
)

func init() {
	register("catalogue", seedCatalogue)
}

// seedCatalogue inserts a small demo catalogue covering every tag the
// storefront's logic branches on. Idempotent per slug.
func seedCatalogue() {
	products := []models.Product{
		{
			Slug: "silk-evening-scarf", Name: "Silk Evening Scarf",
			Description: "Hand-rolled silk twill scarf.",
			Price:       149.00, Image: "silk-evening-scarf.jpg", Stock: 40,
		},
		{
			Slug: "atelier-leather-belt", Name: "Atelier Leather Belt",
			Description: "Vegetable-tanned leather, brass buckle.",
			Price:       89.00, Image: "atelier-leather-belt.jpg", Stock: 60,
		},
		{
			Slug: "prive-noir-dress", Name: "Privé Noir Dress",
			Description: "Access-code exclusive evening dress.",
			Price:       620.00, Image: "prive-noir-dress.jpg", Stock: 12,
			Tags: models.TagLimitedEdition + "," + models.TagPrive,
		},
		{
			Slug: "barry-archive-coat", Name: "Barry Archive Coat",
			Description: "Entitlement-gated archive piece.",
			Price:       1480.00, Image: "barry-archive-coat.jpg", Stock: 5,
			Tags: models.TagLimitedEdition + "," + models.TagBarry,
		},
	}

	for _, p := range products {
		var existing models.Product
		if err := database.DB.Where("slug = ?", p.Slug).First(&existing).Error; err == nil {
			continue
		}
		if err := database.DB.Create(&p).Error; err != nil {
			logger.Error("seed: product", "slug", p.Slug, "error", err)
		}
	}
}
