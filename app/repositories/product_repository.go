package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/orm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{db: database.DB}
}

// FindBySlug loads one product, reading through the cache. Product records
// change rarely, so a short TTL is safe.
func (r *ProductRepository) FindBySlug(slug string) (*models.Product, error) {
	var product models.Product
	err := orm.DB().
		Model(&models.Product{}).
		Where("slug = ?", slug).
		Cache("product:"+slug, 5*time.Minute, &product)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && product.ID == 0) {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// TagsBySlugs bulk-fetches the tag lists for a set of slugs. Slugs with no
// matching product are simply absent from the result.
func (r *ProductRepository) TagsBySlugs(slugs []string) (map[string][]string, error) {
	if len(slugs) == 0 {
		return map[string][]string{}, nil
	}

	var products []models.Product
	if err := r.db.Select("slug, tags").Where("slug IN ?", slugs).Find(&products).Error; err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(products))
	for i := range products {
		out[products[i].Slug] = products[i].TagList()
	}
	return out, nil
}
