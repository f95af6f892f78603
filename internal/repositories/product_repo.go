package repositories

import "storefront/internal/models"

// ProductFilter narrows a catalog listing. Zero values mean "no filter";
// Limit <= 0 falls back to the repository default page size.
type ProductFilter struct {
	Category      string
	Collection    string
	Gender        string
	FeaturedOnly  bool
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
