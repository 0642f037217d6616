package stock

import (
	"bullionledger/internal/domain"
)

// Repository defines the interface for Stock persistence.
type Repository interface {
	domain.CatalogRepository[*Stock]
}

// KaratRepository defines the interface for Karat persistence.
type KaratRepository interface {
	domain.CatalogRepository[*Karat]
}
