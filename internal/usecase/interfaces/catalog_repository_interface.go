package interfaces

import (
	"context"

	"proposal_builder/internal/domain/entities"
)

// IServiceCatalogRepository reads and seeds the billable service catalog.
// ListServices returns services in catalog order.
type IServiceCatalogRepository interface {
	ListServices(ctx context.Context) ([]entities.Service, error)
	PutService(ctx context.Context, s entities.Service) error
}

// IPackageCatalogRepository reads and seeds predefined package templates.
// ListPackages returns packages ordered by total cost.
type IPackageCatalogRepository interface {
	ListPackages(ctx context.Context) ([]entities.Package, error)
	PutPackage(ctx context.Context, p entities.Package) error
}
