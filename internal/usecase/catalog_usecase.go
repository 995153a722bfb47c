package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"proposal_builder/internal/domain/entities"
	"proposal_builder/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

// SeedResult counts what a catalog seed wrote.
type SeedResult struct {
	Services int
	Packages int
}

// ICatalogUseCase exposes the service and package catalogs.
type ICatalogUseCase interface {
	ListServices(ctx context.Context) ([]entities.Service, error)
	ListPackages(ctx context.Context) ([]entities.Package, error)
	Seed(ctx context.Context, services []entities.Service, packages []entities.Package) (SeedResult, error)
}

type CatalogUseCase struct {
	services interfaces.IServiceCatalogRepository
	packages interfaces.IPackageCatalogRepository
}

var _ ICatalogUseCase = (*CatalogUseCase)(nil)

func NewCatalogUseCase(services interfaces.IServiceCatalogRepository, packages interfaces.IPackageCatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{services: services, packages: packages}
}

func (u *CatalogUseCase) ListServices(ctx context.Context) ([]entities.Service, error) {
	list, err := u.services.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return list, nil
}

func (u *CatalogUseCase) ListPackages(ctx context.Context) ([]entities.Package, error) {
	list, err := u.packages.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return list, nil
}

// Seed validates every entry first and only then writes, so a bad file
// leaves the tables untouched.
func (u *CatalogUseCase) Seed(ctx context.Context, services []entities.Service, packages []entities.Package) (SeedResult, error) {
	cleanServices := make([]entities.Service, 0, len(services))
	for i, s := range services {
		s.Name = strings.TrimSpace(s.Name)
		s.Category = strings.ToLower(strings.TrimSpace(s.Category))
		if s.Name == "" {
			return SeedResult{}, fmt.Errorf("%w: service #%d has no name", ErrInvalidCatalogEntry, i+1)
		}
		if s.DefaultRate < 0 {
			return SeedResult{}, fmt.Errorf("%w: service %q has a negative rate", ErrInvalidCatalogEntry, s.Name)
		}
		if s.Category == "" {
			s.Category = entities.DefaultCategory
		}
		if strings.TrimSpace(s.BillingUnit) == "" {
			s.BillingUnit = entities.DefaultBillingUnit
		}
		cleanServices = append(cleanServices, s)
	}

	cleanPackages := make([]entities.Package, 0, len(packages))
	for i, p := range packages {
		p.ID = strings.TrimSpace(p.ID)
		p.Name = strings.TrimSpace(p.Name)
		if p.ID == "" || p.Name == "" {
			return SeedResult{}, fmt.Errorf("%w: package #%d needs id and name", ErrInvalidCatalogEntry, i+1)
		}
		cleanPackages = append(cleanPackages, p)
	}

	var res SeedResult
	for _, s := range cleanServices {
		if err := u.services.PutService(ctx, s); err != nil {
			return res, err
		}
		res.Services++
	}
	for _, p := range cleanPackages {
		if err := u.packages.PutPackage(ctx, p); err != nil {
			return res, err
		}
		res.Packages++
	}
	zap.L().Info("[catalog][usecase] seed complete", zap.Int("services", res.Services), zap.Int("packages", res.Packages))
	return res, nil
}
