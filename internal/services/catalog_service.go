package services

import (
	"context"
	"fmt"

	"travel-agency/internal/repository"
	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/pocketbase/dbx"
)

const (
	packageSort = "-featured,-created"
	placeSort   = "ordering,-created"
	cabSort     = "ordering,name"
	serviceSort = "-created"

	homeFeaturedLimit = 6
)

// CatalogService serves the public, active-only views of the catalog.
type CatalogService struct {
	packages repository.Store[models.Package]
	places   repository.Store[models.Place]
	cabs     repository.Store[models.Cab]
	services repository.Store[models.Service]
}

func NewCatalogService(
	packages repository.Store[models.Package],
	places repository.Store[models.Place],
	cabs repository.Store[models.Cab],
	services repository.Store[models.Service],
) *CatalogService {
	return &CatalogService{packages: packages, places: places, cabs: cabs, services: services}
}

var active = string(models.StatusActive)

func (s *CatalogService) Packages(ctx context.Context) ([]models.Package, error) {
	return s.packages.List(ctx, repository.Query{Status: active, Sort: packageSort})
}

func (s *CatalogService) Places(ctx context.Context) ([]models.Place, error) {
	return s.places.List(ctx, repository.Query{Status: active, Sort: placeSort})
}

func (s *CatalogService) Cabs(ctx context.Context) ([]models.Cab, error) {
	return s.cabs.List(ctx, repository.Query{Status: active, Sort: cabSort})
}

func (s *CatalogService) Services(ctx context.Context) ([]models.Service, error) {
	return s.services.List(ctx, repository.Query{Status: active, Sort: serviceSort})
}

// Package returns an active package; inactive ones are reported as missing.
func (s *CatalogService) Package(ctx context.Context, id string) (models.Package, error) {
	pkg, err := s.packages.Get(ctx, id)
	if err != nil {
		return models.Package{}, err
	}
	if pkg.Status != models.StatusActive {
		return models.Package{}, fmt.Errorf("package %s: %w", id, status.ErrNotFound)
	}
	return pkg, nil
}

func (s *CatalogService) Place(ctx context.Context, slug string) (models.Place, error) {
	places, err := s.places.List(ctx, repository.Query{
		Status: active,
		Filter: "slug = {:slug}",
		Params: dbx.Params{"slug": slug},
		Limit:  1,
	})
	if err != nil {
		return models.Place{}, err
	}
	if len(places) == 0 {
		return models.Place{}, fmt.Errorf("place %s: %w", slug, status.ErrNotFound)
	}
	return places[0], nil
}

func (s *CatalogService) Home(ctx context.Context) (models.Home, error) {
	packages, err := s.Packages(ctx)
	if err != nil {
		return models.Home{}, err
	}
	featured := make([]models.Package, 0, homeFeaturedLimit)
	for _, p := range packages {
		if p.Featured && len(featured) < homeFeaturedLimit {
			featured = append(featured, p)
		}
	}

	services, err := s.Services(ctx)
	if err != nil {
		return models.Home{}, err
	}
	places, err := s.Places(ctx)
	if err != nil {
		return models.Home{}, err
	}

	return models.Home{FeaturedPackages: featured, Services: services, Places: places}, nil
}
