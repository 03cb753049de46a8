package service

import (
	"context"
	"log/slog"

	"github.com/pdvlabs/pdv-sales-platform/internal/cache"
	"github.com/pdvlabs/pdv-sales-platform/internal/config"
	"github.com/pdvlabs/pdv-sales-platform/internal/errors"
	"github.com/pdvlabs/pdv-sales-platform/internal/models"
	repository "github.com/pdvlabs/pdv-sales-platform/internal/repositories"
)

// ProductService serves the catalog the sales screen renders. The active
// list changes rarely during a shift, so it is cached with a short TTL;
// staleness only delays a new product appearing, never a sale.
type ProductService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	cacheCfg *config.CacheConfig
}

func NewProductService(repo repository.ProductRepository, c cache.Cache, cacheCfg *config.CacheConfig) *ProductService {
	return &ProductService{repo: repo, cache: c, cacheCfg: cacheCfg}
}

func (s *ProductService) ListActiveProducts(ctx context.Context) ([]models.Product, error) {

	cacheKey := cache.Key(cache.ProductKeyPrefix, "active")

	if s.cache != nil {
		var cached []models.Product

		found, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			slog.Warn("Product cache lookup failed", slog.String("error", err.Error()))
		} else if found {
			return cached, nil
		}
	}

	products, err := s.repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, products, s.cacheCfg.ProductTTL); err != nil {
			slog.Warn("Product cache write failed", slog.String("error", err.Error()))
		}
	}

	return products, nil
}
