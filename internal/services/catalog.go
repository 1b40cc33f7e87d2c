package service

import (
	"context"
	"net/url"

	"github.com/pageturn/storefront/internal/cache"
	"github.com/pageturn/storefront/internal/client"
	"github.com/pageturn/storefront/internal/config"
	"github.com/pageturn/storefront/internal/models"
)

// CatalogService queries the book catalog. Results are a read-only
// snapshot: stock and pricing are only authoritative at cart time, so a
// short cache TTL is acceptable here.
type CatalogService struct {
	api   client.API
	cache cache.Cache
	cfg   *config.CacheConfig
}

func NewCatalogService(api client.API, c cache.Cache, cfg *config.CacheConfig) *CatalogService {
	return &CatalogService{api: api, cache: c, cfg: cfg}
}

func (s *CatalogService) Search(ctx context.Context, q models.SearchQuery) ([]models.Book, error) {

	key := searchKey(q)

	var cached []models.Book

	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	books, err := s.api.SearchBooks(ctx, q)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, books, s.cfg.SearchTTL)

	return books, nil
}

func searchKey(q models.SearchQuery) string {

	values := url.Values{}

	for key, value := range map[string]string{
		"q":         q.Query,
		"category":  q.Category,
		"author":    q.Author,
		"publisher": q.Publisher,
	} {
		if value != "" {
			values.Set(key, value)
		}
	}

	return cache.Key(cache.SearchKeyPrefix, values.Encode())
}
