package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pageturn/storefront/internal/api/middleware"
	"github.com/pageturn/storefront/internal/models"
	service "github.com/pageturn/storefront/internal/services"
	"github.com/pageturn/storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// SearchBooks serves the public catalog search. All filters are optional;
// an empty query returns the full catalog page the upstream API decides on.
func (h *CatalogHandler) SearchBooks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		params := r.URL.Query()
		query := models.SearchQuery{
			Query:     params.Get("query"),
			Category:  params.Get("category"),
			Author:    params.Get("author"),
			Publisher: params.Get("publisher"),
		}

		books, err := h.catalogService.Search(r.Context(), query)
		if err != nil {
			logger.Error("Book search failed", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Book search completed", slog.Int("results", len(books)))
		response.Success(w, http.StatusOK, models.SearchResponse{Books: books})
	}
}
