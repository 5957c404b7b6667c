package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
)

type productCatalog interface {
	List(ctx context.Context, filter productrepo.ListFilter) (*domain.ProductPage, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type brandLister interface {
	List(ctx context.Context) ([]domain.Brand, error)
}

type categoryLister interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type catalogHandlers struct {
	products   productCatalog
	brands     brandLister
	categories categoryLister
}

func (h *catalogHandlers) listProducts(c *gin.Context) {
	filter := productrepo.ListFilter{
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 20),
		Brand:    c.Query("brand"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	page, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list products")
		return
	}
	respond(c, http.StatusOK, "products fetched", page)
}

func (h *catalogHandlers) getProduct(c *gin.Context) {
	product, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not load product")
		return
	}
	respond(c, http.StatusOK, "product fetched", product)
}

func (h *catalogHandlers) listBrands(c *gin.Context) {
	brands, err := h.brands.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list brands")
		return
	}
	if brands == nil {
		brands = []domain.Brand{}
	}
	respond(c, http.StatusOK, "brands fetched", brands)
}

func (h *catalogHandlers) listCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not list categories")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	respond(c, http.StatusOK, "categories fetched", categories)
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
