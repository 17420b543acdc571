package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/123shiju/ecommerce-client/internal/application/catalog"
	"github.com/123shiju/ecommerce-client/internal/application/storefront"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/interfaces/http/dto"
)

// maxImageSize caps each uploaded product image
const maxImageSize = 5 << 20

// CatalogHandler serves the home, product detail and admin screens
type CatalogHandler struct {
	BaseHandler
	catalog *catalogapp.Service
	shared  *storefront.Synchronizer
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *catalogapp.Service, shared *storefront.Synchronizer) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, shared: shared}
}

// RegisterRoutes implements router.RouteRegistrar
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/catalog")
	g.GET("/products", h.Search)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/categories", h.ListCategories)

	rg.POST("/admin/products", h.AddProduct)
}

// Search lists products filtered by ?q= and ?category=
func (h *CatalogHandler) Search(c *gin.Context) {
	var q catalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, "Invalid search query")
		return
	}

	products, err := h.catalog.Search(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p, h.shared.Contains(p.ID)))
	}
	h.Success(c, out)
}

// GetProduct renders the product detail page
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewProductResponse(p, h.shared.Contains(p.ID)))
}

// ListCategories returns the category tags
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []catalog.Category{}
	}
	h.Success(c, categories)
}

// AddProduct accepts the admin form as multipart: title, description,
// category, variants (JSON array) and image1..image3.
func (h *CatalogHandler) AddProduct(c *gin.Context) {
	draft := catalog.ProductDraft{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
	}

	if raw := c.PostForm("variants"); raw != "" {
		variants, err := parseVariants(raw)
		if err != nil {
			h.BadRequest(c, "variants must be a JSON array")
			return
		}
		draft.Variants = variants
	}

	for i := 1; i <= catalog.RequiredImages; i++ {
		fh, err := c.FormFile(fmt.Sprintf("image%d", i))
		if err != nil {
			continue
		}
		img, err := readImage(fh)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		draft.Images = append(draft.Images, img)
	}

	if err := h.catalog.AddProduct(c.Request.Context(), draft); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"title": draft.Title})
}

// parseVariants accepts numbers or strings for price and quantity, as the
// admin form sends whatever the inputs hold.
func parseVariants(raw string) ([]catalog.VariantDraft, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, err
	}

	field := func(row map[string]any, key string) string {
		v, ok := row[key]
		if !ok || v == nil {
			return ""
		}
		return fmt.Sprint(v)
	}

	out := make([]catalog.VariantDraft, 0, len(rows))
	for _, row := range rows {
		out = append(out, catalog.VariantDraft{
			RAM:      field(row, "ram"),
			Price:    field(row, "price"),
			Quantity: field(row, "quantity"),
		})
	}
	return out, nil
}

func readImage(fh *multipart.FileHeader) (catalog.Image, error) {
	if fh.Size > maxImageSize {
		return catalog.Image{}, fmt.Errorf("%s is larger than 5MB", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return catalog.Image{}, fmt.Errorf("cannot read %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return catalog.Image{}, fmt.Errorf("cannot read %s", fh.Filename)
	}
	return catalog.Image{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
