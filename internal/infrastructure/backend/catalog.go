package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

var _ catalog.Gateway = (*Client)(nil)

// ListProducts returns every product in the catalog
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var resp struct {
		Products []catalog.Product `json:"products"`
	}
	err := c.do(ctx, request{
		endpoint:  "catalog.list_products",
		method:    http.MethodGet,
		path:      "/api/product/displayAll",
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = []catalog.Product{}
	}
	return resp.Products, nil
}

// GetProduct returns one product by id
func (c *Client) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	if id == "" {
		return catalog.Product{}, shared.NewValidationError("product id is required")
	}
	var resp struct {
		Product *catalog.Product `json:"product"`
	}
	err := c.do(ctx, request{
		endpoint:  "catalog.get_product",
		method:    http.MethodGet,
		path:      "/api/product/productDetails/" + seg(id),
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return catalog.Product{}, err
	}
	if resp.Product == nil {
		return catalog.Product{}, shared.NewNotFoundError("Product not found")
	}
	return *resp.Product, nil
}

// ListCategories returns the category tags
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	var resp struct {
		Categories []catalog.Category `json:"categories"`
	}
	err := c.do(ctx, request{
		endpoint:  "catalog.list_categories",
		method:    http.MethodGet,
		path:      "/api/category/GetAll",
		out:       &resp,
		retryable: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.Categories == nil {
		resp.Categories = []catalog.Category{}
	}
	return resp.Categories, nil
}

// AddProduct uploads an admin product draft as multipart form data.
// Images are sent as image1..image3 and variants as a JSON field.
func (c *Client) AddProduct(ctx context.Context, token string, draft catalog.ProductDraft) error {
	if err := requireToken(token); err != nil {
		return err
	}
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		return err
	}
	return c.do(ctx, request{
		endpoint:    "catalog.add_product",
		method:      http.MethodPost,
		path:        "/api/product/add",
		token:       token,
		rawBody:     body,
		contentType: contentType,
	})
}

func encodeDraft(draft catalog.ProductDraft) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	variants, err := json.Marshal(draft.Variants)
	if err != nil {
		return nil, "", fmt.Errorf("backend: failed to encode variants: %w", err)
	}
	fields := [][2]string{
		{"title", draft.Title},
		{"description", draft.Description},
		{"category", draft.Category},
		{"variants", string(variants)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("backend: failed to write field %s: %w", f[0], err)
		}
	}

	for i, img := range draft.Images {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image%d"; filename=%q`, i+1, img.Filename))
		ct := img.ContentType
		if ct == "" {
			ct = http.DetectContentType(img.Data)
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("backend: failed to create image part: %w", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, "", fmt.Errorf("backend: failed to write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("backend: failed to close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
