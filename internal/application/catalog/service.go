// Package catalog serves product listings, detail and the admin
// add-product form.
package catalog

import (
	"context"

	"github.com/123shiju/ecommerce-client/internal/application/notify"
	"github.com/123shiju/ecommerce-client/internal/domain/catalog"
	"github.com/123shiju/ecommerce-client/internal/domain/identity"
	"github.com/123shiju/ecommerce-client/internal/domain/shared"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/logger"
	"github.com/123shiju/ecommerce-client/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ImageResolver turns a stored image reference into a loadable URL
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) (string, error)
}

// Service is the catalog client
type Service struct {
	gateway  catalog.Gateway
	sessions identity.SessionProvider
	images   ImageResolver
	notifier *notify.Notifier
	logger   *zap.Logger
}

// NewService creates a catalog service. images may be nil, in which case
// references are returned as stored.
func NewService(
	gateway catalog.Gateway,
	sessions identity.SessionProvider,
	images ImageResolver,
	notifier *notify.Notifier,
	zapLogger *zap.Logger,
) *Service {
	return &Service{
		gateway:  gateway,
		sessions: sessions,
		images:   images,
		notifier: notifier,
		logger:   zapLogger.Named("catalog"),
	}
}

// ListProducts returns the full catalog
func (s *Service) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_products")
	defer span.End()

	products, err := s.gateway.ListProducts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Error("failed to fetch products", zap.Error(err))
		return nil, err
	}
	for i := range products {
		s.resolveImages(ctx, &products[i])
	}
	return products, nil
}

// Search fetches the catalog and applies the client-side filter
func (s *Service) Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(products, q), nil
}

// ListCategories returns the category tags
func (s *Service) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_categories")
	defer span.End()

	categories, err := s.gateway.ListCategories(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.notifier.Error(ctx, "Failed to load categories.")
		return nil, err
	}
	return categories, nil
}

// GetProduct returns one product or NOT_FOUND
func (s *Service) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get_product", telemetry.AttrProductID, id)
	defer span.End()

	product, err := s.gateway.GetProduct(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Warn("failed to fetch product", zap.String("product_id", id), zap.Error(err))
		return catalog.Product{}, err
	}
	s.resolveImages(ctx, &product)
	return product, nil
}

// AddProduct submits the admin form. Incomplete drafts never reach the
// backend.
func (s *Service) AddProduct(ctx context.Context, draft catalog.ProductDraft) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "add_product")
	defer span.End()

	if err := draft.Validate(); err != nil {
		s.notifier.Failure(ctx, err)
		return err
	}
	sess, err := s.sessions.Require()
	if err != nil {
		s.notifier.Failure(ctx, err)
		return err
	}

	if err := s.gateway.AddProduct(ctx, sess.Token.String(), draft); err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx, s.logger).Error("failed to add product", zap.String("title", draft.Title), zap.Error(err))
		if shared.IsAuthError(err) {
			s.notifier.Failure(ctx, err)
		} else {
			s.notifier.Error(ctx, "Failed to add product. Please try again.")
		}
		return err
	}

	s.notifier.Success(ctx, "Product added successfully!")
	return nil
}

func (s *Service) resolveImages(ctx context.Context, p *catalog.Product) {
	if s.images == nil || len(p.Images) == 0 {
		return
	}
	resolved := make([]string, 0, len(p.Images))
	for _, ref := range p.Images {
		u, err := s.images.ResolveImage(ctx, ref)
		if err != nil {
			logger.L(ctx, s.logger).Warn("keeping unresolved image reference",
				zap.String("product_id", p.ID),
				zap.String("ref", ref),
				zap.Error(err),
			)
			u = ref
		}
		resolved = append(resolved, u)
	}
	p.Images = resolved
}
