package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines catalog business logic.
type Service interface {
	ListProducts(ctx context.Context, category string) ([]*Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// CurrentPrice is the live price feed consumed by price alerts.
	CurrentPrice(ctx context.Context, id string) (decimal.Decimal, error)
}

// ProductRequest holds the admin-editable product fields.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
}

func (req *ProductRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	switch {
	case req.Name == "":
		return &ValidationError{Field: "name", Reason: "is required"}
	case req.Category == "":
		return &ValidationError{Field: "category", Reason: "is required"}
	case strings.Contains(req.Category, ","):
		// Browse links comma-join categories.
		return &ValidationError{Field: "category", Reason: "must not contain a comma"}
	case req.Price.IsNegative():
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	case req.Stock < 0:
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return nil
}

type service struct {
	repo     Repository
	currency string
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates a catalog service. currency is applied to products
// created without one.
func NewService(repo Repository, currency string, log *zap.Logger) Service {
	return &service{repo: repo, currency: currency, log: log, now: time.Now}
}

func (s *service) ListProducts(ctx context.Context, category string) ([]*Product, error) {
	products, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) CreateProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}
	now := s.now().UTC()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Currency:    currency,
		Stock:       req.Stock,
		Images:      nonNil(req.Images),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*Product, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldPrice := p.Price
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	if req.Currency != "" {
		p.Currency = req.Currency
	}
	p.Stock = req.Stock
	if req.Images != nil {
		p.Images = req.Images
	}
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if !oldPrice.Equal(p.Price) {
		s.log.Info("product price changed", zap.String("id", p.ID),
			zap.String("from", oldPrice.String()), zap.String("to", p.Price.String()))
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("product deleted", zap.String("id", id))
	return nil
}

func (s *service) CurrentPrice(ctx context.Context, id string) (decimal.Decimal, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return p.Price, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
