package order

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/cart"
)

// Service defines the order hand-off business logic.
type Service interface {
	// Checkout records the cart as an order and returns it with the WhatsApp
	// deep link. The cart itself is left untouched.
	Checkout(ctx context.Context, sessionID string, sum cart.Summary) (*Order, error)

	// GetOrderByNumber retrieves an order by its human-readable number.
	GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// ListRecent returns the latest orders for the admin panel.
	ListRecent(ctx context.Context, limit int) ([]*Order, error)

	// UpdateStatus advances an order to a new lifecycle status.
	UpdateStatus(ctx context.Context, orderNumber string, req UpdateStatusRequest) (*Order, error)
}

type service struct {
	repo     Repository
	phone    string
	currency string
	log      *zap.Logger
	now      func() time.Time
}

// NewService creates an order service handing orders off to phone.
func NewService(repo Repository, phone, currency string, log *zap.Logger) Service {
	return &service{repo: repo, phone: phone, currency: currency, log: log, now: time.Now}
}

// validTransitions defines the allowed status state machine.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusHandedOff: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusFulfilled, StatusCancelled},
	StatusFulfilled: {},
	StatusCancelled: {},
}

const maxListLimit = 200

func (s *service) Checkout(ctx context.Context, sessionID string, sum cart.Summary) (*Order, error) {
	if len(sum.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	link, err := DeepLink(s.phone, sum.Lines, s.currency)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	o := &Order{
		ID:          uuid.NewString(),
		OrderNumber: generateOrderNumber(now),
		SessionID:   sessionID,
		Phone:       phoneDigits(s.phone),
		Status:      StatusHandedOff,
		Currency:    s.currency,
		Total:       sum.Total,
		Summary:     BuildSummary(sum.Lines, s.currency),
		DeepLink:    link,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, l := range sum.Lines {
		o.Lines = append(o.Lines, &Line{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			Position:  i + 1,
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			LineTotal: l.LineTotal(),
		})
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	s.log.Info("order handed off",
		zap.String("order_number", o.OrderNumber),
		zap.Int("lines", len(o.Lines)),
		zap.String("total", o.Total.StringFixed(2)))
	return o, nil
}

func (s *service) GetOrderByNumber(ctx context.Context, orderNumber string) (*Order, error) {
	return s.repo.GetOrderByNumber(ctx, strings.ToUpper(strings.TrimSpace(orderNumber)))
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]*Order, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}

func (s *service) UpdateStatus(ctx context.Context, orderNumber string, req UpdateStatusRequest) (*Order, error) {
	o, err := s.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	newStatus := OrderStatus(strings.ToUpper(req.Status))
	if !slices.Contains(validTransitions[o.Status], newStatus) {
		return nil, &TransitionError{From: o.Status, To: newStatus}
	}

	if err := s.repo.UpdateStatus(ctx, o.OrderNumber, newStatus); err != nil {
		return nil, err
	}
	o.Status = newStatus
	s.log.Info("order status changed", zap.String("order_number", o.OrderNumber), zap.String("status", string(newStatus)))
	return o, nil
}

// TransitionError is returned for a status change the state machine forbids.
type TransitionError struct {
	From, To OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

// generateOrderNumber creates a human-readable order number: ORD-YYYYMMDD-XXXX
func generateOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:4])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
