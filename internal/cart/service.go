package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/furnishop/storefront-go/internal/api"
)

var ErrInvalidDiscount = errors.New("cart: discount value must be positive")

// Service owns the grouped view of one cart. Every mutation goes to the
// server first and then re-fetches the whole cart, so the local rows are
// always a grouping of a real server snapshot, never an optimistic guess.
// Mutations on the same Service are serialized; interleaved partial updates
// from concurrent SetQuantity calls cannot happen.
type Service struct {
	mu     sync.Mutex
	carts  *api.CartClient
	cartID string
	logger *zap.Logger

	rows    []Row
	summary *api.PriceSummary
}

func NewService(carts *api.CartClient, cartID string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{carts: carts, cartID: cartID, logger: logger}
}

// Rows returns the current grouped view.
func (s *Service) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Summary returns the last server-computed PriceSummary, or nil if none has
// been requested since the last mutation.
func (s *Service) Summary() *api.PriceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Service) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Subtotal(s.rows)
}

func (s *Service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemCount(s.rows)
}

// Refresh re-fetches the cart and rebuilds the grouped rows.
func (s *Service) Refresh(ctx context.Context) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *Service) refreshLocked(ctx context.Context) error {
	raw, err := s.carts.Show(ctx, s.cartID)
	if err != nil {
		return err
	}
	s.rows = GroupLineItems(raw)
	return nil
}

// Add puts one unit of the product in the cart, then re-fetches. One extra
// round trip per mutation, in exchange for never drifting from the server.
func (s *Service) Add(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.carts.Add(ctx, s.cartID, productID); err != nil {
		return err
	}
	s.summary = nil
	return s.refreshLocked(ctx)
}

// Remove takes one unit of the product out of the cart, then re-fetches.
func (s *Service) Remove(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.carts.Remove(ctx, s.cartID, productID); err != nil {
		return err
	}
	s.summary = nil
	return s.refreshLocked(ctx)
}

// SetQuantity moves a row to the target quantity with sequential single-unit
// add/remove calls; the backend has no batch endpoint. A target of zero or
// less removes the row entirely. The loop honors ctx cancellation between
// calls, and the cart is re-fetched afterwards even when a call mid-loop
// failed, so the local view matches whatever the server ended up with.
func (s *Service) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := 0
	for _, r := range s.rows {
		if r.ID == productID {
			current = r.Quantity
			break
		}
	}

	if quantity < 0 {
		quantity = 0
	}
	delta := quantity - current

	var callErr error
	for i := 0; i < abs(delta); i++ {
		if err := ctx.Err(); err != nil {
			callErr = err
			break
		}
		if delta > 0 {
			callErr = s.carts.Add(ctx, s.cartID, productID)
		} else {
			callErr = s.carts.Remove(ctx, s.cartID, productID)
		}
		if callErr != nil {
			break
		}
	}

	s.summary = nil
	if err := s.refreshLocked(ctx); err != nil && callErr == nil {
		callErr = err
	}
	return callErr
}

// Clear empties the cart in one call. Clearing an already-empty cart is a
// server-side no-op.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.carts.Clear(ctx, s.cartID); err != nil {
		return err
	}
	s.rows = nil
	s.summary = nil
	return nil
}

// Calculate asks the server for the cart's PriceSummary and keeps it for
// display.
func (s *Service) Calculate(ctx context.Context) (*api.PriceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, err := s.carts.Calculate(ctx, s.cartID)
	if err != nil {
		return nil, err
	}
	s.summary = summary
	return summary, nil
}

// ApplyDiscount sends a discount kind and magnitude to the server and
// replaces the displayed summary with the response verbatim. The only local
// validation is that the magnitude is positive; bounds are the server's
// business.
func (s *Service) ApplyDiscount(ctx context.Context, kind api.DiscountKind, value float64) (*api.PriceSummary, error) {
	if value <= 0 {
		return nil, ErrInvalidDiscount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, err := s.carts.ApplyDiscount(ctx, s.cartID, api.DiscountRequest{Type: kind, Value: value})
	if err != nil {
		return nil, err
	}
	s.summary = summary
	return summary, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
