package stubserver

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/furnishop/storefront-go/internal/api"
)

var (
	errNotFound     = errors.New("not found")
	errUnauthorized = errors.New("unauthorized")
)

type account struct {
	api.User
	password string
	verified bool
	code     string
}

// store is the in-memory world the stub serves from. Carts are stored the
// way the real backend stores them: a flat list of product ids, one entry
// per unit.
type store struct {
	mu sync.Mutex

	nextID   int64
	accounts map[string]*account // by email
	tokens   map[string]int64    // bearer token -> user id
	products map[int64]api.Product
	order    []int64 // product listing order
	carts    map[int64][]int64
	discount map[int64]api.DiscountRequest
	orders   map[int64]api.Order
}

func newStore() *store {
	s := &store{
		accounts: make(map[string]*account),
		tokens:   make(map[string]int64),
		products: make(map[int64]api.Product),
		carts:    make(map[int64][]int64),
		discount: make(map[int64]api.DiscountRequest),
		orders:   make(map[int64]api.Order),
	}
	s.seed()
	return s
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) seed() {
	seedProducts := []api.Product{
		{Name: "Aria Sofa", Category: "sofa", Price: 899.99, Description: "Three-seat fabric sofa", Material: "linen"},
		{Name: "Oslo Lounge Chair", Category: "chair", Price: 349.50, Description: "Mid-century lounge chair", Color: "teal"},
		{Name: "Nordic Dining Table", Category: "table", Price: 649.00, Description: "Oak dining table for six"},
		{Name: "Luna Bed Frame", Category: "bed", Price: 799.00, Description: "Queen bed frame", Size: "queen"},
		{Name: "Vertex Bookshelf", Category: "storage", Price: 229.95, Description: "Five-shelf bookcase"},
		{Name: "Halo Floor Lamp", Category: "lighting", Price: 119.00, Description: "Arched floor lamp", Color: "brass"},
	}
	for _, p := range seedProducts {
		p.ID = s.id()
		s.products[p.ID] = p
		s.order = append(s.order, p.ID)
	}
}

func newVerificationCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

func (s *store) signup(username, email, password string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[email]; exists {
		return nil, errors.New("email already registered")
	}
	acc := &account{
		User:     api.User{ID: s.id(), Username: username, Email: email},
		password: password,
		code:     newVerificationCode(),
	}
	s.accounts[email] = acc
	return acc, nil
}

func (s *store) verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return errNotFound
	}
	if acc.code != code {
		return errors.New("invalid verification code")
	}
	acc.verified = true
	// The cart is born at verification time with its own id.
	acc.Cart = &api.CartRef{ID: s.id()}
	s.carts[acc.Cart.ID] = nil
	return nil
}

func (s *store) resend(email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return "", errNotFound
	}
	acc.code = newVerificationCode()
	return acc.code, nil
}

func (s *store) login(email, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok || acc.password != password {
		return "", errors.New("invalid credentials")
	}
	if !acc.verified {
		return "", errors.New("account not verified")
	}
	token := uuid.NewString()
	s.tokens[token] = acc.ID
	return token, nil
}

func (s *store) userByToken(token string) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.tokens[token]
	if !ok {
		return nil, errUnauthorized
	}
	for _, acc := range s.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, errUnauthorized
}

func (s *store) allProducts() []api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Product, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *store) productByID(id int64) (api.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return api.Product{}, errNotFound
	}
	return p, nil
}

func (s *store) addProduct(p api.Product) api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	s.products[p.ID] = p
	s.order = append(s.order, p.ID)
	return p
}

func (s *store) updateProduct(p api.Product) (api.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return api.Product{}, errNotFound
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *store) deleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return errNotFound
	}
	delete(s.products, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// cartKeyLocked resolves a cart id the way the backend does: a real cart id
// or, as the legacy stand-in, a user id.
func (s *store) cartKeyLocked(cartID int64) (int64, bool) {
	if _, ok := s.carts[cartID]; ok {
		return cartID, true
	}
	for _, acc := range s.accounts {
		if acc.ID == cartID {
			if acc.Cart != nil {
				return acc.Cart.ID, true
			}
			// First touch through the stand-in id creates the cart.
			acc.Cart = &api.CartRef{ID: cartID}
			s.carts[cartID] = nil
			return cartID, true
		}
	}
	return 0, false
}

func (s *store) showCart(cartID int64) ([]api.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return nil, errNotFound
	}
	units := s.carts[key]
	out := make([]api.Product, 0, len(units))
	for _, pid := range units {
		if p, ok := s.products[pid]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *store) addToCart(cartID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return errNotFound
	}
	if _, ok := s.products[productID]; !ok {
		return errNotFound
	}
	s.carts[key] = append(s.carts[key], productID)
	return nil
}

// removeFromCart takes out a single unit of the product.
func (s *store) removeFromCart(cartID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return errNotFound
	}
	units := s.carts[key]
	for i, pid := range units {
		if pid == productID {
			s.carts[key] = append(units[:i], units[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

// clearCart empties the cart; clearing an already-empty cart is a no-op.
func (s *store) clearCart(cartID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return errNotFound
	}
	s.carts[key] = nil
	delete(s.discount, key)
	return nil
}

func (s *store) applyDiscount(cartID int64, req api.DiscountRequest) (api.PriceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return api.PriceSummary{}, errNotFound
	}
	s.discount[key] = req
	return s.summaryLocked(key), nil
}

func (s *store) calculate(cartID int64) (api.PriceSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.cartKeyLocked(cartID)
	if !ok {
		return api.PriceSummary{}, errNotFound
	}
	return s.summaryLocked(key), nil
}

func (s *store) summaryLocked(key int64) api.PriceSummary {
	var original float64
	for _, pid := range s.carts[key] {
		if p, ok := s.products[pid]; ok {
			original += p.Price
		}
	}
	summary := api.PriceSummary{OriginalPrice: original, FinalPrice: original}
	if d, ok := s.discount[key]; ok {
		switch d.Type {
		case api.DiscountPercentage:
			summary.Discount = original * d.Value / 100
			summary.Message = fmt.Sprintf("%.0f%% discount applied", d.Value)
		case api.DiscountFixed:
			summary.Discount = d.Value
			summary.Message = fmt.Sprintf("$%.2f discount applied", d.Value)
		}
		if summary.Discount > original {
			summary.Discount = original
		}
		summary.FinalPrice = original - summary.Discount
	}
	return summary
}

func (s *store) saveOrder(o api.Order) api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.id()
	if o.Total == 0 {
		for _, p := range o.Products {
			o.Total += p.Price
		}
	}
	s.orders[o.ID] = o
	return o
}

func (s *store) orderByID(id int64) (api.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return api.Order{}, errNotFound
	}
	return o, nil
}

func (s *store) allOrders() []api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out
}

// verificationCode exposes the pending code for an email. The stub has no
// outbox; dev and test flows read the code from here (the binary logs it).
func (s *store) verificationCode(email string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[email]
	if !ok {
		return "", false
	}
	return acc.code, true
}
