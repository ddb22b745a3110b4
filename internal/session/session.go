package session

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/furnishop/storefront-go/internal/api"
)

// Status is the shell-visible authentication state.
type Status int

const (
	StatusLoading Status = iota
	StatusLoggedOut
	// StatusAuthenticatedNoCart: token accepted but the cart id is not
	// resolved yet (user fetch failed non-fatally, or resolve in progress).
	StatusAuthenticatedNoCart
	StatusAuthenticatedReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoggedOut:
		return "logged-out"
	case StatusAuthenticatedNoCart:
		return "authenticated-no-cart"
	case StatusAuthenticatedReady:
		return "authenticated-ready"
	default:
		return "unknown"
	}
}

// Session is the client's record of who is logged in and which cart is
// theirs. It is constructed once at startup and passed explicitly to
// whatever needs it; there is no ambient global state.
//
// Session implements api.TokenSource, so the API client it is wired to
// picks up the bearer token on every request automatically.
type Session struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger

	users *api.UserClient
	carts *api.CartClient

	status    Status
	token     string
	user      *api.User
	cartID    string
	fallback  bool
	itemCount int
}

func New(store Store, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger, status: StatusLoading}
}

// Attach wires the API clients the session needs to resolve the current
// user and cart. Called once after the API client is built (the API client
// itself needs the session as its token source, hence the two-step wiring).
func (s *Session) Attach(users *api.UserClient, carts *api.CartClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = users
	s.carts = carts
}

// Token implements api.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Authenticated() bool {
	st := s.Status()
	return st == StatusAuthenticatedNoCart || st == StatusAuthenticatedReady
}

// CartID returns the resolved cart id. ok is false while no cart id is
// known ("no cart yet" is a distinct state, never an empty-string stand-in).
func (s *Session) CartID() (id string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartID, s.cartID != ""
}

// UsingFallbackCartID reports whether the cart id is the user-id stand-in
// rather than a server-assigned cart id.
func (s *Session) UsingFallbackCartID() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fallback
}

func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}

// Initialize inspects the persisted token. With no token the session is
// simply logged out. With one, it is provisionally authenticated and the
// current user and cart id are resolved; a 401/403 during resolution clears
// everything, any other failure leaves the session authenticated with the
// cart unresolved (the shell shows a degraded state instead of failing).
func (s *Session) Initialize(ctx context.Context) error {
	st, err := s.store.Load()
	if err != nil {
		s.logger.Warn("failed to load persisted session", zap.Error(err))
	}
	if st.Token == "" {
		s.mu.Lock()
		s.status = StatusLoggedOut
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.token = st.Token
	s.user = st.User
	s.status = StatusAuthenticatedNoCart
	s.mu.Unlock()

	return s.resolveUser(ctx)
}

// Login stores the token, marks the session authenticated, and resolves the
// user and cart id the same way Initialize does.
func (s *Session) Login(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.status = StatusAuthenticatedNoCart
	s.mu.Unlock()

	if err := s.store.Save(PersistedState{Token: token}); err != nil {
		s.logger.Warn("failed to persist token", zap.Error(err))
	}
	return s.resolveUser(ctx)
}

// Logout is unconditional and always succeeds locally, whatever the network
// is doing.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.cartID = ""
	s.fallback = false
	s.itemCount = 0
	s.status = StatusLoggedOut
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
}

// RefreshCartCount re-fetches the cart and recomputes the displayed count.
// A missing cart id or a failed fetch both reset the count to zero rather
// than erroring.
func (s *Session) RefreshCartCount(ctx context.Context) int {
	cartID, ok := s.CartID()
	if !ok {
		s.setItemCount(0)
		return 0
	}

	raw, err := s.carts.Show(ctx, cartID)
	if err != nil {
		s.logger.Warn("failed to fetch cart count", zap.String("cart_id", cartID), zap.Error(err))
		s.setItemCount(0)
		return 0
	}
	s.setItemCount(len(raw))
	return len(raw)
}

func (s *Session) setItemCount(n int) {
	s.mu.Lock()
	s.itemCount = n
	s.mu.Unlock()
}

func (s *Session) resolveUser(ctx context.Context) error {
	user, err := s.users.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.logger.Info("token rejected, logging out")
			s.Logout()
			return err
		}
		// Stay authenticated; the cart id simply remains unresolved.
		s.logger.Warn("failed to resolve user", zap.Error(err))
		return err
	}

	cartID, fallback := resolveCartID(user)

	s.mu.Lock()
	s.user = user
	s.cartID = cartID
	s.fallback = fallback
	s.status = StatusAuthenticatedReady
	token := s.token
	s.mu.Unlock()

	if fallback {
		s.logger.Warn("no cart on user record, using user id as cart id",
			zap.Int64("user_id", user.ID))
	}

	if err := s.store.Save(PersistedState{Token: token, CartID: cartID, User: user}); err != nil {
		s.logger.Warn("failed to persist session", zap.Error(err))
	}

	s.RefreshCartCount(ctx)
	return nil
}

// resolveCartID prefers the cart embedded in the user record. The backend
// sometimes returns users without one; the user's own id then stands in as
// the cart id, which the backend accepts. fallback marks that case so it is
// never mistaken for a real cart id.
func resolveCartID(user *api.User) (id string, fallback bool) {
	if user.Cart != nil && user.Cart.ID != 0 {
		return strconv.FormatInt(user.Cart.ID, 10), false
	}
	return strconv.FormatInt(user.ID, 10), true
}
