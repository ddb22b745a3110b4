// Package stubserver is an in-memory stand-in for the remote storefront
// API, covering the full REST surface the client consumes. It exists for
// local development and integration tests; nothing in it persists.
package stubserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/furnishop/storefront-go/internal/api"
)

type Server struct {
	store  *store
	logger *zap.Logger
}

func New(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: newStore(), logger: logger}
}

// VerificationCode returns the pending code for an account, standing in for
// the verification email.
func (s *Server) VerificationCode(email string) (string, bool) {
	return s.store.verificationCode(email)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signup)
		r.Post("/login", s.login)
		r.Post("/verify", s.verify)
		r.Post("/resend", s.resend)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireBearer)

		r.Get("/users/me", s.me)

		r.Route("/api/product", func(r chi.Router) {
			r.Get("/allProducts", s.allProducts)
			r.Get("/product/{id}", s.productByID)
			r.Post("/addProduct", s.addProduct)
			r.Put("/updateProduct", s.updateProduct)
			r.Delete("/deleteProduct", s.deleteProduct)
			r.Post("/createCustom", s.addProduct)
		})

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/showCart/{cartId}", s.showCart)
			r.Post("/addToCart/{cartId}/{productId}", s.addToCart)
			r.Delete("/removeFromCart/{cartId}/{productId}", s.removeFromCart)
			r.Delete("/clearCart/{cartId}", s.clearCart)
			r.Get("/calculate/{cartId}", s.calculate)
			r.Post("/applyDiscount/{cartId}", s.applyDiscount)
		})

		r.Route("/api/order", func(r chi.Router) {
			r.Post("/save", s.saveOrder)
			r.Get("/findById", s.orderByID)
			r.Get("/findAll", s.allOrders)
		})
	})

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := s.store.userByToken(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	acc, err := s.store.signup(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Info("signup",
		zap.String("email", req.Email),
		zap.String("verification_code", acc.code))
	writeJSON(w, http.StatusCreated, map[string]string{"message": "verification code sent"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, err := s.store.login(req.Email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "not verified") {
			writeError(w, http.StatusForbidden, "Account not verified. Please verify your email.")
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email            string `json:"email"`
		VerificationCode string `json:"verificationCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.store.verify(req.Email, req.VerificationCode); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid verification code")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account verified"})
}

func (s *Server) resend(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	code, err := s.store.resend(email)
	if err != nil {
		writeError(w, http.StatusNotFound, "no account for email")
		return
	}
	s.logger.Info("resend", zap.String("email", email), zap.String("verification_code", code))
	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code resent"})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	acc, err := s.store.userByToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, acc.User)
}

func (s *Server) allProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.allProducts())
}

func (s *Server) productByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p, err := s.store.productByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) addProduct(w http.ResponseWriter, r *http.Request) {
	var p api.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.addProduct(p))
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p api.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	updated, err := s.store.updateProduct(p)
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.store.deleteProduct(id); err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) showCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	units, err := s.store.showCart(cartID)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, units)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.store.addToCart(cartID, productID); err != nil {
		writeError(w, http.StatusNotFound, "cart or product not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "added"})
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.store.removeFromCart(cartID, productID); err != nil {
		writeError(w, http.StatusNotFound, "item not in cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed"})
}

func (s *Server) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	if err := s.store.clearCart(cartID); err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cleared"})
}

func (s *Server) calculate(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	summary, err := s.store.calculate(cartID)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) applyDiscount(w http.ResponseWriter, r *http.Request) {
	cartID, ok := cartIDParam(w, r)
	if !ok {
		return
	}
	var req api.DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Value <= 0 {
		writeError(w, http.StatusBadRequest, "discount value must be positive")
		return
	}
	summary, err := s.store.applyDiscount(cartID, req)
	if err != nil {
		writeError(w, http.StatusNotFound, "cart not found")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) saveOrder(w http.ResponseWriter, r *http.Request) {
	var o api.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.saveOrder(o))
}

func (s *Server) orderByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := s.store.orderByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) allOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.allOrders())
}

func cartIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "cartId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid cart id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
