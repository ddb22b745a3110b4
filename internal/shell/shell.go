// Package shell is the routing front-end: it gates pages behind the
// session's state, renders the page for the current route, and dispatches
// user commands to the API clients.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/furnishop/storefront-go/internal/api"
	"github.com/furnishop/storefront-go/internal/cart"
	"github.com/furnishop/storefront-go/internal/catalog"
	"github.com/furnishop/storefront-go/internal/session"
)

const (
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteVerify   = "/verify"
	RouteHome     = "/"
	RouteProducts = "/products"
	RouteCart     = "/cart"
)

var publicRoutes = map[string]bool{
	RouteLogin:    true,
	RouteRegister: true,
	RouteVerify:   true,
}

var knownRoutes = map[string]bool{
	RouteLogin:    true,
	RouteRegister: true,
	RouteVerify:   true,
	RouteHome:     true,
	RouteProducts: true,
	RouteCart:     true,
}

type Deps struct {
	Session  *session.Session
	Auth     *api.AuthClient
	Products *api.ProductClient
	Carts    *api.CartClient
	Orders   *api.OrderClient
	Logger   *zap.Logger
}

type Shell struct {
	session  *session.Session
	auth     *api.AuthClient
	products *api.ProductClient
	carts    *api.CartClient
	orders   *api.OrderClient
	logger   *zap.Logger

	out io.Writer

	route string
	// email carried from login/register to the verification page.
	verifyEmail string

	// per-route page state, rebuilt on navigation
	catalog     *catalog.Catalog
	searchQuery string
	category    string
	cartSvc     *cart.Service
}

func New(d Deps, out io.Writer) *Shell {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		session:  d.Session,
		auth:     d.Auth,
		products: d.Products,
		carts:    d.Carts,
		orders:   d.Orders,
		logger:   logger,
		out:      out,
		route:    RouteHome,
		category: catalog.CategoryAll,
	}
}

// Resolve applies the route gating rules: unknown routes fall back to home,
// unauthenticated users land on /login, and authenticated users are bounced
// off the auth pages back to home.
func (sh *Shell) Resolve(route string) string {
	if !knownRoutes[route] {
		route = RouteHome
	}
	authed := sh.session.Authenticated()
	if publicRoutes[route] && authed {
		return RouteHome
	}
	if !publicRoutes[route] && !authed {
		return RouteLogin
	}
	return route
}

func (sh *Shell) Route() string { return sh.route }

// Navigate moves to the gated target route and renders its page.
func (sh *Shell) Navigate(ctx context.Context, route string) {
	sh.route = sh.Resolve(route)
	sh.renderPage(ctx)
}

// Run initializes the session and then reads commands until EOF or quit.
func (sh *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(sh.out, "Loading...")
	if err := sh.session.Initialize(ctx); err != nil {
		sh.logger.Warn("session initialization incomplete", zap.Error(err))
	}
	sh.Navigate(ctx, RouteHome)

	scanner := bufio.NewScanner(in)
	for {
		sh.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if quit := sh.Exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

func (sh *Shell) prompt() {
	if sh.session.Authenticated() {
		fmt.Fprintf(sh.out, "[%s | cart: %d] > ", sh.route, sh.session.ItemCount())
		return
	}
	fmt.Fprintf(sh.out, "[%s] > ", sh.route)
}

// Exec handles one line of input. It returns true when the user asked to
// quit.
func (sh *Shell) Exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch {
	case cmd == "quit" || cmd == "exit":
		return true
	case cmd == "logout":
		sh.session.Logout()
		fmt.Fprintln(sh.out, "Logged out.")
		sh.Navigate(ctx, RouteLogin)
		return false
	case cmd == "go" && len(args) == 1:
		sh.Navigate(ctx, args[0])
		return false
	case strings.HasPrefix(cmd, "/"):
		sh.Navigate(ctx, cmd)
		return false
	}

	sh.execPage(ctx, cmd, args)
	return false
}

// fail reports a request failure. Authorization failures force a logout and
// a redirect to the login page; everything else is shown inline and the
// user decides what to do next. There is no automatic retry anywhere.
func (sh *Shell) fail(ctx context.Context, action string, err error) {
	if api.IsUnauthorized(err) {
		fmt.Fprintln(sh.out, "Session expired. Please log in again.")
		sh.session.Logout()
		sh.Navigate(ctx, RouteLogin)
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		fmt.Fprintf(sh.out, "%s failed: %s\n", action, apiErr.Message)
		return
	}
	fmt.Fprintf(sh.out, "%s failed: %v\n", action, err)
}
