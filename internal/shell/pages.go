package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/furnishop/storefront-go/internal/api"
	"github.com/furnishop/storefront-go/internal/cart"
	"github.com/furnishop/storefront-go/internal/catalog"
	"github.com/furnishop/storefront-go/internal/session"
)

func (sh *Shell) renderPage(ctx context.Context) {
	switch sh.route {
	case RouteLogin:
		fmt.Fprintln(sh.out, "-- Sign in --")
		fmt.Fprintln(sh.out, "Commands: login <email> <password> | /register | /verify")
	case RouteRegister:
		fmt.Fprintln(sh.out, "-- Create your account --")
		fmt.Fprintln(sh.out, "Commands: register <username> <email> <password> | /login")
	case RouteVerify:
		fmt.Fprintln(sh.out, "-- Verify your email --")
		fmt.Fprintln(sh.out, "Commands: verify [email] <code> | resend [email] | /login")
	case RouteHome:
		sh.renderHome()
	case RouteProducts:
		sh.openProducts(ctx)
	case RouteCart:
		sh.openCart(ctx)
	}
}

func (sh *Shell) renderHome() {
	if sh.session.Status() == session.StatusAuthenticatedNoCart {
		fmt.Fprintln(sh.out, "Loading cart...")
		return
	}
	name := ""
	if u := sh.session.User(); u != nil {
		name = u.Username
	}
	fmt.Fprintf(sh.out, "Welcome back, %s. Your cart holds %d item(s).\n", name, sh.session.ItemCount())
	fmt.Fprintln(sh.out, "Commands: orders | /products | /cart | logout | quit")
}

func (sh *Shell) openProducts(ctx context.Context) {
	sh.catalog = catalog.New(sh.products)
	sh.searchQuery = ""
	sh.category = catalog.CategoryAll
	if err := sh.catalog.Load(ctx); err != nil {
		sh.fail(ctx, "Loading products", err)
		return
	}
	fmt.Fprintln(sh.out, "-- Our Collection --")
	fmt.Fprintf(sh.out, "Categories: %s\n", strings.Join(catalog.Categories, ", "))
	fmt.Fprintln(sh.out, "Commands: list | search [text] | category <name> | add <productId>")
	sh.renderProducts()
}

func (sh *Shell) renderProducts() {
	view := sh.catalog.View(sh.searchQuery, sh.category)
	if len(view) == 0 {
		fmt.Fprintln(sh.out, "No products found")
		return
	}
	for _, p := range view {
		fmt.Fprintf(sh.out, "  [%d] %-24s $%.2f  (%s)\n", p.ID, p.Name, p.Price, p.Category)
	}
}

func (sh *Shell) openCart(ctx context.Context) {
	cartID, ok := sh.session.CartID()
	if !ok {
		fmt.Fprintln(sh.out, "Loading cart...")
		return
	}
	sh.cartSvc = cart.NewService(sh.carts, cartID, sh.logger)
	if _, err := sh.cartSvc.Refresh(ctx); err != nil {
		sh.fail(ctx, "Loading cart", err)
		return
	}
	fmt.Fprintln(sh.out, "-- Shopping Cart --")
	fmt.Fprintln(sh.out, "Commands: list | remove <productId> | qty <productId> <n> | clear | calculate | discount <percentage|fixed> <value> | checkout")
	sh.renderCart()
}

func (sh *Shell) renderCart() {
	rows := sh.cartSvc.Rows()
	if len(rows) == 0 {
		fmt.Fprintln(sh.out, "Your cart is empty")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(sh.out, "  [%d] %-24s x%d  $%.2f\n", r.ID, r.Name, r.Quantity, r.Price*float64(r.Quantity))
	}
	fmt.Fprintf(sh.out, "Subtotal (%d items): $%.2f\n", cart.ItemCount(rows), sh.cartSvc.Subtotal())
	if s := sh.cartSvc.Summary(); s != nil {
		sh.renderSummary(s)
	}
}

func (sh *Shell) renderSummary(s *api.PriceSummary) {
	fmt.Fprintf(sh.out, "Original: $%.2f  Discount: $%.2f  Total: $%.2f\n", s.OriginalPrice, s.Discount, s.FinalPrice)
	if s.Message != "" {
		fmt.Fprintln(sh.out, s.Message)
	}
}

func (sh *Shell) execPage(ctx context.Context, cmd string, args []string) {
	switch sh.route {
	case RouteLogin:
		sh.execLogin(ctx, cmd, args)
	case RouteRegister:
		sh.execRegister(ctx, cmd, args)
	case RouteVerify:
		sh.execVerify(ctx, cmd, args)
	case RouteHome:
		sh.execHome(ctx, cmd, args)
	case RouteProducts:
		sh.execProducts(ctx, cmd, args)
	case RouteCart:
		sh.execCart(ctx, cmd, args)
	}
}

func (sh *Shell) execLogin(ctx context.Context, cmd string, args []string) {
	if cmd != "login" || len(args) != 2 {
		fmt.Fprintln(sh.out, "Usage: login <email> <password>")
		return
	}
	email, password := args[0], args[1]

	token, err := sh.auth.Login(ctx, email, password)
	if err != nil {
		msg := err.Error()
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		if strings.Contains(msg, "not verified") || strings.Contains(msg, "verify") {
			fmt.Fprintln(sh.out, "Account not verified. Please check your email for verification code.")
			sh.verifyEmail = email
			sh.route = RouteVerify
			sh.renderPage(ctx)
			return
		}
		fmt.Fprintf(sh.out, "Login failed: %s\n", msg)
		return
	}

	if err := sh.session.Login(ctx, token); err != nil {
		sh.fail(ctx, "Login", err)
		return
	}
	sh.logger.Info("login successful")
	fmt.Fprintln(sh.out, "Login successful! Redirecting...")
	sh.Navigate(ctx, RouteHome)
}

func (sh *Shell) execRegister(ctx context.Context, cmd string, args []string) {
	if cmd != "register" || len(args) != 3 {
		fmt.Fprintln(sh.out, "Usage: register <username> <email> <password>")
		return
	}
	req := api.RegisterRequest{Username: args[0], Email: args[1], Password: args[2]}
	if err := sh.auth.Register(ctx, req); err != nil {
		sh.fail(ctx, "Registration", err)
		return
	}
	fmt.Fprintln(sh.out, "Account created! Check your email for verification code.")
	sh.verifyEmail = req.Email
	sh.route = RouteVerify
	sh.renderPage(ctx)
}

func (sh *Shell) execVerify(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "verify":
		email, code := sh.verifyEmail, ""
		switch len(args) {
		case 1:
			code = args[0]
		case 2:
			email, code = args[0], args[1]
		default:
			fmt.Fprintln(sh.out, "Usage: verify [email] <code>")
			return
		}
		if email == "" {
			fmt.Fprintln(sh.out, "Please provide your email: verify <email> <code>")
			return
		}
		if err := sh.auth.Verify(ctx, email, code); err != nil {
			sh.fail(ctx, "Verification", err)
			return
		}
		fmt.Fprintln(sh.out, "Account verified successfully! Please login.")
		sh.route = RouteLogin
		sh.renderPage(ctx)
	case "resend":
		email := sh.verifyEmail
		if len(args) == 1 {
			email = args[0]
		}
		if email == "" {
			fmt.Fprintln(sh.out, "Please enter your email first: resend <email>")
			return
		}
		if err := sh.auth.Resend(ctx, email); err != nil {
			sh.fail(ctx, "Resend", err)
			return
		}
		fmt.Fprintln(sh.out, "Verification code resent! Check your email.")
	default:
		fmt.Fprintln(sh.out, "Commands: verify [email] <code> | resend [email]")
	}
}

func (sh *Shell) execHome(ctx context.Context, cmd string, args []string) {
	if cmd != "orders" {
		fmt.Fprintln(sh.out, "Commands: orders | /products | /cart | logout | quit")
		return
	}
	orders, err := sh.orders.FindAll(ctx)
	if err != nil {
		sh.fail(ctx, "Loading orders", err)
		return
	}
	if len(orders) == 0 {
		fmt.Fprintln(sh.out, "No orders yet")
		return
	}
	for _, o := range orders {
		fmt.Fprintf(sh.out, "  order %d: %d item(s), $%.2f\n", o.ID, len(o.Products), o.Total)
	}
}

func (sh *Shell) execProducts(ctx context.Context, cmd string, args []string) {
	if sh.catalog == nil {
		sh.openProducts(ctx)
		if sh.catalog == nil {
			return
		}
	}
	switch cmd {
	case "list":
		sh.renderProducts()
	case "search":
		sh.searchQuery = strings.Join(args, " ")
		sh.renderProducts()
	case "category":
		if len(args) != 1 {
			fmt.Fprintf(sh.out, "Categories: %s\n", strings.Join(catalog.Categories, ", "))
			return
		}
		sh.category = strings.ToLower(args[0])
		sh.renderProducts()
	case "add":
		id, err := parseID(args)
		if err != nil {
			fmt.Fprintln(sh.out, "Usage: add <productId>")
			return
		}
		cartID, ok := sh.session.CartID()
		if !ok {
			fmt.Fprintln(sh.out, "Cart not initialized. Please try again later.")
			return
		}
		if err := sh.carts.Add(ctx, cartID, id); err != nil {
			sh.fail(ctx, "Adding to cart", err)
			return
		}
		sh.session.RefreshCartCount(ctx)
		fmt.Fprintln(sh.out, "Product added to cart!")
	default:
		fmt.Fprintln(sh.out, "Commands: list | search [text] | category <name> | add <productId>")
	}
}

func (sh *Shell) execCart(ctx context.Context, cmd string, args []string) {
	if sh.cartSvc == nil {
		sh.openCart(ctx)
		if sh.cartSvc == nil {
			return
		}
	}
	switch cmd {
	case "list":
		if _, err := sh.cartSvc.Refresh(ctx); err != nil {
			sh.fail(ctx, "Loading cart", err)
			return
		}
		sh.renderCart()
	case "remove":
		id, err := parseID(args)
		if err != nil {
			fmt.Fprintln(sh.out, "Usage: remove <productId>")
			return
		}
		if err := sh.cartSvc.Remove(ctx, id); err != nil {
			sh.fail(ctx, "Removing item", err)
			return
		}
		sh.session.RefreshCartCount(ctx)
		sh.renderCart()
	case "qty":
		if len(args) != 2 {
			fmt.Fprintln(sh.out, "Usage: qty <productId> <quantity>")
			return
		}
		id, err1 := strconv.ParseInt(args[0], 10, 64)
		n, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			fmt.Fprintln(sh.out, "Usage: qty <productId> <quantity>")
			return
		}
		if err := sh.cartSvc.SetQuantity(ctx, id, n); err != nil {
			sh.fail(ctx, "Updating quantity", err)
			return
		}
		sh.session.RefreshCartCount(ctx)
		sh.renderCart()
	case "clear":
		if err := sh.cartSvc.Clear(ctx); err != nil {
			sh.fail(ctx, "Clearing cart", err)
			return
		}
		sh.session.RefreshCartCount(ctx)
		fmt.Fprintln(sh.out, "Cart cleared")
	case "calculate":
		summary, err := sh.cartSvc.Calculate(ctx)
		if err != nil {
			sh.fail(ctx, "Calculating total", err)
			return
		}
		sh.renderSummary(summary)
	case "discount":
		if len(args) != 2 {
			fmt.Fprintln(sh.out, "Usage: discount <percentage|fixed> <value>")
			return
		}
		kind, ok := parseDiscountKind(args[0])
		if !ok {
			fmt.Fprintln(sh.out, "Usage: discount <percentage|fixed> <value>")
			return
		}
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			fmt.Fprintln(sh.out, "Usage: discount <percentage|fixed> <value>")
			return
		}
		summary, err := sh.cartSvc.ApplyDiscount(ctx, kind, value)
		if err != nil {
			sh.fail(ctx, "Applying discount", err)
			return
		}
		sh.renderSummary(summary)
	case "checkout":
		fmt.Fprintln(sh.out, "Sorry, we haven't set up the checkout process yet. This feature is coming very soon!")
	default:
		fmt.Fprintln(sh.out, "Commands: list | remove <productId> | qty <productId> <n> | clear | calculate | discount <percentage|fixed> <value> | checkout")
	}
}

func parseDiscountKind(s string) (api.DiscountKind, bool) {
	switch strings.ToLower(s) {
	case "percentage":
		return api.DiscountPercentage, true
	case "fixed":
		return api.DiscountFixed, true
	default:
		return "", false
	}
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(args[0], 10, 64)
}
