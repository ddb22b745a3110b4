package shell

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnishop/storefront-go/internal/api"
	"github.com/furnishop/storefront-go/internal/session"
	"github.com/furnishop/storefront-go/internal/stubserver"
)

type fixture struct {
	shell *Shell
	sess  *session.Session
	stub  *stubserver.Server
	out   *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stub := stubserver.New(nil)
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	sess := session.New(store, nil)

	client, err := api.NewClient(srv.URL, srv.Client(), sess)
	require.NoError(t, err)
	users := api.NewUserClient(client)
	carts := api.NewCartClient(client)
	sess.Attach(users, carts)
	require.NoError(t, sess.Initialize(context.Background()))

	out := &bytes.Buffer{}
	sh := New(Deps{
		Session:  sess,
		Auth:     api.NewAuthClient(client),
		Products: api.NewProductClient(client),
		Carts:    carts,
		Orders:   api.NewOrderClient(client),
	}, out)

	return &fixture{shell: sh, sess: sess, stub: stub, out: out}
}

// signUp walks the register/verify pages through shell commands and leaves
// the shell on the login page.
func (f *fixture) signUp(t *testing.T, ctx context.Context, email string) {
	t.Helper()
	f.shell.Navigate(ctx, RouteRegister)
	f.shell.Exec(ctx, "register ann "+email+" secret")
	require.Equal(t, RouteVerify, f.shell.Route())

	code, ok := f.stub.VerificationCode(email)
	require.True(t, ok)
	f.shell.Exec(ctx, "verify "+code)
	require.Equal(t, RouteLogin, f.shell.Route())
}

func (f *fixture) login(t *testing.T, ctx context.Context, email string) {
	t.Helper()
	f.signUp(t, ctx, email)
	f.shell.Exec(ctx, "login "+email+" secret")
	require.Equal(t, RouteHome, f.shell.Route())
	require.True(t, f.sess.Authenticated())
}

func TestResolveGatesRoutes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// logged out: protected routes redirect to login, unknown falls through
	// home and then to login
	assert.Equal(t, RouteLogin, f.shell.Resolve(RouteProducts))
	assert.Equal(t, RouteLogin, f.shell.Resolve(RouteCart))
	assert.Equal(t, RouteLogin, f.shell.Resolve("/nonsense"))
	assert.Equal(t, RouteRegister, f.shell.Resolve(RouteRegister))

	f.login(t, ctx, "ann@example.com")

	// authenticated: auth pages bounce home, unknown goes home
	assert.Equal(t, RouteHome, f.shell.Resolve(RouteLogin))
	assert.Equal(t, RouteHome, f.shell.Resolve(RouteRegister))
	assert.Equal(t, RouteHome, f.shell.Resolve("/nonsense"))
	assert.Equal(t, RouteProducts, f.shell.Resolve(RouteProducts))
}

func TestRegisterVerifyLoginJourney(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.login(t, ctx, "ann@example.com")

	assert.Contains(t, f.out.String(), "Account created!")
	assert.Contains(t, f.out.String(), "Account verified successfully!")
	assert.Contains(t, f.out.String(), "Login successful!")
	_, ok := f.sess.CartID()
	assert.True(t, ok, "cart id must resolve after login")
}

func TestLoginUnverifiedRedirectsToVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.shell.Navigate(ctx, RouteRegister)
	f.shell.Exec(ctx, "register bo bo@example.com pw")
	f.shell.Navigate(ctx, RouteLogin)

	f.shell.Exec(ctx, "login bo@example.com pw")

	assert.Equal(t, RouteVerify, f.shell.Route())
	assert.Contains(t, f.out.String(), "Account not verified")
}

func TestLoginBadCredentialsStaysOnLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.signUp(t, ctx, "ann@example.com")
	f.shell.Exec(ctx, "login ann@example.com wrong-password")

	assert.Equal(t, RouteLogin, f.shell.Route())
	assert.Contains(t, f.out.String(), "Login failed")
	assert.False(t, f.sess.Authenticated())
}

func TestProductsSearchAndAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, ctx, "ann@example.com")

	f.shell.Navigate(ctx, RouteProducts)
	f.out.Reset()
	f.shell.Exec(ctx, "search chair")

	listing := f.out.String()
	assert.Contains(t, listing, "Oslo Lounge Chair")
	assert.NotContains(t, listing, "Aria Sofa")

	f.out.Reset()
	f.shell.Exec(ctx, "category lighting")
	assert.Contains(t, f.out.String(), "No products found")

	f.shell.Exec(ctx, "search")
	f.shell.Exec(ctx, "category all")
	f.out.Reset()
	f.shell.Exec(ctx, "add 1")
	assert.Contains(t, f.out.String(), "Product added to cart!")
	assert.Equal(t, 1, f.sess.ItemCount())
}

func TestCartPageQuantityAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, ctx, "ann@example.com")

	f.shell.Navigate(ctx, RouteProducts)
	f.shell.Exec(ctx, "add 1")
	f.shell.Exec(ctx, "add 1")
	require.Equal(t, 2, f.sess.ItemCount())

	f.shell.Navigate(ctx, RouteCart)
	f.shell.Exec(ctx, "qty 1 5")
	assert.Equal(t, 5, f.sess.ItemCount())

	f.out.Reset()
	f.shell.Exec(ctx, "qty 1 0")
	assert.Equal(t, 0, f.sess.ItemCount())
	assert.Contains(t, f.out.String(), "Your cart is empty")

	f.shell.Exec(ctx, "clear")
	assert.Contains(t, f.out.String(), "Cart cleared")
}

func TestCartDiscountAndCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, ctx, "ann@example.com")

	f.shell.Navigate(ctx, RouteProducts)
	f.shell.Exec(ctx, "add 1")
	f.shell.Navigate(ctx, RouteCart)

	f.out.Reset()
	f.shell.Exec(ctx, "discount percentage 10")
	assert.Contains(t, f.out.String(), "discount applied")

	f.out.Reset()
	f.shell.Exec(ctx, "discount fixed -4")
	assert.Contains(t, f.out.String(), "failed")

	f.out.Reset()
	f.shell.Exec(ctx, "checkout")
	assert.Contains(t, f.out.String(), "coming very soon")
}

func TestLogoutCommand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t, ctx, "ann@example.com")

	quit := f.shell.Exec(ctx, "logout")

	assert.False(t, quit)
	assert.False(t, f.sess.Authenticated())
	assert.Equal(t, RouteLogin, f.shell.Route())
}

func TestQuitCommand(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.shell.Exec(context.Background(), "quit"))
	assert.True(t, f.shell.Exec(context.Background(), "exit"))
	assert.False(t, f.shell.Exec(context.Background(), ""))
}
