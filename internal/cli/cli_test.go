package cli

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/storefront/internal/api"
	"github.com/99minutos/storefront/internal/pkg/config"
	"github.com/99minutos/storefront/internal/sandbox"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

// harness runs shopctl commands against a seeded sandbox with a session
// file that survives between invocations.
type harness struct {
	t           *testing.T
	apiURL      string
	sessionPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := sandbox.NewStore(sandbox.WithHashCost(bcrypt.MinCost))
	require.NoError(t, sandbox.Seed(store, adminEmail, adminPassword))
	srv := httptest.NewServer(api.NewRouter(store, "cli-secret", zerolog.Nop()))
	t.Cleanup(srv.Close)

	return &harness{
		t:           t,
		apiURL:      srv.URL + api.BasePath,
		sessionPath: filepath.Join(t.TempDir(), "session.json"),
	}
}

type result struct {
	out string
	err string
	run error
}

func (h *harness) run(args ...string) result {
	h.t.Helper()
	cfg := &config.Config{
		APIURL:   h.apiURL,
		LogLevel: "disabled",
		Storage:  config.StorageConfig{Backend: config.StorageFile, Path: h.sessionPath},
	}
	root := NewRootCommand(WithConfig(cfg), WithLogger(zerolog.Nop()))

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--color", ColorNever}, args...))
	err := root.Execute()
	return result{out: out.String(), err: errOut.String(), run: err}
}

func (h *harness) ok(args ...string) string {
	h.t.Helper()
	r := h.run(args...)
	require.NoError(h.t, r.run, "shopctl %s\nstdout: %s\nstderr: %s", strings.Join(args, " "), r.out, r.err)
	return r.out
}

func (h *harness) loginAdmin() {
	h.t.Helper()
	h.ok("login", "--email", adminEmail, "--password", adminPassword)
}

func (h *harness) loginCustomer() {
	h.t.Helper()
	h.ok("register", "--name", "Jane Doe", "--email", "jane@example.com", "--password", "secret1")
	h.ok("login", "--email", "jane@example.com", "--password", "secret1")
}

var checkoutArgs = []string{
	"checkout",
	"--full-name", "Jane Doe",
	"--address-line1", "1 Main St",
	"--city", "Springfield",
	"--state", "IL",
	"--postal-code", "62701",
	"--country", "US",
	"--payment", "card",
}

func TestRootCommand_HelpListsCommands(t *testing.T) {
	root := NewRootCommand(WithConfig(&config.Config{}), WithLogger(zerolog.Nop()))
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	for _, name := range []string{"login", "products", "cart", "checkout", "orders", "wishlist", "admin", "sandbox", "doctor"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestRootCommand_RejectsUnknownColorMode(t *testing.T) {
	root := NewRootCommand(WithConfig(&config.Config{}), WithLogger(zerolog.Nop()))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--color", "rainbow", "whoami"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid color mode")
}

func TestRootCommand_RejectsUnknownLogLevel(t *testing.T) {
	root := NewRootCommand(WithConfig(&config.Config{}), WithLogger(zerolog.Nop()))
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"--log-level", "verbose", "whoami"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "verbose"`)
}

func TestLogin_SessionSurvivesBetweenCommands(t *testing.T) {
	h := newHarness(t)

	out := h.ok("whoami")
	assert.Contains(t, out, "Not signed in")

	out = h.ok("login", "--email", adminEmail, "--password", adminPassword)
	assert.Contains(t, out, "[OK] Signed in as")

	out = h.ok("whoami")
	assert.Contains(t, out, adminEmail)
	assert.Contains(t, out, "ROLE_ADMIN")

	h.ok("logout")
	out = h.ok("whoami")
	assert.Contains(t, out, "Not signed in")
}

func TestLogin_ShowsServerMessage(t *testing.T) {
	h := newHarness(t)

	r := h.run("login", "--email", adminEmail, "--password", "wrong-password")
	require.Error(t, r.run)
	assert.True(t, IsReported(r.run))
	assert.Contains(t, r.err, "[ERROR] Invalid email or password")
}

func TestRegister_ValidatesLocally(t *testing.T) {
	h := newHarness(t)

	r := h.run("register", "--name", "Jane", "--email", "jane@example.com", "--password", "12345")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "password must be at least 6 characters")

	out := h.ok("register", "--name", "Jane", "--email", "jane@example.com", "--password", "123456")
	assert.Contains(t, out, "Registration successful")

	r = h.run("register", "--name", "Jane", "--email", "jane@example.com", "--password", "123456")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Email is already in use")
}

func TestCart_RequiresSignIn(t *testing.T) {
	h := newHarness(t)

	r := h.run("cart", "add", "1")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Please login to add items to cart")

	r = h.run("cart", "show")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "not signed in")
}

func TestCart_RejectsZeroQuantityLocally(t *testing.T) {
	h := newHarness(t)
	h.loginCustomer()

	r := h.run("cart", "add", "1", "--quantity", "0")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "quantity must be at least 1")
}

func TestCheckoutFlow(t *testing.T) {
	h := newHarness(t)
	h.loginCustomer()

	h.ok("cart", "add", "1", "--quantity", "2")
	out := h.ok("cart", "add", "1")
	assert.Contains(t, out, "Premium Smartphone")
	assert.Contains(t, out, "3 items, total $2999.97")

	out = h.ok(checkoutArgs...)
	assert.Contains(t, out, "[OK] Order placed successfully!")
	assert.Contains(t, out, "Order #1")
	assert.Contains(t, out, "PENDING")

	out = h.ok("cart", "show")
	assert.Contains(t, out, "Your cart is empty")

	r := h.run(checkoutArgs...)
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Your cart is empty")

	out = h.ok("orders", "cancel", "1")
	assert.Contains(t, out, "CANCELLED")

	out = h.ok("orders", "list")
	assert.Contains(t, out, "No orders found")
	assert.Contains(t, out, "1 cancelled orders hidden")

	out = h.ok("orders", "list", "--show-cancelled")
	assert.Contains(t, out, "CANCELLED")

	r = h.run("orders", "cancel", "1")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Only pending orders can be cancelled")
}

func TestCheckout_ValidatesForm(t *testing.T) {
	h := newHarness(t)
	h.loginCustomer()
	h.ok("cart", "add", "3")

	r := h.run("checkout", "--full-name", "Jane Doe")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "is required")

	out := h.ok("cart", "show")
	assert.Contains(t, out, "Classic White T-Shirt")
}

func TestProducts_LocalFilters(t *testing.T) {
	h := newHarness(t)

	out := h.ok("products", "list", "--category", "Fashion")
	assert.Contains(t, out, "Classic White T-Shirt")
	assert.NotContains(t, out, "Ultra Slim Laptop")

	out = h.ok("products", "list", "--sort", "price-desc")
	assert.Less(t, strings.Index(out, "Ultra Slim Laptop"), strings.Index(out, "Premium Smartphone"))

	out = h.ok("products", "list", "--search", "LAPTOP", "--max-price", "2000")
	assert.Contains(t, out, "Ultra Slim Laptop")
	assert.NotContains(t, out, "Premium Smartphone")

	r := h.run("products", "list", "--sort", "cheapest")
	require.Error(t, r.run)
	assert.Contains(t, r.run.Error(), "invalid sort")
}

func TestProducts_ShowSearchAndCategories(t *testing.T) {
	h := newHarness(t)

	out := h.ok("products", "show", "2")
	assert.Contains(t, out, "Ultra Slim Laptop")
	assert.Contains(t, out, "$1299.00")

	r := h.run("products", "show", "99")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Product not found")

	out = h.ok("products", "search", "shirt")
	assert.Contains(t, out, "Classic White T-Shirt")

	out = h.ok("products", "search", "nothing-like-this")
	assert.Contains(t, out, "No products match")

	out = h.ok("categories")
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "Fashion")
}

func TestProducts_FeaturedPadsWithSamples(t *testing.T) {
	h := newHarness(t)

	out := h.ok("products", "featured", "--count", "5")
	assert.Contains(t, out, "Premium Smartphone")
	assert.Contains(t, out, "(sample)")
}

func TestAdmin_GuardRedirects(t *testing.T) {
	h := newHarness(t)

	r := h.run("admin", "stats")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "requires signing in")

	h.loginCustomer()
	r = h.run("admin", "orders", "list")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "administrator role required")
}

func TestAdmin_OrdersAndStats(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()
	h.ok("cart", "add", "3", "--quantity", "2")
	h.ok(checkoutArgs...)

	out := h.ok("admin", "orders", "status", "1", "shipped")
	assert.Contains(t, out, "[OK] Order status updated!")
	assert.Contains(t, out, "SHIPPED")

	r := h.run("admin", "orders", "status", "1", "cancelled")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "cannot be set directly")

	out = h.ok("admin", "orders", "list", "--status", "delivered")
	assert.Contains(t, out, "No orders found")

	out = h.ok("admin", "stats")
	assert.Contains(t, out, "products:     3")
	assert.Contains(t, out, "orders:       1")
	assert.Contains(t, out, "revenue:      $59.98")

	h.ok("admin", "orders", "cancel", "1")
	r = h.run("admin", "orders", "cancel", "1")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Order is already cancelled")

	out = h.ok("admin", "stats")
	assert.Contains(t, out, "revenue:      $0.00")
}

func TestAdmin_ProductLifecycle(t *testing.T) {
	h := newHarness(t)
	h.loginAdmin()

	r := h.run("admin", "products", "create", "--name", "Desk Lamp")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Please fill in all fields")

	out := h.ok("admin", "products", "create",
		"--name", "Desk Lamp",
		"--description", "LED lamp",
		"--price", "19.5",
		"--stock", "0",
		"--category", "1",
		"--image-url", "https://example.com/lamp.png")
	assert.Contains(t, out, "Product added successfully!")
	assert.Contains(t, out, "out of stock")

	r = h.run("admin", "products", "update", "4",
		"--name", "Desk Lamp",
		"--description", "LED lamp",
		"--price", "-1",
		"--stock", "3",
		"--category", "1",
		"--image-url", "https://example.com/lamp.png")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "Price must be greater than 0")

	out = h.ok("admin", "products", "delete", "4")
	assert.Contains(t, out, "Product deleted successfully!")

	r = h.run("products", "show", "4")
	require.Error(t, r.run)
}

func TestWishlistAndAddresses(t *testing.T) {
	h := newHarness(t)
	h.loginCustomer()

	out := h.ok("wishlist", "add", "2")
	assert.Contains(t, out, "Added to wishlist")
	assert.Contains(t, out, "Ultra Slim Laptop")

	out = h.ok("wishlist", "remove", "1")
	assert.Contains(t, out, "Your wishlist is empty")

	r := h.run("addresses", "add", "--street", "1 Main St")
	require.Error(t, r.run)
	assert.Contains(t, r.err, "is required")

	out = h.ok("addresses", "add",
		"--street", "1 Main St",
		"--city", "Springfield",
		"--state", "IL",
		"--pincode", "62701",
		"--country", "US",
		"--default")
	assert.Contains(t, out, "Address saved")

	out = h.ok("profile")
	assert.Contains(t, out, "jane@example.com")
	assert.Contains(t, out, "Springfield")
}

func TestDoctor(t *testing.T) {
	h := newHarness(t)

	out := h.ok("doctor")
	assert.Contains(t, out, "storage:file")
	assert.Contains(t, out, "Status: ok")

	h.apiURL = "http://127.0.0.1:1/api"
	r := h.run("doctor", "--json")
	require.Error(t, r.run)
	assert.Contains(t, r.out, `"status": "degraded"`)
	assert.Contains(t, r.out, `"api"`)
}
