package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/internal/middleware"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/notify"
	"github.com/mmynk/tabie/internal/receipt"
	"github.com/mmynk/tabie/internal/storage/sqlite"
	"github.com/mmynk/tabie/pkg/api"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
)

// testUserHeader names the user a test request runs as. Requests without it
// are anonymous, like a guest opening a shared link.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the user named
// by testUserHeader in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

// as builds a request made by userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

type fakeImages struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func (f *fakeImages) Upload(_ context.Context, tabID string, image []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.uploads == nil {
		f.uploads = make(map[string][]byte)
	}
	f.uploads[tabID] = image
	return "https://images.test/receipts/" + tabID + ".jpg", nil
}

func (f *fakeImages) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeImages) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

// countingExtractor serves the sample receipt and counts scans.
type countingExtractor struct {
	receipt.MockExtractor

	mu    sync.Mutex
	calls int
}

func (c *countingExtractor) Extract(ctx context.Context, image []byte, filename string) (*receipt.Receipt, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.MockExtractor.Extract(ctx, image, filename)
}

func (c *countingExtractor) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type sentMessage struct {
	To   string
	Body string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{To: to, Body: body})
	return fmt.Sprintf("SM%03d", len(f.sent)), nil
}

func (f *fakeSender) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSender) messages() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentMessage(nil), f.sent...)
}

// testEnv is a running server backed by a temp SQLite database, with a
// registered organizer.
type testEnv struct {
	store     *sqlite.SQLiteStore
	tabs      *apiconnect.TabServiceClient
	receipts  *apiconnect.ReceiptServiceClient
	notify    *apiconnect.NotifyServiceClient
	extractor *countingExtractor
	images    *fakeImages
	sender    *fakeSender
	alice     *models.User
}

// setupTestServer creates a test server with every tab-facing service.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	// Create temp database
	tmpFile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	alice := models.NewUser("alice@example.com", "Alice", "unused-hash")
	if err := store.CreateUser(context.Background(), alice); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	accounts := models.PaymentAccounts{Venmo: "alice-eats"}
	if err := store.UpdatePaymentAccounts(context.Background(), alice.ID, accounts); err != nil {
		t.Fatalf("failed to set payment accounts: %v", err)
	}

	env := &testEnv{
		store:     store,
		extractor: &countingExtractor{},
		images:    &fakeImages{},
		sender:    &fakeSender{},
		alice:     alice,
	}

	interceptors := connect.WithInterceptors(testAuthInterceptor(), middleware.NewValidationInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewTabServiceHandler(NewTabService(store, store, store), interceptors))
	mux.Handle(apiconnect.NewReceiptServiceHandler(NewReceiptService(env.extractor, env.images, store), interceptors))
	mux.Handle(apiconnect.NewNotifyServiceHandler(
		NewNotifyService(env.sender, notify.Links{BaseURL: "https://tabie.test"}, store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	env.tabs = apiconnect.NewTabServiceClient(http.DefaultClient, server.URL)
	env.receipts = apiconnect.NewReceiptServiceClient(http.DefaultClient, server.URL)
	env.notify = apiconnect.NewNotifyServiceClient(http.DefaultClient, server.URL)
	return env
}

// createTab creates a tab as alice.
func (e *testEnv) createTab(t *testing.T, msg *api.CreateTabRequest) *models.Tab {
	t.Helper()
	resp, err := e.tabs.CreateTab(context.Background(), as(e.alice.ID, msg))
	if err != nil {
		t.Fatalf("CreateTab failed: %v", err)
	}
	return resp.Msg.Tab
}

// openTab creates and publishes a tab, then joins the named guests. It
// returns the tab and the guests' person IDs in order.
func (e *testEnv) openTab(t *testing.T, msg *api.CreateTabRequest, guests ...string) (*models.Tab, []string) {
	t.Helper()
	ctx := context.Background()
	tab := e.createTab(t, msg)

	if _, err := e.tabs.PublishTab(ctx, as(e.alice.ID, &api.PublishTabRequest{TabID: tab.ID})); err != nil {
		t.Fatalf("PublishTab failed: %v", err)
	}

	ids := make([]string, len(guests))
	for i, name := range guests {
		resp, err := e.tabs.JoinTab(ctx, connect.NewRequest(&api.JoinTabRequest{TabID: tab.ID, Name: name}))
		if err != nil {
			t.Fatalf("JoinTab(%s) failed: %v", name, err)
		}
		ids[i] = resp.Msg.PersonID
		tab = resp.Msg.Tab
	}
	return tab, ids
}

func personTotal(totals *api.Totals, personID string) *api.PersonTotal {
	for i := range totals.People {
		if totals.People[i].PersonID == personID {
			return &totals.People[i]
		}
	}
	return nil
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Fatalf("expected code %v, got %v (%v)", want, connectErr.Code(), err)
	}
}
