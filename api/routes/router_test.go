package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/user941211/delivery-sub004/internal/cart"
	"github.com/user941211/delivery-sub004/internal/domain"
	pkgAuth "github.com/user941211/delivery-sub004/pkg/auth"
	"github.com/user941211/delivery-sub004/pkg/config"
	"github.com/user941211/delivery-sub004/pkg/logger"
	pkgredis "github.com/user941211/delivery-sub004/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCartService struct {
	reorders atomic.Int32
	gets     atomic.Int32
}

func (s *stubCartService) snapshot(customerID uuid.UUID) *cart.Snapshot {
	return &cart.Snapshot{Cart: domain.Cart{ID: uuid.New(), CustomerID: customerID, Items: []domain.Item{}}}
}

func (s *stubCartService) Get(ctx context.Context, customerID uuid.UUID, dest cart.Destination) (*cart.Snapshot, error) {
	s.gets.Add(1)
	return s.snapshot(customerID), nil
}

func (s *stubCartService) AddItem(ctx context.Context, customerID uuid.UUID, input cart.AddItemInput) (*cart.Snapshot, error) {
	return s.snapshot(customerID), nil
}

func (s *stubCartService) UpdateItem(ctx context.Context, customerID, itemID uuid.UUID, input cart.UpdateItemInput) (*cart.Snapshot, error) {
	return s.snapshot(customerID), nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID, dest cart.Destination) (*cart.Snapshot, error) {
	return s.snapshot(customerID), nil
}

func (s *stubCartService) Clear(ctx context.Context, customerID uuid.UUID) error {
	return nil
}

func (s *stubCartService) Reorder(ctx context.Context, customerID uuid.UUID, input cart.ReorderInput) (*cart.ReorderResult, error) {
	s.reorders.Add(1)
	return &cart.ReorderResult{Snapshot: s.snapshot(customerID)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "delivery-test", ExpirationMinutes: 60},
		RateLimit: config.RateLimitConfig{
			CartWindow:        time.Minute,
			CartCustomerLimit: 100,
			CartIPLimit:       100,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) (http.Handler, *stubCartService) {
	t.Helper()
	mr := miniredis.RunT(t)
	raw := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	svc := &stubCartService{}
	return NewRouter(cfg, logger.Nop(), stubPinger{}, pkgredis.NewFromClient(raw), svc, nil), svc
}

func bearer(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{CustomerID: uuid.New()})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthRoutes(t *testing.T) {
	router, _ := newTestRouter(t, testConfig())
	for _, path := range []string{"/health/live", "/health/ready", "/api/public/ping"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCartRoutesRequireAuth(t *testing.T) {
	router, svc := newTestRouter(t, testConfig())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	if svc.gets.Load() != 0 {
		t.Fatal("service should not be reached")
	}
}

func TestCartGetRoute(t *testing.T) {
	cfg := testConfig()
	router, svc := newTestRouter(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", bearer(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header")
	}
	if svc.gets.Load() != 1 {
		t.Fatalf("expected one get, got %d", svc.gets.Load())
	}
}

func TestReorderRouteIsIdempotent(t *testing.T) {
	cfg := testConfig()
	router, svc := newTestRouter(t, cfg)
	auth := bearer(t, cfg)
	body := `{"order_id":"` + uuid.NewString() + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/reorder", strings.NewReader(body))
	req.Header.Set("Authorization", auth)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without idempotency key got %d", resp.Code)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/reorder", strings.NewReader(body))
		req.Header.Set("Authorization", auth)
		req.Header.Set("Idempotency-Key", "reorder-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d: %s", i, resp.Code, resp.Body.String())
		}
	}
	if svc.reorders.Load() != 1 {
		t.Fatalf("expected a single reorder, got %d", svc.reorders.Load())
	}
}

func TestCartMutationsAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.CartCustomerLimit = 1
	router, _ := newTestRouter(t, cfg)
	auth := bearer(t, cfg)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)
		req.Header.Set("Authorization", auth)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}
