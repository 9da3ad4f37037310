package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"subscription-webhook-be/internal/config"
	"subscription-webhook-be/internal/entity"
	"subscription-webhook-be/internal/pkg/cache"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/internal/pkg/serverutils"
	"subscription-webhook-be/internal/repository/memory"
	"subscription-webhook-be/internal/service"
	"subscription-webhook-be/pkg/admin/subscription"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/events"
	"subscription-webhook-be/pkg/razorpay"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	webhookSecret = "whsec_test"
	adminSecret   = "admin_secret"
)

type nopPublisher struct{ published []string }

func (p *nopPublisher) Publish(_ context.Context, evt events.Event) {
	p.published = append(p.published, evt.EventType())
}

type countingLinkClient struct{ calls int }

func (c *countingLinkClient) Configured() bool { return true }

func (c *countingLinkClient) CreatePaymentLink(_ context.Context, req *razorpay.CreatePaymentLinkRequest) (*razorpay.PaymentLink, error) {
	c.calls++
	return &razorpay.PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/x"}, nil
}

type testApp struct {
	app         *fiber.App
	repo        *memory.SubscriptionRepository
	pub         *nopPublisher
	client      *countingLinkClient
	statusCache cache.StatusCache
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.NewNopLogger()
	calendar := billing.NewCalendar(time.UTC)
	repo := memory.NewSubscriptionRepository()
	pub := &nopPublisher{}
	client := &countingLinkClient{}

	reconciler := service.NewSubscriptionReconciler(repo, calendar, pub, log, time.Second)
	webhookService := service.NewWebhookService(webhookSecret, reconciler, memory.NewWebhookEventRepository(), log, time.Second)
	linkService := service.NewPaymentLinkService(client, config.RazorpayConfig{Currency: "INR", CustomerEmailDomain: "example.com"}, time.Second, log)
	statusCache := cache.NewLocalStatusCache(time.Minute)
	statusService := service.NewSubscriptionService(repo, statusCache, calendar, log, time.Second, time.Minute)
	adminService := service.NewAdminService(subscription.NewManager(repo, calendar, log, time.Second), calendar, pub)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewHealthController(repo, time.Second).RegisterRoutes(api)
	NewWebhookController(webhookService).RegisterRoutes(api)
	NewPaymentLinkController(linkService).RegisterRoutes(api)
	NewSubscriptionController(statusService).RegisterRoutes(api)
	NewAdminController(adminService, adminSecret).RegisterRoutes(api)

	return &testApp{app: app, repo: repo, pub: pub, client: client, statusCache: statusCache}
}

func (a *testApp) do(t *testing.T, req *http.Request) (int, map[string]interface{}, http.Header) {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body, resp.Header
}

func webhookRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/razorpay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(razorpay.SignatureHeader, signature)
	}
	return req
}

func TestWebhookEndpoint(t *testing.T) {
	payload := `{"event":"payment_link.paid","created_at":1706695200,"payload":{"payment_link":{"entity":{"id":"plink_1","notes":{"user_id":42,"plan_duration":"yearly"}}}}}`

	t.Run("missing signature", func(t *testing.T) {
		a := newTestApp(t)
		status, body, _ := a.do(t, webhookRequest(payload, ""))
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Unauthorized: invalid signature", body["error"])
	})

	t.Run("bad signature on garbage body is still 401", func(t *testing.T) {
		a := newTestApp(t)
		status, _, _ := a.do(t, webhookRequest("{not json", "deadbeef"))
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("activates subscriber", func(t *testing.T) {
		a := newTestApp(t)
		require.NoError(t, a.repo.Create(context.Background(), &entity.Subscription{UserId: "42", PlanDuration: billing.PlanMonthly}))

		status, body, headers := a.do(t, webhookRequest(payload, razorpay.Sign([]byte(payload), webhookSecret)))
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Webhook processed successfully", body["message"])
		assert.Equal(t, "*", headers.Get("Access-Control-Allow-Origin"))

		sub, _ := a.repo.FindByUserId(context.Background(), "42")
		assert.Equal(t, entity.SubscriptionStatusActive, sub.Status)
		assert.Equal(t, []string{events.SubscriptionActivated}, a.pub.published)
	})

	t.Run("unknown subscriber is acknowledged", func(t *testing.T) {
		a := newTestApp(t)
		status, body, _ := a.do(t, webhookRequest(payload, razorpay.Sign([]byte(payload), webhookSecret)))
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "message")
	})

	t.Run("preflight", func(t *testing.T) {
		a := newTestApp(t)
		req := httptest.NewRequest(http.MethodOptions, "/api/webhooks/razorpay", nil)
		resp, err := a.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "authorization, x-client-info, apikey, content-type", resp.Header.Get("Access-Control-Allow-Headers"))
	})
}

func TestPaymentLinkEndpoint(t *testing.T) {
	t.Run("missing amount", func(t *testing.T) {
		a := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/api/payment-links", strings.NewReader(`{"userId":"u1","planDuration":"monthly"}`))
		status, body, _ := a.do(t, req)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Missing required fields: userId, planDuration, amountRupees", body["error"])
		assert.Equal(t, 0, a.client.calls)
	})

	t.Run("invalid json", func(t *testing.T) {
		a := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/api/payment-links", strings.NewReader(`{"userId":`))
		status, _, _ := a.do(t, req)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("creates link on legacy path", func(t *testing.T) {
		a := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/api/create-razorpay-link", strings.NewReader(`{"userId":7,"planDuration":"monthly","amountRupees":"199"}`))
		req.Header.Set("Content-Type", "text/plain")
		status, body, _ := a.do(t, req)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "https://rzp.io/i/x", body["checkout_url"])
		assert.Equal(t, "plink_1", body["subscription_id"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, 1, a.client.calls)
	})
}

func TestSubscriptionStatusEndpoint(t *testing.T) {
	a := newTestApp(t)

	status, body, _ := a.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions/status?userId=u1", nil))
	assert.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "not_found", data["status"])
	assert.Equal(t, false, data["active"])

	status, _, _ = a.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions/status", nil))
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSubscriptionStatusCacheKeysSurviveLaterRequests(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bobby"} {
		require.NoError(t, a.repo.Create(ctx, &entity.Subscription{UserId: id, PlanDuration: billing.PlanMonthly}))
	}

	status, _, _ := a.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions/alice/status", nil))
	require.Equal(t, http.StatusOK, status)
	status, _, _ = a.do(t, httptest.NewRequest(http.MethodGet, "/api/subscriptions/status?userId=bobby", nil))
	require.Equal(t, http.StatusOK, status)

	alice, ok := a.statusCache.Get(ctx, "alice")
	require.True(t, ok, "alice's entry must still be found under its own key")
	assert.Equal(t, "alice", alice.UserId)

	bobby, ok := a.statusCache.Get(ctx, "bobby")
	require.True(t, ok)
	assert.Equal(t, "bobby", bobby.UserId)
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin-1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(adminSecret))
	require.NoError(t, err)
	return signed
}

func TestAdminEndpoints(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.repo.Create(context.Background(), &entity.Subscription{UserId: "u1", PlanDuration: billing.PlanMonthly}))

	authed := func(method, path, body string, role string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+adminToken(t, role))
		return req
	}

	status, _, _ := a.do(t, httptest.NewRequest(http.MethodPost, "/api/admin/subscriptions/u1/activate", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _, _ = a.do(t, authed(http.MethodPost, "/api/admin/subscriptions/u1/activate", "", "user"))
	assert.Equal(t, http.StatusForbidden, status)

	status, body, _ := a.do(t, authed(http.MethodPost, "/api/admin/subscriptions/u1/activate", "", "admin"))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "active", body["data"].(map[string]interface{})["status"])

	status, _, _ = a.do(t, authed(http.MethodPost, "/api/admin/subscriptions/u1/activate", "", "admin"))
	assert.Equal(t, http.StatusConflict, status)

	status, _, _ = a.do(t, authed(http.MethodPut, "/api/admin/subscriptions/u1/plan", `{"plan_duration":"weekly"}`, "admin"))
	assert.Equal(t, http.StatusBadRequest, status)

	status, body, _ = a.do(t, authed(http.MethodPut, "/api/admin/subscriptions/u1/plan", `{"plan_duration":"yearly"}`, "admin"))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "yearly", body["data"].(map[string]interface{})["plan_duration"])

	status, _, _ = a.do(t, authed(http.MethodPost, "/api/admin/subscriptions/ghost/cancel", "", "admin"))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestApp(t)
	status, body, _ := a.do(t, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}
