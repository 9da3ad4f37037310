package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"subscription-webhook-be/internal/config"
	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/pkg/razorpay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLinkClient struct {
	configured bool
	calls      []*razorpay.CreatePaymentLinkRequest
	link       *razorpay.PaymentLink
	err        error
	block      bool
}

func (c *fakeLinkClient) Configured() bool { return c.configured }

func (c *fakeLinkClient) CreatePaymentLink(ctx context.Context, req *razorpay.CreatePaymentLinkRequest) (*razorpay.PaymentLink, error) {
	c.calls = append(c.calls, req)
	if c.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return c.link, c.err
}

var testRazorpayConfig = config.RazorpayConfig{
	Currency:              "INR",
	CustomerEmailDomain:   "subscribers.example.com",
	LinkDescriptionPrefix: "Mahal",
}

func newLinkService(client *fakeLinkClient, timeout time.Duration) IPaymentLinkService {
	return NewPaymentLinkService(client, testRazorpayConfig, timeout, logger.NewNopLogger())
}

func TestCreateLinkBuildsRequest(t *testing.T) {
	client := &fakeLinkClient{configured: true, link: &razorpay.PaymentLink{ID: "plink_1", ShortURL: "https://rzp.io/i/abc"}}
	svc := newLinkService(client, time.Second)

	res, err := svc.CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{
		UserId:       "u1",
		PlanDuration: "Yearly",
		AmountRupees: json.Number("499.995"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://rzp.io/i/abc", res.CheckoutURL)
	assert.Equal(t, "plink_1", res.SubscriptionId)
	assert.Equal(t, "pending", res.Status)

	require.Len(t, client.calls, 1)
	req := client.calls[0]
	assert.Equal(t, int64(50000), req.Amount)
	assert.Equal(t, "INR", req.Currency)
	assert.False(t, req.AcceptPartial)
	assert.Equal(t, "Mahal Subscription - Yearly", req.Description)
	assert.Equal(t, "u1@subscribers.example.com", req.Customer.Email)
	assert.True(t, req.Notify.Email)
	assert.False(t, req.Notify.SMS)
	assert.True(t, req.ReminderEnable)
	assert.Equal(t, map[string]string{"user_id": "u1", "plan_duration": "yearly"}, req.Notes)
}

func TestCreateLinkValidation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreatePaymentLinkRequest
	}{
		{"missing amount", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly"}},
		{"missing user", dto.CreatePaymentLinkRequest{PlanDuration: "monthly", AmountRupees: "10"}},
		{"unknown plan", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "weekly", AmountRupees: "10"}},
		{"negative amount", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly", AmountRupees: "-1"}},
		{"zero amount", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly", AmountRupees: "0"}},
		{"huge exponent", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly", AmountRupees: "1e4000000"}},
		{"tiny exponent", dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly", AmountRupees: "1e-4000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeLinkClient{configured: true}
			_, err := newLinkService(client, time.Second).CreateLink(context.Background(), &tt.req)

			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindInvalidRequest))
			assert.Empty(t, client.calls, "no outbound call for an invalid request")
		})
	}
}

func TestCreateLinkMissingFieldsMessage(t *testing.T) {
	_, err := newLinkService(&fakeLinkClient{configured: true}, time.Second).
		CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{UserId: "u1", PlanDuration: "monthly"})

	assert.Equal(t, "Missing required fields: userId, planDuration, amountRupees", apperror.Decide(err).Public)
}

func TestCreateLinkWithoutCredentials(t *testing.T) {
	client := &fakeLinkClient{}
	_, err := newLinkService(client, time.Second).CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{
		UserId: "u1", PlanDuration: "monthly", AmountRupees: "10",
	})

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindMisconfigured))
	assert.Equal(t, "Razorpay keys not configured on server", apperror.Decide(err).Public)
	assert.Empty(t, client.calls)
}

func TestCreateLinkUpstreamErrors(t *testing.T) {
	t.Run("api error keeps status and body", func(t *testing.T) {
		body := json.RawMessage(`{"error":{"code":"BAD_REQUEST_ERROR"}}`)
		client := &fakeLinkClient{configured: true, err: &razorpay.APIError{StatusCode: http.StatusBadRequest, Body: body}}

		_, err := newLinkService(client, time.Second).CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{
			UserId: "u1", PlanDuration: "monthly", AmountRupees: "10",
		})

		var appErr *apperror.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperror.KindUpstream, appErr.Kind)
		assert.Equal(t, http.StatusBadRequest, apperror.Decide(err).Status)
		assert.Equal(t, body, appErr.Details)
	})

	t.Run("transport error", func(t *testing.T) {
		client := &fakeLinkClient{configured: true, err: errors.New("connection refused")}

		_, err := newLinkService(client, time.Second).CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{
			UserId: "u1", PlanDuration: "monthly", AmountRupees: "10",
		})

		assert.True(t, apperror.Is(err, apperror.KindUpstream))
		assert.Equal(t, http.StatusInternalServerError, apperror.Decide(err).Status)
	})

	t.Run("timeout", func(t *testing.T) {
		client := &fakeLinkClient{configured: true, block: true}

		_, err := newLinkService(client, 20*time.Millisecond).CreateLink(context.Background(), &dto.CreatePaymentLinkRequest{
			UserId: "u1", PlanDuration: "monthly", AmountRupees: "10",
		})

		assert.True(t, apperror.Is(err, apperror.KindTimeout))
		assert.Equal(t, http.StatusGatewayTimeout, apperror.Decide(err).Status)
	})
}
