// FILE: internal/service/payment_link_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"subscription-webhook-be/internal/config"
	"subscription-webhook-be/internal/dto"
	"subscription-webhook-be/internal/pkg/apperror"
	"subscription-webhook-be/internal/pkg/logger"
	"subscription-webhook-be/pkg/billing"
	"subscription-webhook-be/pkg/razorpay"
)

// PaymentLinkClient is the slice of the Razorpay client the issuer needs.
type PaymentLinkClient interface {
	Configured() bool
	CreatePaymentLink(ctx context.Context, req *razorpay.CreatePaymentLinkRequest) (*razorpay.PaymentLink, error)
}

type IPaymentLinkService interface {
	CreateLink(ctx context.Context, req *dto.CreatePaymentLinkRequest) (*dto.CreatePaymentLinkResponse, error)
}

type paymentLinkService struct {
	client          PaymentLinkClient
	cfg             config.RazorpayConfig
	upstreamTimeout time.Duration
	logger          logger.ILogger
}

func NewPaymentLinkService(client PaymentLinkClient, cfg config.RazorpayConfig, upstreamTimeout time.Duration, logger logger.ILogger) IPaymentLinkService {
	return &paymentLinkService{
		client:          client,
		cfg:             cfg,
		upstreamTimeout: upstreamTimeout,
		logger:          logger,
	}
}

func (s *paymentLinkService) CreateLink(ctx context.Context, req *dto.CreatePaymentLinkRequest) (*dto.CreatePaymentLinkResponse, error) {
	userId := strings.TrimSpace(string(req.UserId))
	if userId == "" || strings.TrimSpace(req.PlanDuration) == "" || req.AmountRupees == "" {
		return nil, apperror.New(apperror.KindInvalidRequest, "Missing required fields: userId, planDuration, amountRupees")
	}
	plan, err := billing.ParsePlanDuration(req.PlanDuration)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidRequest, "planDuration must be monthly or yearly", err)
	}
	amount, err := billing.ParseMinorUnits(req.AmountRupees.String())
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidRequest, "amountRupees must be a non-negative number", err)
	}
	if amount == 0 {
		return nil, apperror.New(apperror.KindInvalidRequest, "amountRupees must be greater than zero")
	}

	if !s.client.Configured() {
		s.logger.Error("PAYMENT_LINK", "Razorpay API keys not configured", nil)
		return nil, apperror.New(apperror.KindMisconfigured, "Razorpay keys not configured on server")
	}

	ctx, cancel := context.WithTimeout(ctx, s.upstreamTimeout)
	defer cancel()

	link, err := s.client.CreatePaymentLink(ctx, &razorpay.CreatePaymentLinkRequest{
		Amount:         amount,
		Currency:       s.cfg.Currency,
		AcceptPartial:  false,
		Description:    s.description(plan),
		Customer:       razorpay.Customer{Email: fmt.Sprintf("%s@%s", userId, s.cfg.CustomerEmailDomain)},
		Notify:         razorpay.Notify{Email: true, SMS: false},
		ReminderEnable: true,
		Notes: map[string]string{
			"user_id":       userId,
			"plan_duration": string(plan),
		},
	})
	if err != nil {
		return nil, s.classify(userId, err)
	}

	s.logger.Info("PAYMENT_LINK", "Payment link created", map[string]interface{}{
		"user_id":       userId,
		"plan_duration": string(plan),
		"amount":        amount,
		"link_id":       link.ID,
	})

	return &dto.CreatePaymentLinkResponse{
		CheckoutURL:    link.ShortURL,
		SubscriptionId: link.ID,
		Status:         "pending",
	}, nil
}

func (s *paymentLinkService) description(plan billing.PlanDuration) string {
	label := strings.ToUpper(string(plan[:1])) + string(plan[1:])
	if s.cfg.LinkDescriptionPrefix == "" {
		return label + " Subscription"
	}
	return fmt.Sprintf("%s Subscription - %s", s.cfg.LinkDescriptionPrefix, label)
}

func (s *paymentLinkService) classify(userId string, err error) error {
	var apiErr *razorpay.APIError
	switch {
	case errors.As(err, &apiErr):
		s.logger.Error("PAYMENT_LINK", "Razorpay rejected payment link", map[string]interface{}{
			"user_id": userId,
			"status":  apiErr.StatusCode,
			"body":    string(apiErr.Body),
		})
		return apperror.Upstream(apiErr.StatusCode, apiErr.Body, err)
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error("PAYMENT_LINK", "Razorpay request timed out", map[string]interface{}{"user_id": userId})
		return apperror.Wrap(apperror.KindTimeout, "Razorpay request timed out", err)
	case errors.Is(err, razorpay.ErrCredentialsMissing):
		return apperror.Wrap(apperror.KindMisconfigured, "Razorpay keys not configured on server", err)
	default:
		s.logger.Error("PAYMENT_LINK", "Razorpay request failed", map[string]interface{}{"user_id": userId, "error": err})
		return apperror.Upstream(0, nil, err)
	}
}
