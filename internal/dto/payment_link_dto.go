package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleString accepts a JSON string or number; numeric ids keep their
// literal text.
type FlexibleString string

func (s *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexibleString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexibleString(n.String())
	return nil
}

// CreatePaymentLinkRequest keeps the camelCase keys of the public checkout API.
// AmountRupees may be sent as a number or a numeric string.
type CreatePaymentLinkRequest struct {
	UserId       FlexibleString `json:"userId"`
	PlanDuration string         `json:"planDuration"`
	AmountRupees json.Number    `json:"amountRupees"`
}

type CreatePaymentLinkResponse struct {
	CheckoutURL    string `json:"checkout_url"`
	SubscriptionId string `json:"subscription_id"`
	Status         string `json:"status"`
}

type PaymentLinkErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
