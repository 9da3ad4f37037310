package dto

// Webhook responses use bare {message}/{error} bodies; the provider only
// looks at the status code.

type WebhookAckResponse struct {
	Message string `json:"message"`
}

type WebhookErrorResponse struct {
	Error string `json:"error"`
}
