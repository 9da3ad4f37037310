package events

import "time"

const (
	SubscriptionActivated              = "SUBSCRIPTION_ACTIVATED"
	SubscriptionCancelled              = "SUBSCRIPTION_CANCELLED"
	SubscriptionPlanChanged            = "SUBSCRIPTION_PLAN_CHANGED"
	SubscriptionSuperadminStatusChange = "SUBSCRIPTION_SUPERADMIN_STATUS_CHANGED"
	SubscriberNotFound                 = "SUBSCRIBER_NOT_FOUND"
)

// NewSubscriptionEvent builds an event whose payload always carries user_id,
// which consumers use as the cache/partition key.
func NewSubscriptionEvent(eventType, userId string, data map[string]interface{}, at time.Time) BaseEvent {
	payload := make(map[string]interface{}, len(data)+1)
	for k, v := range data {
		payload[k] = v
	}
	payload["user_id"] = userId
	return BaseEvent{Type: eventType, Data: payload, OccurredAt: at}
}

// UserId extracts the user_id of a subscription event.
func UserId(e Event) (string, bool) {
	id, ok := e.Payload()["user_id"].(string)
	return id, ok && id != ""
}
