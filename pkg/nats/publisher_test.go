package nats

import "testing"

func TestSubject(t *testing.T) {
	tests := map[string]string{
		"SUBSCRIPTION_ACTIVATED": "subscriptions.subscription_activated",
		"SUBSCRIBER_NOT_FOUND":   "subscriptions.subscriber_not_found",
	}
	for in, want := range tests {
		if got := Subject(in); got != want {
			t.Errorf("Subject(%q) = %q, want %q", in, got, want)
		}
	}
}
