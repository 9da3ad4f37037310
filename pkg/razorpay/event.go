package razorpay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"subscription-webhook-be/pkg/billing"
)

// ErrMalformedPayload wraps every decoding failure of a webhook body.
var ErrMalformedPayload = errors.New("malformed razorpay payload")

const (
	EventPaymentCaptured       = "payment.captured"
	EventSubscriptionActivated = "subscription.activated"
	EventSubscriptionCharged   = "subscription.charged"
	EventPaymentLinkPaid       = "payment_link.paid"
)

var activationEvents = map[string]struct{}{
	EventPaymentCaptured:       {},
	EventSubscriptionActivated: {},
	EventSubscriptionCharged:   {},
	EventPaymentLinkPaid:       {},
}

// IsActivationEvent reports whether name is a successful-payment event.
func IsActivationEvent(name string) bool {
	_, ok := activationEvents[name]
	return ok
}

// EntityKind tags which of the three payload shapes an Entity came from.
type EntityKind string

const (
	EntityPayment      EntityKind = "payment"
	EntityPaymentLink  EntityKind = "payment_link"
	EntitySubscription EntityKind = "subscription"
)

// entityPaths is the lookup order; the first non-null entity wins.
var entityPaths = []EntityKind{EntityPayment, EntityPaymentLink, EntitySubscription}

// Entity is the provider object embedded in a webhook payload.
type Entity struct {
	Kind           EntityKind
	ID             string
	SubscriptionID string
	Notes          Notes
}

// ProviderRef is the identifier stored against the subscriber.
func (e *Entity) ProviderRef() string {
	if e.SubscriptionID != "" {
		return e.SubscriptionID
	}
	return e.ID
}

// Notes is the metadata echoed back from link creation. The provider sends
// [] for empty notes, which decodes to an empty Notes.
type Notes map[string]interface{}

func (n Notes) Get(key string) (string, bool) {
	return Lookup(map[string]interface{}(n), key).String()
}

// Event is a decoded webhook delivery.
type Event struct {
	Name      string
	CreatedAt time.Time
	Entity    *Entity
}

// Actionable reports whether the event should drive a subscription activation.
func (e *Event) Actionable() bool {
	return IsActivationEvent(e.Name) && e.Entity != nil
}

// UserID returns notes.user_id of the entity, if any.
func (e *Event) UserID() (string, bool) {
	if e.Entity == nil {
		return "", false
	}
	return e.Entity.Notes.Get("user_id")
}

// Plan returns notes.plan_duration, defaulting to monthly.
func (e *Event) Plan() billing.PlanDuration {
	if e.Entity == nil {
		return billing.PlanMonthly
	}
	raw, _ := e.Entity.Notes.Get("plan_duration")
	return billing.NormalizePlanDuration(raw)
}

// ParseEvent decodes a verified raw body. Only syntax errors and non-object
// documents fail; every missing field degrades to an absent value.
func ParseEvent(body []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedPayload)
	}
	if _, ok := root.(map[string]interface{}); !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedPayload)
	}

	evt := &Event{}
	if name, ok := Lookup(root, "event").String(); ok {
		evt.Name = name
	}
	if ts, ok := Lookup(root, "created_at").Int64(); ok && ts > 0 {
		evt.CreatedAt = time.Unix(ts, 0)
	}

	for _, kind := range entityPaths {
		obj, ok := Lookup(root, "payload", string(kind), "entity").Object()
		if !ok {
			continue
		}
		evt.Entity = newEntity(kind, obj)
		break
	}
	return evt, nil
}

func newEntity(kind EntityKind, obj map[string]interface{}) *Entity {
	e := &Entity{Kind: kind, Notes: Notes{}}
	e.ID, _ = Lookup(obj, "id").String()
	e.SubscriptionID, _ = Lookup(obj, "subscription_id").String()
	if notes, ok := Lookup(obj, "notes").Object(); ok {
		e.Notes = Notes(notes)
	}
	return e
}
