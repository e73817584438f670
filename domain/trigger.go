package domain

import (
	"context"
	"fmt"
)

// TriggerData is the event payload handed to a trigger's template. Values
// come straight from the caller's JSON; helpers below keep templates terse.
type TriggerData map[string]interface{}

func (d TriggerData) Str(key string) string {
	if d == nil {
		return ""
	}
	switch v := d[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (d TriggerData) Num(key string) float64 {
	if d == nil {
		return 0
	}
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Trigger turns one domain event into the title/message/priority/channel of
// a notification. One implementation per event in the catalog.
type Trigger interface {
	Name() string
	Category() Category
	Priority() Priority
	DefaultChannel() Channel
	Render(data TriggerData) (title string, message string)
}

// FireRequest is one trigger invocation.
type FireRequest struct {
	Recipient   string      `json:"recipient" valid:"required~Recipient is required"`
	Role        Role        `json:"role"`
	Data        TriggerData `json:"data,omitempty"`
	RelatedType *string     `json:"related_type,omitempty"`
	RelatedID   *string     `json:"related_id,omitempty"`
}

type TriggerUseCase interface {
	// Fire runs the named trigger. It never returns an error: trigger
	// failures are logged and swallowed so the calling workflow is never
	// broken by its notification. The bool reports whether a record was
	// created (false covers suppression, unknown trigger and failures).
	Fire(ctx context.Context, name string, req *FireRequest) bool
	Names() []string
}
