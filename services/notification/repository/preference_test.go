package repository

import (
	"reflect"
	"testing"
)

func TestPreferenceColumnsAllowList(t *testing.T) {
	t.Parallel()

	allowed := []string{
		"homework_submitted",
		"homework_reviewed",
		"chat_messages",
		"subscription_alerts",
		"account_updates",
		"system_alerts",
		"prefer_whatsapp",
		"prefer_email",
		"quiet_hours_enabled",
		"quiet_hours_start",
		"quiet_hours_end",
		"batch_notifications",
	}

	if len(preferenceColumns) != len(allowed) {
		t.Fatalf("preferenceColumns has %d entries, want %d", len(preferenceColumns), len(allowed))
	}
	for _, name := range allowed {
		if _, ok := preferenceColumns[name]; !ok {
			t.Errorf("preferenceColumns is missing %q", name)
		}
	}
}

func TestPreferenceSetClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		fields     map[string]interface{}
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "known fields sorted",
			fields:     map[string]interface{}{"prefer_email": true, "chat_messages": false},
			wantClause: ", chat_messages = $3, prefer_email = $4",
			wantArgs:   []interface{}{false, true},
		},
		{
			name: "unknown fields dropped",
			fields: map[string]interface{}{
				"quiet_hours_start": "22:00",
				"recipient":         "15550001111",
				"id":                99,
				"is_admin":          true,
			},
			wantClause: ", quiet_hours_start = $3",
			wantArgs:   []interface{}{"22:00"},
		},
		{
			name:       "only unknown fields",
			fields:     map[string]interface{}{"volume": 11},
			wantClause: "",
			wantArgs:   []interface{}{},
		},
		{
			name:       "empty fields",
			fields:     map[string]interface{}{},
			wantClause: "",
			wantArgs:   []interface{}{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clause, args := preferenceSetClause(tt.fields)
			if clause != tt.wantClause {
				t.Fatalf("preferenceSetClause() clause = %q, want %q", clause, tt.wantClause)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("preferenceSetClause() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
