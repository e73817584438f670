package usecase

import (
	"edubot/domain"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestResolveChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		whatsapp  bool
		email     bool
		requested domain.Channel
		want      domain.Channel
	}{
		{name: "both preferred", whatsapp: true, email: true, requested: domain.ChannelInApp, want: domain.ChannelBoth},
		{name: "whatsapp only", whatsapp: true, email: false, requested: domain.ChannelEmail, want: domain.ChannelWhatsapp},
		{name: "email only", whatsapp: false, email: true, requested: domain.ChannelWhatsapp, want: domain.ChannelEmail},
		{name: "no preference falls back to requested", whatsapp: false, email: false, requested: domain.ChannelInApp, want: domain.ChannelInApp},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pref := &domain.Preference{PreferWhatsapp: tt.whatsapp, PreferEmail: tt.email}
			got := ResolveChannel(pref, tt.requested)
			if got != tt.want {
				t.Fatalf("ResolveChannel() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveChannelNilPreference(t *testing.T) {
	t.Parallel()

	got := ResolveChannel(nil, domain.ChannelWhatsapp)
	if got != domain.ChannelWhatsapp {
		t.Fatalf("ResolveChannel(nil) = %s, want whatsapp", got)
	}
}

func TestShouldSend(t *testing.T) {
	t.Parallel()

	at := func(hhmm string) time.Time {
		parsed, err := time.Parse("15:04", hhmm)
		if err != nil {
			t.Fatalf("bad test clock %q: %v", hhmm, err)
		}
		return time.Date(2024, 3, 1, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		enabled bool
		start   *string
		end     *string
		now     string
		want    bool
	}{
		{name: "disabled always sends", enabled: false, start: strPtr("22:00"), end: strPtr("08:00"), now: "23:30", want: true},
		{name: "missing start sends", enabled: true, end: strPtr("08:00"), now: "23:30", want: true},
		{name: "missing end sends", enabled: true, start: strPtr("22:00"), now: "23:30", want: true},
		{name: "wrapping window suppresses late night", enabled: true, start: strPtr("22:00"), end: strPtr("08:00"), now: "23:30", want: false},
		{name: "wrapping window suppresses early morning", enabled: true, start: strPtr("22:00"), end: strPtr("08:00"), now: "06:00", want: false},
		{name: "wrapping window allows daytime", enabled: true, start: strPtr("22:00"), end: strPtr("08:00"), now: "10:00", want: true},
		{name: "plain window suppresses inside", enabled: true, start: strPtr("09:00"), end: strPtr("17:00"), now: "12:00", want: false},
		{name: "plain window allows outside", enabled: true, start: strPtr("09:00"), end: strPtr("17:00"), now: "20:00", want: true},
		{name: "boundaries are inclusive", enabled: true, start: strPtr("09:00"), end: strPtr("17:00"), now: "17:00", want: false},
		{name: "unparseable start fails open", enabled: true, start: strPtr("25:99"), end: strPtr("08:00"), now: "23:30", want: true},
		{name: "unparseable end fails open", enabled: true, start: strPtr("22:00"), end: strPtr("late"), now: "23:30", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pref := &domain.Preference{
				QuietHoursEnabled: tt.enabled,
				QuietHoursStart:   tt.start,
				QuietHoursEnd:     tt.end,
			}
			got := ShouldSend(pref, at(tt.now))
			if got != tt.want {
				t.Fatalf("ShouldSend(now=%s) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestShouldSendNilPreference(t *testing.T) {
	t.Parallel()

	if !ShouldSend(nil, time.Now()) {
		t.Fatal("ShouldSend(nil) = false, want true")
	}
}
