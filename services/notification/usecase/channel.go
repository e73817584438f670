package usecase

import (
	"edubot/domain"
	"time"
)

// ResolveChannel picks the effective delivery channel for a new
// notification. An explicit recipient preference always beats the channel
// the event asked for; the requested channel is only a fallback for
// recipients with no channel preference at all.
func ResolveChannel(pref *domain.Preference, requested domain.Channel) domain.Channel {
	if pref != nil {
		if pref.PreferWhatsapp && pref.PreferEmail {
			return domain.ChannelBoth
		}
		if pref.PreferWhatsapp {
			return domain.ChannelWhatsapp
		}
		if pref.PreferEmail {
			return domain.ChannelEmail
		}
	}
	return requested
}

// ShouldSend is the quiet-hours gate. It only advises: creation never calls
// it, callers compose it with Create as they see fit.
//
// Boundaries are inclusive. A window whose start is after its end wraps
// past midnight. Any parse failure fails open so a bad preference value can
// never block notifications.
func ShouldSend(pref *domain.Preference, now time.Time) bool {
	if pref == nil || !pref.QuietHoursEnabled {
		return true
	}
	if pref.QuietHoursStart == nil || pref.QuietHoursEnd == nil {
		return true
	}

	start, err := time.Parse("15:04", *pref.QuietHoursStart)
	if err != nil {
		return true
	}
	end, err := time.Parse("15:04", *pref.QuietHoursEnd)
	if err != nil {
		return true
	}

	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	nowMin := now.Hour()*60 + now.Minute()

	if startMin <= endMin {
		if nowMin >= startMin && nowMin <= endMin {
			return false
		}
		return true
	}

	// Window crosses midnight, e.g. 22:00-08:00.
	if nowMin >= startMin || nowMin <= endMin {
		return false
	}
	return true
}
