package participant

import (
	"time"

	"academy-manager/internal/domain/settings"
	"academy-manager/internal/utils"
)

// Derived lifecycle classifications. All of these are computed on read;
// nothing here is stored.

// OverdueAfter is how long a pending payment may sit on a fresh registration
// before it counts as overdue.
const OverdueAfter = 7 * 24 * time.Hour

// IsLead reports whether p is still a lead: no assignments at all, or none
// that reached "registered" or "attending another training".
func IsLead(p Participant) bool {
	if len(p.Assignments) == 0 {
		return true
	}
	for _, a := range p.Assignments {
		if a.RegStatus == settings.RegStatusRegistered || a.RegStatus == settings.RegStatusOtherTraining {
			return false
		}
	}
	return true
}

// InRegisteredView reports whether any assignment is registered.
func InRegisteredView(p Participant) bool {
	for _, a := range p.Assignments {
		if a.RegStatus == settings.RegStatusRegistered {
			return true
		}
	}
	return false
}

// InFutureView reports whether the participant deferred to another training.
func InFutureView(p Participant) bool {
	for _, a := range p.Assignments {
		if a.RegStatus == settings.RegStatusOtherTraining {
			return true
		}
	}
	return false
}

// HasFollowUp reports whether any assignment carries a next action.
func HasFollowUp(p Participant) bool {
	for _, a := range p.Assignments {
		if a.NextAction != "" {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the assignment's payment is overdue: still
// pending more than OverdueAfter past the registration date. An unparseable
// registration date contributes nothing.
func IsOverdue(a TrainingAssignment, now time.Time) bool {
	if a.PaymentStatus != PaymentPending {
		return false
	}
	reg, err := utils.ParseTime(a.RegistrationDate)
	if err != nil {
		return false
	}
	return now.Sub(reg) > OverdueAfter
}
