package feed

import (
	"time"
)

// DatePolicy picks the calendar date to request given the current instant.
// It is a fixed rule per run, not a decision algorithm.
type DatePolicy func(now time.Time) time.Time

// CurrentDate is the deployed policy: request rates for today.
func CurrentDate(now time.Time) time.Time {
	return now
}

// NextDate requests the following day. The bank usually publishes the next
// working day's rates in advance; this policy existed in earlier feed
// consumers to catch them early and is kept as a swappable alternative.
func NextDate(now time.Time) time.Time {
	return now.AddDate(0, 0, 1)
}

// TargetDate formats the date selected by the policy in the feed's
// required textual format. A nil policy means CurrentDate.
func TargetDate(now time.Time, policy DatePolicy, layout string) string {
	if policy == nil {
		policy = CurrentDate
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return policy(now).Format(layout)
}
