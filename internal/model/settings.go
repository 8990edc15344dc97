package model

// Settings holds the notification preferences read at derivation time.
// Any change to these must trigger rederivation.
type Settings struct {
	// EarlyWarningLeadMinutes is the lead time for wrap-up and
	// coming-up reminders; 0 disables early warnings entirely.
	EarlyWarningLeadMinutes int

	// NotificationsEnabled gates all scheduling; when false the
	// coordinator cancels and derives nothing.
	NotificationsEnabled bool
}
