package models

// PageActivity reports simulated concurrent viewers for a marketing page.
type PageActivity struct {
	PageType     string `json:"pageType"`
	ViewersCount int    `json:"viewersCount"`
	LastUpdated  int64  `json:"lastUpdated"` // unix millis
}

// RecentBooking is a social-proof feed entry shown as a toast on landing
// pages. Only first name and session type are exposed.
type RecentBooking struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SessionType string `json:"sessionType"`
	TimeAgo     string `json:"timeAgo"`
}

// UrgencyMetrics feeds the scarcity banner.
type UrgencyMetrics struct {
	TotalViewers   int   `json:"totalViewers"`
	RecentBookings int   `json:"recentBookings"`
	ConversionRate int   `json:"conversionRate"`
	LastUpdated    int64 `json:"lastUpdated"`
}

// WeeklyAvailability is the scarcity figure for the booking page: the true
// count of open slots left this week. Display clamping is the UI's job.
type WeeklyAvailability struct {
	RemainingSpots int `json:"remainingSpots"`
}
