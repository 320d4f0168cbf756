package socialproof

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"purposeful/models"
	"purposeful/utils"
)

// Marketing pages that report viewer activity.
var pageTypes = map[string]bool{
	"decision-tree": true,
	"ai-coaching":   true,
	"book-session":  true,
	"enterprise":    true,
}

const maxRecentBookings = 10

// Service keeps the simulated social-proof counters in memory. Viewer
// counts are randomized within believable bounds rather than measured;
// recent bookings come from the real booking flow.
type Service struct {
	mu        sync.Mutex
	now       func() time.Time
	randInt   func(n int) int
	pageViews map[string]int
	activity  map[string]models.PageActivity
	recent    []recentEntry
}

type recentEntry struct {
	id          string
	name        string
	sessionType string
	at          time.Time
}

func NewService() *Service {
	return &Service{
		now:       time.Now,
		randInt:   rand.Intn,
		pageViews: make(map[string]int),
		activity:  make(map[string]models.PageActivity),
	}
}

// GetPageActivity records a page view and returns the current simulated
// viewer count, always between 3 and 8.
func (s *Service) GetPageActivity(pageType string) (models.PageActivity, error) {
	if !pageTypes[pageType] {
		return models.PageActivity{}, &utils.InvalidInputError{Reason: "unknown page type"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pageViews[pageType]++
	activity := models.PageActivity{
		PageType:     pageType,
		ViewersCount: s.randInt(6) + 3,
		LastUpdated:  s.now().UnixMilli(),
	}
	s.activity[pageType] = activity
	return activity, nil
}

// AddRecentBooking pushes a booking onto the feed, keeping the newest ten.
func (s *Service) AddRecentBooking(name, sessionType string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := recentEntry{
		id:          uuid.New().String(),
		name:        name,
		sessionType: sessionType,
		at:          s.now(),
	}
	s.recent = append([]recentEntry{entry}, s.recent...)
	if len(s.recent) > maxRecentBookings {
		s.recent = s.recent[:maxRecentBookings]
	}
}

// RecentBookings returns up to limit feed entries, newest first.
func (s *Service) RecentBookings(limit int) []models.RecentBooking {
	if limit <= 0 || limit > maxRecentBookings {
		limit = maxRecentBookings
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]models.RecentBooking, 0, limit)
	for _, e := range s.recent {
		if len(out) == limit {
			break
		}
		out = append(out, models.RecentBooking{
			ID:          e.id,
			Name:        e.name,
			SessionType: e.sessionType,
			TimeAgo:     timeAgo(now.Sub(e.at)),
		})
	}
	return out
}

// UrgencyMetrics returns the scarcity-banner figures. The conversion rate
// is randomized between 8 and 23 percent.
func (s *Service) UrgencyMetrics() models.UrgencyMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, views := range s.pageViews {
		total += views
	}
	return models.UrgencyMetrics{
		TotalViewers:   total,
		RecentBookings: len(s.recent),
		ConversionRate: s.randInt(16) + 8,
		LastUpdated:    s.now().UnixMilli(),
	}
}

func timeAgo(d time.Duration) string {
	seconds := int(d.Seconds())
	switch {
	case seconds < 60:
		return "just now"
	case seconds < 3600:
		return strconv.Itoa(seconds/60) + "m ago"
	case seconds < 86400:
		return strconv.Itoa(seconds/3600) + "h ago"
	default:
		return strconv.Itoa(seconds/86400) + "d ago"
	}
}
