package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"purposeful/config"
	"purposeful/models"
	"purposeful/utils"
)

// DefaultSchedulingService is the production resolver implementation.
type DefaultSchedulingService struct {
	Repo Repository
	// SlotIntervalMin overrides the configured candidate step when > 0.
	SlotIntervalMin int
	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultSchedulingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSchedulingService) slotInterval() int {
	if s.SlotIntervalMin > 0 {
		return s.SlotIntervalMin
	}
	if config.AppConfig.SlotIntervalMin > 0 {
		return config.AppConfig.SlotIntervalMin
	}
	return 60
}

// GetAvailableSlots computes the bookable start instants for a coach on one
// calendar date. Missing coach or configuration yields an empty result;
// only bad input is an error.
func (s *DefaultSchedulingService) GetAvailableSlots(ctx context.Context, coachID, date string, durationMinutes int) ([]time.Time, error) {
	if durationMinutes <= 0 {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("duration must be positive, got %d", durationMinutes)}
	}
	// Reject a malformed date before any data access; the zone-aware parse
	// below needs the coach's location first.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("unparseable date %q", date)}
	}

	coach, err := s.Repo.GetCoach(ctx, coachID)
	if err != nil {
		return nil, fmt.Errorf("failed to load coach %s: %w", coachID, err)
	}
	if coach == nil || !coach.Active {
		return []time.Time{}, nil
	}

	day, err := time.ParseInLocation("2006-01-02", date, coach.Location())
	if err != nil {
		return nil, &utils.InvalidInputError{Reason: fmt.Sprintf("unparseable date %q", date)}
	}

	return s.slotsForDay(ctx, coach, day, durationMinutes)
}

// IsSlotOffered checks one start instant against the slot list the resolver
// would produce right now. The calendar day is derived in the coach's
// timezone: an evening slot west of UTC falls on the next UTC day, so the
// UTC date would re-query the wrong coach-local day.
func (s *DefaultSchedulingService) IsSlotOffered(ctx context.Context, coachID string, start time.Time, durationMinutes int) (bool, error) {
	if durationMinutes <= 0 {
		return false, &utils.InvalidInputError{Reason: fmt.Sprintf("duration must be positive, got %d", durationMinutes)}
	}

	coach, err := s.Repo.GetCoach(ctx, coachID)
	if err != nil {
		return false, fmt.Errorf("failed to load coach %s: %w", coachID, err)
	}
	if coach == nil || !coach.Active {
		return false, nil
	}

	local := start.In(coach.Location())
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	slots, err := s.slotsForDay(ctx, coach, day, durationMinutes)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

// slotsForDay implements the per-day resolution for a loaded coach. The day
// must already be midnight in the coach's location.
func (s *DefaultSchedulingService) slotsForDay(ctx context.Context, coach *models.Coach, day time.Time, durationMinutes int) ([]time.Time, error) {
	// A date inside any exception range closes the whole day, regardless of
	// weekly rules.
	for _, exc := range coach.Exceptions {
		if exc.Covers(day) {
			return []time.Time{}, nil
		}
	}

	weekday := int(day.Weekday())
	var rules []models.WeeklyRule
	for _, rule := range coach.WeeklyRules {
		if rule.Active && rule.DayOfWeek == weekday {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return []time.Time{}, nil
	}

	dayEnd := day.AddDate(0, 0, 1)
	booked, err := s.Repo.ListOccupying(ctx, coach.ID, day, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions for coach %s: %w", coach.ID, err)
	}

	now := s.now()
	step := s.slotInterval()
	sessionLen := time.Duration(durationMinutes) * time.Minute

	// Collect candidates from every rule, deduplicating instants generated
	// by overlapping rules.
	seen := make(map[int64]bool)
	var slots []time.Time
	for _, rule := range rules {
		start, end, err := rule.Window()
		if err != nil {
			// A malformed stored rule closes nothing else; skip it.
			continue
		}
		// Last viable start leaves room for a full session inside the rule.
		for minute := start; minute+durationMinutes <= end; minute += step {
			candidate := day.Add(time.Duration(minute) * time.Minute)
			if candidate.Before(now) {
				continue
			}
			candidateEnd := candidate.Add(sessionLen)
			if overlapsAny(candidate, candidateEnd, booked) {
				continue
			}
			key := candidate.Unix()
			if seen[key] {
				continue
			}
			seen[key] = true
			slots = append(slots, candidate)
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Before(slots[j]) })
	if slots == nil {
		slots = []time.Time{}
	}
	return slots, nil
}

// overlapsAny reports whether [start, end) intersects any occupying session.
// Half-open interval test: start < bookedEnd AND bookedStart < end.
func overlapsAny(start, end time.Time, booked []models.Session) bool {
	for i := range booked {
		if !booked[i].Occupies() {
			continue
		}
		if start.Before(booked[i].EndDate) && booked[i].ScheduledDate.Before(end) {
			return true
		}
	}
	return false
}

// GetWeeklyAvailability sums open slots over the next 7 days, starting
// today in the coach's timezone. The true count is returned; the UI decides
// how to present zero.
func (s *DefaultSchedulingService) GetWeeklyAvailability(ctx context.Context, coachID string, durationMinutes int) (models.WeeklyAvailability, error) {
	if durationMinutes <= 0 {
		return models.WeeklyAvailability{}, &utils.InvalidInputError{Reason: fmt.Sprintf("duration must be positive, got %d", durationMinutes)}
	}

	coach, err := s.Repo.GetCoach(ctx, coachID)
	if err != nil {
		return models.WeeklyAvailability{}, fmt.Errorf("failed to load coach %s: %w", coachID, err)
	}
	if coach == nil || !coach.Active {
		return models.WeeklyAvailability{RemainingSpots: 0}, nil
	}

	loc := coach.Location()
	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	total := 0
	for offset := 0; offset < 7; offset++ {
		day := today.AddDate(0, 0, offset)
		slots, err := s.slotsForDay(ctx, coach, day, durationMinutes)
		if err != nil {
			return models.WeeklyAvailability{}, err
		}
		total += len(slots)
	}
	return models.WeeklyAvailability{RemainingSpots: total}, nil
}
