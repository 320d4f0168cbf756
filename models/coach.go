package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeeklyRule is a recurring open-hours block for one coach. Times are
// wall-clock "HH:MM" strings interpreted in the coach's timezone; a coach
// may hold several rules per weekday (e.g. morning and evening blocks).
type WeeklyRule struct {
	ID        string `bson:"id" json:"id"`
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday ... 6 = Saturday
	StartTime string `bson:"startTime" json:"startTime"` // "09:00"
	EndTime   string `bson:"endTime" json:"endTime"`     // "17:00"
	Active    bool   `bson:"active" json:"active"`
}

// AvailabilityException closes a whole date range (vacation, holiday) and
// overrides every weekly rule of the coach during the range.
type AvailabilityException struct {
	ID        string    `bson:"id" json:"id"`
	StartDate time.Time `bson:"startDate" json:"startDate"`
	EndDate   time.Time `bson:"endDate" json:"endDate"`
	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
}

// Coach owns its schedule configuration: weekly rules and exceptions are
// embedded on the coach document.
type Coach struct {
	ID             string                  `bson:"id" json:"id"`
	Name           string                  `bson:"name" json:"name"`
	Email          string                  `bson:"email" json:"email"`
	Specialization string                  `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Bio            string                  `bson:"bio,omitempty" json:"bio,omitempty"`
	Certifications string                  `bson:"certifications,omitempty" json:"certifications,omitempty"`
	YearsExperience int                    `bson:"yearsExperience,omitempty" json:"yearsExperience,omitempty"`
	Timezone       string                  `bson:"timezone" json:"timezone"` // IANA name, e.g. "America/New_York"
	Active         bool                    `bson:"active" json:"active"`
	PasswordHash   string                  `bson:"passwordHash" json:"-"`
	Password       string                  `bson:"-" json:"password,omitempty"`
	TokenHash      string                  `bson:"tokenHash,omitempty" json:"-"`
	WeeklyRules    []WeeklyRule            `bson:"weeklyRules,omitempty" json:"weeklyRules,omitempty"`
	Exceptions     []AvailabilityException `bson:"exceptions,omitempty" json:"exceptions,omitempty"`
	CreatedAt      time.Time               `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time               `bson:"updatedAt" json:"updatedAt"`
}

// Location resolves the coach's configured timezone, defaulting to UTC when
// unset or unknown.
func (c *Coach) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseClock converts an "HH:MM" wall-clock string to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock time %q", s)
	}
	return h*60 + m, nil
}

// Window returns the rule's open interval as minutes from midnight.
func (r WeeklyRule) Window() (start, end int, err error) {
	start, err = ParseClock(r.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseClock(r.EndTime)
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("rule window %s-%s is empty", r.StartTime, r.EndTime)
	}
	return start, end, nil
}

// Validate checks rule invariants before persisting.
func (r WeeklyRule) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return fmt.Errorf("dayOfWeek %d out of range", r.DayOfWeek)
	}
	_, _, err := r.Window()
	return err
}

// Validate checks the exception's range invariant.
func (e AvailabilityException) Validate() error {
	if e.EndDate.Before(e.StartDate) {
		return fmt.Errorf("exception endDate precedes startDate")
	}
	return nil
}

// Covers reports whether the given calendar day falls inside the exception
// range. Comparison is by date, inclusive on both ends.
func (e AvailabilityException) Covers(day time.Time) bool {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	sy, sm, sd := e.StartDate.In(day.Location()).Date()
	startDay := time.Date(sy, sm, sd, 0, 0, 0, 0, day.Location())
	ey, em, ed := e.EndDate.In(day.Location()).Date()
	endDay := time.Date(ey, em, ed, 0, 0, 0, 0, day.Location())
	return !dayStart.Before(startDay) && !dayStart.After(endDay)
}
