package models

import "time"

// Client statuses.
const (
	ClientActive    = "active"
	ClientInactive  = "inactive"
	ClientCompleted = "completed"
)

// Client is a person being coached. Every client belongs to one coach.
type Client struct {
	ID        string     `bson:"id" json:"id"`
	CoachID   string     `bson:"coachId" json:"coachId"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Goals     string     `bson:"goals,omitempty" json:"goals,omitempty"`
	Notes     string     `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    string     `bson:"status" json:"status"`
	StartDate time.Time  `bson:"startDate" json:"startDate"`
	EndDate   *time.Time `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}
