package coachRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"purposeful/models"
)

// SetWeeklyRules replaces the coach's recurring schedule wholesale. Rules
// are validated before the write; ids are assigned when missing.
func (r *MongoCoachRepo) SetWeeklyRules(ctx context.Context, coachID string, rules []models.WeeklyRule) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return fmt.Errorf("weekly rule %d: %w", i, err)
		}
		if rules[i].ID == "" {
			rules[i].ID = uuid.New().String()
		}
	}

	update := bson.M{"$set": bson.M{"weeklyRules": rules, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": coachID}, update)
	if err != nil {
		return fmt.Errorf("failed to set weekly rules for coach %s: %w", coachID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddException appends a closed date range to the coach's schedule.
func (r *MongoCoachRepo) AddException(ctx context.Context, coachID string, exc models.AvailabilityException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := exc.Validate(); err != nil {
		return err
	}
	if exc.ID == "" {
		exc.ID = uuid.New().String()
	}

	update := bson.M{
		"$push": bson.M{"exceptions": exc},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": coachID}, update)
	if err != nil {
		return fmt.Errorf("failed to add exception for coach %s: %w", coachID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveException deletes one exception by id.
func (r *MongoCoachRepo) RemoveException(ctx context.Context, coachID, exceptionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"exceptions": bson.M{"id": exceptionID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": coachID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove exception %s: %w", exceptionID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
