package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"purposeful/database"
	"purposeful/models"
)

// MongoSessionRepo is the production SessionRepository backed by MongoDB.
type MongoSessionRepo struct {
	coll *mongo.Collection
}

func NewMongoSessionRepo() *MongoSessionRepo {
	return &MongoSessionRepo{coll: database.Collection("sessions")}
}

// occupyingFilter matches sessions of the coach that block any part of
// [from, to). Half-open overlap: scheduledDate < to AND endDate > from.
func occupyingFilter(coachID string, from, to time.Time) bson.M {
	return bson.M{
		"coachId":       coachID,
		"status":        bson.M{"$in": []string{models.SessionScheduled, models.SessionCompleted}},
		"scheduledDate": bson.M{"$lt": to},
		"endDate":       bson.M{"$gt": from},
	}
}

func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &session, nil
}

func (r *MongoSessionRepo) GetByStripeSessionID(ctx context.Context, stripeSessionID string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"stripeSessionId": stripeSessionID}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session by stripe id: %w", err)
	}
	return &session, nil
}

func (r *MongoSessionRepo) ListByCoach(ctx context.Context, coachID string) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"coachId": coachID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for coach %s: %w", coachID, err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *MongoSessionRepo) ListOccupying(ctx context.Context, coachID string, from, to time.Time) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, occupyingFilter(coachID, from, to))
	if err != nil {
		return nil, fmt.Errorf("failed to list occupying sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *MongoSessionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update session %s status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoSessionRepo) SetPaymentStatus(ctx context.Context, id, paymentStatus, stripeSessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"paymentStatus": paymentStatus, "updatedAt": time.Now().UTC()}
	if stripeSessionID != "" {
		set["stripeSessionId"] = stripeSessionID
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update session %s payment status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
