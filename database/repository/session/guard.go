package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"purposeful/models"
)

// CreateScheduled commits a booking. Two clients can both see the same slot
// as free; whichever insert lands second must fail. The overlap re-check and
// the insert run inside one mongo transaction so the pair is atomic.
func (r *MongoSessionRepo) CreateScheduled(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	session.Status = models.SessionScheduled
	if session.PaymentStatus == "" {
		session.PaymentStatus = models.PaymentPending
	}
	session.ScheduledDate = session.ScheduledDate.UTC()
	session.EndDate = session.ScheduledDate.Add(time.Duration(session.Duration) * time.Minute)
	session.CreatedAt = now
	session.UpdatedAt = now

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := occupyingFilter(session.CoachID, session.ScheduledDate, session.EndDate)
		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}
		if _, err := r.coll.InsertOne(sc, session); err != nil {
			return fmt.Errorf("insert session failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}

// Reschedule moves a session to a new interval under the same overlap guard.
// The conflict check excludes the session itself, so shifting a session
// within its own old interval is allowed; any other occupying session in the
// way aborts with ErrSlotTaken.
func (r *MongoSessionRepo) Reschedule(ctx context.Context, id string, start, end time.Time) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		var current models.Session
		if err := r.coll.FindOne(sc, bson.M{"id": id}).Decode(&current); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return mongo.ErrNoDocuments
			}
			return fmt.Errorf("failed to fetch session %s: %w", id, err)
		}

		filter := occupyingFilter(current.CoachID, start, end)
		filter["id"] = bson.M{"$ne": id}
		count, err := r.coll.CountDocuments(sc, filter)
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if count > 0 {
			return ErrSlotTaken
		}

		update := bson.M{"$set": bson.M{
			"scheduledDate": start,
			"endDate":       end,
			"updatedAt":     time.Now().UTC(),
		}}
		if _, err := r.coll.UpdateOne(sc, bson.M{"id": id}, update); err != nil {
			return fmt.Errorf("update session failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}

	return nil
}
