package subscriptionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"purposeful/database"
	"purposeful/models"
)

// SubscriptionRepository defines data access for Stripe subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *models.Subscription) error
	GetByID(ctx context.Context, id string) (*models.Subscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error)
	ListByEmail(ctx context.Context, email string) ([]models.Subscription, error)
	SetStatus(ctx context.Context, id, status string, cancelledAt *time.Time) error
	SyncFromStripe(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd, cancelledAt *time.Time) error
}

type MongoSubscriptionRepo struct {
	coll *mongo.Collection
}

func NewMongoSubscriptionRepo() *MongoSubscriptionRepo {
	return &MongoSubscriptionRepo{coll: database.Collection("subscriptions")}
}

func (r *MongoSubscriptionRepo) Create(ctx context.Context, sub *models.Subscription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, sub); err != nil {
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

func (r *MongoSubscriptionRepo) GetByID(ctx context.Context, id string) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sub models.Subscription
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", id, err)
	}
	return &sub, nil
}

func (r *MongoSubscriptionRepo) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sub models.Subscription
	err := r.coll.FindOne(ctx, bson.M{"stripeSubscriptionId": stripeSubscriptionID}).Decode(&sub)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription by stripe id %s: %w", stripeSubscriptionID, err)
	}
	return &sub, nil
}

func (r *MongoSubscriptionRepo) ListByEmail(ctx context.Context, email string) ([]models.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"userEmail": email})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for %s: %w", email, err)
	}
	defer cursor.Close(ctx)

	var subs []models.Subscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *MongoSubscriptionRepo) SetStatus(ctx context.Context, id, status string, cancelledAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	if cancelledAt != nil {
		set["cancelledAt"] = cancelledAt
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update subscription %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SyncFromStripe applies webhook-driven state onto the local record keyed by
// the Stripe subscription ID. Unknown subscriptions are ignored.
func (r *MongoSubscriptionRepo) SyncFromStripe(ctx context.Context, stripeSubscriptionID, status string, periodStart, periodEnd, cancelledAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": status, "updatedAt": time.Now().UTC()}
	if periodStart != nil {
		set["currentPeriodStart"] = periodStart
	}
	if periodEnd != nil {
		set["currentPeriodEnd"] = periodEnd
	}
	if cancelledAt != nil {
		set["cancelledAt"] = cancelledAt
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"stripeSubscriptionId": stripeSubscriptionID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to sync subscription %s: %w", stripeSubscriptionID, err)
	}
	return nil
}
