package discountRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"purposeful/database"
	"purposeful/models"
)

// DiscountRepository defines data access for promo codes.
type DiscountRepository interface {
	Create(ctx context.Context, code *models.DiscountCode) error
	GetByCode(ctx context.Context, code string) (*models.DiscountCode, error)
	// MarkUsed increments the redemption counter, guarded against exceeding
	// maxUses under concurrent checkouts.
	MarkUsed(ctx context.Context, id string) error
}

type MongoDiscountRepo struct {
	coll *mongo.Collection
}

func NewMongoDiscountRepo() *MongoDiscountRepo {
	return &MongoDiscountRepo{coll: database.Collection("discountCodes")}
}

func (r *MongoDiscountRepo) Create(ctx context.Context, code *models.DiscountCode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	code.Code = strings.ToUpper(strings.TrimSpace(code.Code))
	code.CreatedAt = time.Now().UTC()
	if _, err := r.coll.InsertOne(ctx, code); err != nil {
		return fmt.Errorf("failed to insert discount code: %w", err)
	}
	return nil
}

func (r *MongoDiscountRepo) GetByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var dc models.DiscountCode
	err := r.coll.FindOne(ctx, bson.M{"code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&dc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch discount code: %w", err)
	}
	return &dc, nil
}

func (r *MongoDiscountRepo) MarkUsed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The filter re-checks maxUses so two concurrent redemptions cannot
	// push usedCount past the cap.
	filter := bson.M{
		"id": id,
		"$or": []bson.M{
			{"maxUses": bson.M{"$exists": false}},
			{"maxUses": 0},
			{"$expr": bson.M{"$lt": []string{"$usedCount", "$maxUses"}}},
		},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usedCount": 1}})
	if err != nil {
		return fmt.Errorf("failed to mark discount code used: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
