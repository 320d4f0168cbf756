package coachRepo

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

// MongoCoachRepo is the production CoachRepository backed by MongoDB.
type MongoCoachRepo struct {
	coll *mongo.Collection
}

func NewMongoCoachRepo() *MongoCoachRepo {
	return &MongoCoachRepo{coll: database.Collection("coaches")}
}

func (r *MongoCoachRepo) Create(ctx context.Context, coach *models.Coach) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if coach.ID == "" {
		coach.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	coach.CreatedAt = now
	coach.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, coach); err != nil {
		return fmt.Errorf("failed to insert coach: %w", err)
	}
	return nil
}

func (r *MongoCoachRepo) getOne(ctx context.Context, filter bson.M) (*models.Coach, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var coach models.Coach
	err := r.coll.FindOne(ctx, filter).Decode(&coach)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch coach: %w", err)
	}
	return &coach, nil
}

func (r *MongoCoachRepo) GetByID(ctx context.Context, id string) (*models.Coach, error) {
	return r.getOne(ctx, bson.M{"id": id})
}

func (r *MongoCoachRepo) GetByEmail(ctx context.Context, email string) (*models.Coach, error) {
	return r.getOne(ctx, bson.M{"email": email})
}

func (r *MongoCoachRepo) Update(ctx context.Context, coach *models.Coach) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coach.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": coach.ID}, coach)
	if err != nil {
		return fmt.Errorf("failed to update coach %s: %w", coach.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoCoachRepo) UpdateTokenHash(ctx context.Context, id, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"tokenHash": tokenHash, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update coach token hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoCoachRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete coach %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoCoachRepo) ListActive(ctx context.Context) ([]models.Coach, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list coaches: %w", err)
	}
	defer cursor.Close(ctx)

	var coaches []models.Coach
	if err := cursor.All(ctx, &coaches); err != nil {
		return nil, err
	}
	return coaches, nil
}
