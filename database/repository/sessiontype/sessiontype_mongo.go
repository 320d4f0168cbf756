package sessionTypeRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"purposeful/database"
	"purposeful/models"
)

// SessionTypeRepository defines data access for session offerings.
type SessionTypeRepository interface {
	Create(ctx context.Context, st *models.SessionType) error
	GetByID(ctx context.Context, id string) (*models.SessionType, error)
	ListActiveByCoach(ctx context.Context, coachID string) ([]models.SessionType, error)
	Update(ctx context.Context, st *models.SessionType) error
	Delete(ctx context.Context, id string) error
}

type MongoSessionTypeRepo struct {
	coll *mongo.Collection
}

func NewMongoSessionTypeRepo() *MongoSessionTypeRepo {
	return &MongoSessionTypeRepo{coll: database.Collection("sessionTypes")}
}

func (r *MongoSessionTypeRepo) Create(ctx context.Context, st *models.SessionType) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if st.Duration <= 0 {
		return fmt.Errorf("session type duration must be positive, got %d", st.Duration)
	}
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	st.CreatedAt = now
	st.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, st); err != nil {
		return fmt.Errorf("failed to insert session type: %w", err)
	}
	return nil
}

func (r *MongoSessionTypeRepo) GetByID(ctx context.Context, id string) (*models.SessionType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var st models.SessionType
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session type %s: %w", id, err)
	}
	return &st, nil
}

func (r *MongoSessionTypeRepo) ListActiveByCoach(ctx context.Context, coachID string) ([]models.SessionType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"coachId": coachID, "active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list session types for coach %s: %w", coachID, err)
	}
	defer cursor.Close(ctx)

	var types []models.SessionType
	if err := cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (r *MongoSessionTypeRepo) Update(ctx context.Context, st *models.SessionType) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	st.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": st.ID}, st)
	if err != nil {
		return fmt.Errorf("failed to update session type %s: %w", st.ID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoSessionTypeRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete session type %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
