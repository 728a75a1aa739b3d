package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskflow/taskboard/internal/core/domain"
)

const collectionActivity = "task_activity"

type activityDoc struct {
	TaskID     int64     `bson:"task_id"`
	Entity     string    `bson:"entity"`
	EntityID   int64     `bson:"entity_id"`
	Action     string    `bson:"action"`
	ActorID    string    `bson:"actor_id"`
	At         time.Time `bson:"at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

// Record appends an entry to the task_activity audit collection.
func (r *ActivityRepository) Record(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, activityDoc{
		TaskID:     a.TaskID,
		Entity:     a.Entity,
		EntityID:   a.EntityID,
		Action:     a.Action,
		ActorID:    a.ActorID,
		At:         a.At.UTC(),
		RecordedAt: time.Now().UTC(),
	})
	return err
}

// ListForTask returns the newest entries of a task first.
func (r *ActivityRepository) ListForTask(ctx context.Context, taskID int64, limit int) ([]domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []activityDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Activity, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Activity{
			TaskID:   d.TaskID,
			Entity:   d.Entity,
			EntityID: d.EntityID,
			Action:   d.Action,
			ActorID:  d.ActorID,
			At:       d.At.UTC(),
		})
	}
	return out, nil
}

// EnsureIndexes creates the indexes the activity feed query relies on.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "task_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
