package store

import (
	"context"
	"errors"
	"fmt"

	"realtime_kanban/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ TaskStore = (*MongoStore)(nil)

	// ErrInvalidID is returned for ids that are not ObjectID hex strings.
	ErrInvalidID = errors.New("invalid task id")
)

type mongoTask struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Title  string             `bson:"title"`
	Status domain.Status      `bson:"status"`
}

func (m mongoTask) toDomain() domain.Task {
	return domain.Task{ID: m.ID.Hex(), Title: m.Title, Status: m.Status}
}

// MongoStore keeps one document per task; ids are ObjectID hex strings.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects lazily; a failed ping is returned but the store stays usable
// so the caller can decide whether to keep serving.
func OpenMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := &MongoStore{client: client, coll: client.Database(database).Collection(collection)}
	if err := s.Ping(ctx); err != nil {
		return s, fmt.Errorf("ping mongo: %w", err)
	}
	return s, nil
}

func (s *MongoStore) List(ctx context.Context) ([]domain.Task, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	res := []domain.Task{}
	for cur.Next(ctx) {
		var m mongoTask
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		res = append(res, m.toDomain())
	}
	return res, cur.Err()
}

func (s *MongoStore) Create(ctx context.Context, title string, status domain.Status) (domain.Task, error) {
	m := mongoTask{ID: primitive.NewObjectID(), Title: title, Status: status}
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return domain.Task{}, err
	}
	return m.toDomain(), nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m mongoTask
	err = s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: string(status)}}}},
		opts,
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}
	return m.toDomain(), nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	_, err = s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	return err
}

func (s *MongoStore) DeleteAll(ctx context.Context) error {
	_, err := s.coll.DeleteMany(ctx, bson.D{})
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
