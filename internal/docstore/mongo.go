package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore stores each collection in the MongoDB collection of the same
// name. Searching relies on a text index on the collection.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo connects and pings the server.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = "appdb"
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if !ValidCollection(collection) {
		return "", ErrInvalidCollection
	}
	stored := bson.M{}
	for k, v := range doc {
		stored[k] = v
	}
	stored[TimestampField] = time.Now()

	res, err := s.db.Collection(collection).InsertOne(ctx, stored)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (s *MongoStore) Find(ctx context.Context, collection, query string, limit int) ([]Document, error) {
	if !ValidCollection(collection) {
		return nil, ErrInvalidCollection
	}
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}

	filter := bson.M{}
	if query != "" {
		filter = bson.M{"$text": bson.M{"$search": query}}
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(rows))
	for _, r := range rows {
		out = append(out, Document(r))
	}
	return out, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
