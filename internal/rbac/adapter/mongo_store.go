package adapter

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ DocumentStore = (*MongoStore)(nil)

// MongoStore implements DocumentStore on a MongoDB database.
// Collections map one to one onto Mongo collections and ids onto _id.
type MongoStore struct {
	DB *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{DB: db}
}

// IndexCollections names the collections EnsureIndexes touches.
type IndexCollections struct {
	UserRoles string
	Posts     string
	AuditLogs string
	Likes     string
	MapPoints string
}

func (s *MongoStore) EnsureIndexes(ctx context.Context, c IndexCollections) error {
	// userRoles are always looked up by user
	_, err := s.DB.Collection(c.UserRoles).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "assignedAt", Value: -1}},
		Options: options.Index().SetName("idx_user_assigned_at"),
	})
	if err != nil {
		return err
	}

	// Slug uniqueness is checked by the service before writing; the index is not unique
	// so legacy duplicates do not block startup.
	_, err = s.DB.Collection(c.Posts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("idx_slug"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_status_created_at"),
		},
		{
			Keys:    bson.D{{Key: "authorId", Value: 1}},
			Options: options.Index().SetName("idx_author"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.DB.Collection(c.AuditLogs).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_timestamp"),
		},
		{
			Keys:    bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_entity_timestamp"),
		},
	})
	if err != nil {
		return err
	}

	_, err = s.DB.Collection(c.Likes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "postId", Value: 1}},
		Options: options.Index().SetName("idx_post"),
	})
	if err != nil {
		return err
	}

	// Tag filters on posts use the multikey index.
	_, err = s.DB.Collection(c.Posts).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tags", Value: 1}},
		Options: options.Index().SetName("idx_tags"),
	})
	if err != nil {
		return err
	}

	_, err = s.DB.Collection(c.MapPoints).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "createdAt", Value: 1}},
		Options: options.Index().SetName("idx_created_at"),
	})
	return err
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (*Snapshot, error) {
	raw, err := s.DB.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return NewSnapshot(id, raw), nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc any, opts SetOptions) error {
	d, err := toDocument(id, doc)
	if err != nil {
		return err
	}
	coll := s.DB.Collection(collection)

	if !opts.Merge {
		_, err = coll.ReplaceOne(ctx, bson.M{"_id": id}, d, options.Replace().SetUpsert(true))
		return err
	}

	fields := bson.D{}
	for _, e := range d {
		if e.Key != "_id" {
			fields = append(fields, e)
		}
	}
	_, err = coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	res, err := s.DB.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: delta}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	id := NewID()
	d, err := toDocument(id, doc)
	if err != nil {
		return "", err
	}
	if _, err := s.DB.Collection(collection).InsertOne(ctx, d); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query) ([]*Snapshot, error) {
	findOptions := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		findOptions.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	} else {
		findOptions.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	if q.Offset > 0 {
		findOptions.SetSkip(int64(q.Offset))
	}
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}

	cursor, err := s.DB.Collection(collection).Find(ctx, mongoFilter(q.Where), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*Snapshot
	for cursor.Next(ctx) {
		// cursor.Current is reused between iterations
		raw := make(bson.Raw, len(cursor.Current))
		copy(raw, cursor.Current)
		id, _ := raw.Lookup("_id").StringValueOK()
		out = append(out, NewSnapshot(id, raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, where []Where) (int64, error) {
	return s.DB.Collection(collection).CountDocuments(ctx, mongoFilter(where))
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.DB.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *MongoStore) Now() time.Time {
	// BSON dates carry millisecond precision
	return time.Now().UTC().Truncate(time.Millisecond)
}

func mongoFilter(where []Where) bson.M {
	filter := bson.M{}
	for _, w := range where {
		switch w.Op {
		case OpEq:
			filter[w.Field] = w.Value
		case OpContains:
			// equality on an array field matches any element
			filter[w.Field] = w.Value
		case OpIn:
			addCondition(filter, w.Field, "$in", w.Value)
		case OpGte:
			addCondition(filter, w.Field, "$gte", w.Value)
		case OpLte:
			addCondition(filter, w.Field, "$lte", w.Value)
		}
	}
	return filter
}

func addCondition(filter bson.M, field, op string, value any) {
	cond, ok := filter[field].(bson.M)
	if !ok {
		cond = bson.M{}
		filter[field] = cond
	}
	cond[op] = value
}
