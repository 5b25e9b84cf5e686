package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/dairy/internal/domain/models"
)

const (
	milkCollection     = "milk_entries"
	paymentsCollection = "payments"
	usersCollection    = "users"
)

// MongoDBRepository reads dashboard records from MongoDB collections.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	loc    *time.Location
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository. Stored timestamps
// are read as calendar days in loc; a nil loc means UTC.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, loc *time.Location, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		if derr := client.Disconnect(ctx); derr != nil {
			logger.Warn("failed to disconnect after ping failure", zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		loc:    loc,
		logger: logger,
	}, nil
}

// FetchMilkEntries returns every document of the milk_entries collection.
func (r *MongoDBRepository) FetchMilkEntries(ctx context.Context) ([]models.Record, error) {
	return r.findAll(ctx, milkCollection, bson.D{{Key: "date", Value: 1}})
}

// FetchPayments returns every document of the payments collection.
func (r *MongoDBRepository) FetchPayments(ctx context.Context) ([]models.Record, error) {
	return r.findAll(ctx, paymentsCollection, nil)
}

// FetchUsers returns every document of the users collection.
func (r *MongoDBRepository) FetchUsers(ctx context.Context) ([]models.Record, error) {
	return r.findAll(ctx, usersCollection, nil)
}

func (r *MongoDBRepository) findAll(ctx context.Context, collName string, sort bson.D) ([]models.Record, error) {
	opts := options.Find()
	if sort != nil {
		opts.SetSort(sort)
	}

	cursor, err := r.client.Database(r.dbName).Collection(collName).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collName, err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collName, err)
	}

	records := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, normalize(doc, r.loc))
	}

	r.logger.Debug("collection loaded", zap.String("collection", collName), zap.Int("documents", len(records)))
	return records, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// normalize converts BSON specific values into the plain values the record
// decoder understands.
func normalize(doc bson.M, loc *time.Location) models.Record {
	rec := make(models.Record, len(doc))
	for key, value := range doc {
		rec[key] = normalizeValue(value, loc)
	}
	return rec
}

func normalizeValue(value any, loc *time.Location) any {
	switch v := value.(type) {
	case primitive.DateTime:
		return v.Time().In(loc).Format(models.DateLayout)
	case time.Time:
		return v.In(loc).Format(models.DateLayout)
	case primitive.Decimal128:
		return v.String()
	case primitive.ObjectID:
		return v.Hex()
	default:
		return v
	}
}
