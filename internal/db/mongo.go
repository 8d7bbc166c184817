package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ukydev/rto-console/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the office database.
const (
	DocumentsCollection = "documents"
	StaffCollectionName = "staff"
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the console queries rely on.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	_, err := database.Collection(DocumentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "vehicle_number", Value: 1}, {Key: "type", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create documents index: %w", err)
	}
	_, err = database.Collection(StaffCollectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create staff index: %w", err)
	}
	return nil
}

// MongoDocumentCollection wraps a MongoDB collection for document records.
type MongoDocumentCollection struct {
	Collection *mongo.Collection
}

// InsertDocument inserts a document record and sets its ID and timestamps.
func (c *MongoDocumentCollection) InsertDocument(ctx context.Context, doc *models.DocumentRecord) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	_, err := c.Collection.InsertOne(ctx, doc)
	return err
}

// FindDocumentByID finds a document record by its ID.
func (c *MongoDocumentCollection) FindDocumentByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var doc models.DocumentRecord
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindDocumentsByVehicle returns every record of one vehicle, all types.
func (c *MongoDocumentCollection) FindDocumentsByVehicle(ctx context.Context, vehicleNumber string) ([]models.DocumentRecord, error) {
	return c.find(ctx, bson.M{"vehicle_number": vehicleNumber},
		options.Find().SetSort(bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}))
}

// FindAllDocuments returns every record, grouped by vehicle.
func (c *MongoDocumentCollection) FindAllDocuments(ctx context.Context) ([]models.DocumentRecord, error) {
	return c.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "vehicle_number", Value: 1}}))
}

func (c *MongoDocumentCollection) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.DocumentRecord, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []models.DocumentRecord{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// MarkRenewed flags a record as superseded by a later renewal.
func (c *MongoDocumentCollection) MarkRenewed(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"is_renewed": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// MongoStaffCollection implements StaffCollection for MongoDB
type MongoStaffCollection struct {
	Collection *mongo.Collection
}

// InsertStaff inserts a new staff account
func (c *MongoStaffCollection) InsertStaff(ctx context.Context, staff models.Staff) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()
	staff.IsActive = true

	_, err := c.Collection.InsertOne(ctx, staff)
	return err
}

// FindStaffByID finds a staff account by its ID
func (c *MongoStaffCollection) FindStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return c.findOne(ctx, bson.M{"_id": objectID})
}

// FindStaffByUsername finds a staff account by username
func (c *MongoStaffCollection) FindStaffByUsername(ctx context.Context, username string) (*models.Staff, error) {
	return c.findOne(ctx, bson.M{"username": username})
}

func (c *MongoStaffCollection) findOne(ctx context.Context, filter bson.M) (*models.Staff, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var staff models.Staff
	if err := c.Collection.FindOne(ctx, filter).Decode(&staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// UpdateLastLogin updates the last login time for a staff account
func (c *MongoStaffCollection) UpdateLastLogin(ctx context.Context, id string) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	now := time.Now()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	return err
}
