// Package mongo stores sealed notes in a MongoDB collection.
//
// Each document keeps the envelope in encryptedData next to createdAt and
// updatedAt timestamps.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/illarion/sealnote/internal/storage"
)

// CollectionName is the collection holding notes
const CollectionName = "notes"

// Config holds connection settings
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type document struct {
	ID            string    `bson:"_id"`
	EncryptedData string    `bson:"encryptedData"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

// Store is a MongoDB-backed note store
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Open connects to MongoDB and verifies the connection with a ping
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo URI is required")
	}
	if cfg.Database == "" {
		return nil, errors.New("mongo database name is required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(CollectionName),
	}, nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Put inserts or replaces a note
func (s *Store) Put(ctx context.Context, note storage.Note) error {
	if note.ID == "" {
		return errors.New("note ID is required")
	}

	doc := toDocument(note)
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to store note: %w", err)
	}
	return nil
}

// Get retrieves a note by ID
func (s *Store) Get(ctx context.Context, id string) (*storage.Note, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note: %w", err)
	}

	note := fromDocument(doc)
	return &note, nil
}

// Delete removes a note by ID
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNoteNotFound
	}
	return nil
}

// List returns all notes, oldest first
func (s *Store) List(ctx context.Context) ([]storage.Note, error) {
	cur, err := s.collection.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read notes: %w", err)
	}

	notes := make([]storage.Note, 0, len(docs))
	for _, doc := range docs {
		notes = append(notes, fromDocument(doc))
	}
	return notes, nil
}

func toDocument(n storage.Note) document {
	return document{
		ID:            n.ID,
		EncryptedData: n.Envelope,
		CreatedAt:     n.Created,
		UpdatedAt:     n.Updated,
	}
}

func fromDocument(d document) storage.Note {
	return storage.Note{
		ID:       d.ID,
		Envelope: d.EncryptedData,
		Created:  d.CreatedAt,
		Updated:  d.UpdatedAt,
	}
}
