package accounts

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection settings for the account directory.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoRepository implements Repository on MongoDB.
type MongoRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	ctxTimeout time.Duration
}

// NewMongoRepository connects to cfg and ensures the expected indexes exist.
func NewMongoRepository(ctx context.Context, cfg MongoConfig) (*MongoRepository, error) {
	if cfg.URI == "" {
		cfg.URI = "mongodb://localhost:27017"
	}
	if cfg.Database == "" {
		cfg.Database = "chaos_core"
	}
	if cfg.Collection == "" {
		cfg.Collection = "player_profiles"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, err
	}

	repo := &MongoRepository{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		ctxTimeout: 5 * time.Second,
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (m *MongoRepository) ensureIndexes(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()
	nameIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	}
	playerIDIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "player_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("player_id_unique"),
	}
	_, err := m.collection.Indexes().CreateMany(opCtx, []mongo.IndexModel{nameIdx, playerIDIdx})
	return err
}

type profileDoc struct {
	PlayerID  string    `bson:"player_id"`
	Name      string    `bson:"name"`
	CreatedAt time.Time `bson:"created_at"`
	LastSeen  time.Time `bson:"last_seen"`
}

func (m *MongoRepository) GetByName(ctx context.Context, name string) (*Profile, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()
	var doc profileDoc
	err := m.collection.FindOne(opCtx, bson.M{"name": strings.ToLower(name)}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

func (m *MongoRepository) GetByPlayerID(ctx context.Context, playerID string) (*Profile, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()
	var doc profileDoc
	err := m.collection.FindOne(opCtx, bson.M{"player_id": playerID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

func (m *MongoRepository) CreateOrTouch(ctx context.Context, name string, newPlayerID string) (*Profile, error) {
	opCtx, cancel := context.WithTimeout(ctx, m.ctxTimeout)
	defer cancel()

	now := time.Now()
	key := strings.ToLower(name)

	res := m.collection.FindOneAndUpdate(opCtx,
		bson.M{"name": key},
		bson.M{
			"$set":         bson.M{"last_seen": now},
			"$setOnInsert": bson.M{"player_id": newPlayerID, "name": key, "created_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var doc profileDoc
	if err := res.Decode(&doc); err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

func toProfile(doc profileDoc) *Profile {
	return &Profile{PlayerID: doc.PlayerID, Name: doc.Name, CreatedAt: doc.CreatedAt, LastSeen: doc.LastSeen}
}

func (m *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
