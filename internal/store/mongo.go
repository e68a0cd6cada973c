package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sereno-app/sereno/backend/internal/models"
)

// MongoConfig holds connection settings for the remote document store.
type MongoConfig struct {
	URI             string
	DBName          string
	Timeout         time.Duration
	MaxPoolSize     uint64
	IdleConnTimeout time.Duration
}

// MongoStore persists records in MongoDB, one collection per record kind, all
// scoped by userId with a compound (userId, createdAt desc) index.
type MongoStore struct {
	client  *mongo.Client
	dbName  string
	timeout time.Duration
}

// NewMongoStore connects, pings, and ensures indexes. A failed connect or ping
// is returned to the caller so the failover wrapper can pick the local backend.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo URI is empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMaxConnIdleTime(cfg.IdleConnTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, cfg.Timeout)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{
		client:  client,
		dbName:  cfg.DBName,
		timeout: cfg.Timeout,
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo index creation: %w", err)
	}
	return s, nil
}

func (s *MongoStore) collection(kind string) *mongo.Collection {
	return s.client.Database(s.dbName).Collection(kind)
}

func (s *MongoStore) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	userRecency := mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}
	for _, kind := range []string{kindAssessments, kindInterventions, kindBiometrics} {
		opCtx, cancel := s.opCtx(ctx)
		_, err := s.collection(kind).Indexes().CreateOne(opCtx, userRecency)
		cancel()
		if err != nil {
			return err
		}
	}
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.collection(kindPreferences).Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *MongoStore) WriteAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	return s.insert(ctx, kindAssessments, rec)
}

func (s *MongoStore) WriteIntervention(ctx context.Context, rec *models.InterventionRecord) error {
	return s.insert(ctx, kindInterventions, rec)
}

func (s *MongoStore) WriteBiometric(ctx context.Context, rec *models.BiometricSample) error {
	return s.insert(ctx, kindBiometrics, rec)
}

func (s *MongoStore) insert(ctx context.Context, kind string, doc any) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	_, err := s.collection(kind).InsertOne(opCtx, doc)
	if err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	return nil
}

// recencyFilter builds the per-user window filter and most-recent-first options.
func recencyFilter(userID string, opts QueryOptions) (bson.M, *options.FindOptions) {
	filter := bson.M{"userId": userID}
	if !opts.Since.IsZero() {
		filter["createdAt"] = bson.M{"$gte": opts.Since}
	}
	fo := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}
	return filter, fo
}

func (s *MongoStore) QueryAssessments(ctx context.Context, userID string, opts QueryOptions) ([]models.AssessmentRecord, error) {
	filter, fo := recencyFilter(userID, opts)
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.collection(kindAssessments).Find(opCtx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kindAssessments, err)
	}
	var recs []models.AssessmentRecord
	if err := cursor.All(opCtx, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kindAssessments, err)
	}
	return recs, nil
}

func (s *MongoStore) QueryInterventions(ctx context.Context, userID string, opts QueryOptions) ([]models.InterventionRecord, error) {
	filter, fo := recencyFilter(userID, opts)
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.collection(kindInterventions).Find(opCtx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kindInterventions, err)
	}
	var recs []models.InterventionRecord
	if err := cursor.All(opCtx, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kindInterventions, err)
	}
	return recs, nil
}

func (s *MongoStore) QueryBiometrics(ctx context.Context, userID string, opts QueryOptions) ([]models.BiometricSample, error) {
	filter, fo := recencyFilter(userID, opts)
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	cursor, err := s.collection(kindBiometrics).Find(opCtx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kindBiometrics, err)
	}
	var recs []models.BiometricSample
	if err := cursor.All(opCtx, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kindBiometrics, err)
	}
	return recs, nil
}

func (s *MongoStore) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	var prefs models.Preferences
	err := s.collection(kindPreferences).FindOne(opCtx, bson.M{"userId": userID}).Decode(&prefs)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kindPreferences, err)
	}
	return &prefs, nil
}

func (s *MongoStore) PutPreferences(ctx context.Context, prefs *models.Preferences) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()

	_, err := s.collection(kindPreferences).ReplaceOne(opCtx,
		bson.M{"userId": prefs.UserID},
		prefs,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", kindPreferences, err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	opCtx, cancel := s.opCtx(ctx)
	defer cancel()
	return s.client.Ping(opCtx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
