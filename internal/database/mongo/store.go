package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muratoffalex/tgchecker/internal/config"
	"github.com/muratoffalex/tgchecker/internal/logger"
	"github.com/muratoffalex/tgchecker/internal/probe"
)

const (
	recordsCollection  = "check_results"
	statesCollection   = "probe_states"
	sessionsCollection = "probe_sessions"
)

// Store keeps the probe log in MongoDB.
type Store struct {
	client       *mongo.Client
	records      *mongo.Collection
	states       *mongo.Collection
	sessions     *mongo.Collection
	transactions bool
	logger       logger.Logger
}

type recordDocument struct {
	probe.Record `bson:",inline"`
	Order        primitive.ObjectID `bson:"order"`
}

type sessionDocument struct {
	RequesterID int64     `bson:"_id"`
	Data        []byte    `bson:"data"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func NewStore(ctx context.Context, cfg config.MongoConfig, l logger.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(cfg.Database)
	s := &Store{
		client:   client,
		records:  db.Collection(recordsCollection),
		states:   db.Collection(statesCollection),
		sessions: db.Collection(sessionsCollection),
		logger:   l.WithField("component", "mongo"),
	}
	s.transactions = s.supportsTransactions(ctx)

	_, err = s.records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "order", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}

	s.logger.WithFields(logger.Fields{
		"database":     cfg.Database,
		"transactions": s.transactions,
	}).Info("Mongo probe store ready")

	return s, nil
}

// supportsTransactions is true for replica set members and mongos.
func (s *Store) supportsTransactions(ctx context.Context) bool {
	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	err := s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		s.logger.WithError(err).Warn("hello command failed, writes will not be transactional")
		return false
	}
	return hello.SetName != "" || hello.Msg == "isdbgrid"
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Append(ctx context.Context, rec probe.Record, state probe.State) error {
	write := func(ctx context.Context) error {
		if _, err := s.records.InsertOne(ctx, recordDocument{Record: rec, Order: primitive.NewObjectID()}); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
		_, err := s.states.ReplaceOne(ctx,
			bson.M{"_id": state.RequesterID},
			state,
			options.Replace().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		return nil
	}

	if !s.transactions {
		return write(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, write(sc)
	})
	return err
}

func (s *Store) FindLatest(ctx context.Context, requesterID int64, filter probe.Filter) (*probe.Record, error) {
	query := bson.M{"requester_id": requesterID}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}
	if filter.Outcome != "" {
		query["outcome"] = filter.Outcome
	}

	var doc recordDocument
	err := s.records.FindOne(ctx, query,
		options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc.Record, nil
}

func (s *Store) GetState(ctx context.Context, requesterID int64) (*probe.State, error) {
	var state probe.State
	err := s.states.FindOne(ctx, bson.M{"_id": requesterID}).Decode(&state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, probe.ErrNoState
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) LoadSession(ctx context.Context, requesterID int64) ([]byte, error) {
	var doc sessionDocument
	err := s.sessions.FindOne(ctx, bson.M{"_id": requesterID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

func (s *Store) StoreSession(ctx context.Context, requesterID int64, data []byte) error {
	_, err := s.sessions.ReplaceOne(ctx,
		bson.M{"_id": requesterID},
		sessionDocument{RequesterID: requesterID, Data: data, UpdatedAt: time.Now().UTC()},
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *Store) DeleteSession(ctx context.Context, requesterID int64) error {
	_, err := s.sessions.DeleteOne(ctx, bson.M{"_id": requesterID})
	return err
}
