package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Nikolyamba/authsystem/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// verify MongoDB implements the database interface at compile time
var _ Database = (*MongoDB)(nil)

const userColl = "users"

type MongoDB struct {
	client *mongo.Client
	db     string
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
// The returned client must be closed with Close on shutdown.
func NewMongo(ctx context.Context, conn, db string) (*MongoDB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(conn))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	m := &MongoDB{client: client, db: db}

	// Unique email index backs the duplicate-email check under concurrent
	// registrations.
	_, err = m.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create email index: %w", err)
	}

	return m, nil
}

func (m *MongoDB) users() *mongo.Collection {
	return m.client.Database(m.db).Collection(userColl)
}

func (m *MongoDB) CreateUser(ctx context.Context, user CreateUser) (models.User, error) {
	dbuser := models.User{
		ID:         models.UserID(bson.NewObjectID()),
		CreatedAt:  time.Now().Unix(),
		UpdatedAt:  time.Now().Unix(),
		Name:       user.Name,
		Surname:    user.Surname,
		Patronymic: user.Patronymic,
		Email:      normalizeEmail(user.Email),
		Password:   user.PwdHash,
		IsActive:   true,
	}

	if _, err := m.users().InsertOne(ctx, dbuser); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrDuplicate
		}
		slog.Error("failed to insert user into database", "error", err)
		return models.User{}, err
	}

	return dbuser, nil
}

func (m *MongoDB) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (m *MongoDB) FindByEmail(ctx context.Context, email string) (user models.User, err error) {
	filter := bson.D{{Key: "email", Value: normalizeEmail(email)}}
	err = m.users().FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

func (m *MongoDB) FindByID(ctx context.Context, id models.UserID) (user models.User, err error) {
	filter := bson.D{{Key: "_id", Value: bson.ObjectID(id)}}
	err = m.users().FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

// Close disconnects the underlying MongoDB client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
