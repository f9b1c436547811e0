package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ayush/devconnector/backend/internal/models"
)

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Avatar   string             `bson:"avatar"`
	Date     time.Time          `bson:"date"`
}

func (d *userDoc) model() *models.User {
	return &models.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
		Avatar:   d.Avatar,
		Date:     d.Date,
	}
}

// MongoUsers handles user CRUD in MongoDB.
type MongoUsers struct {
	col *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{col: db.Collection(usersCollection)}
}

func (s *MongoUsers) CreateUser(ctx context.Context, u *models.User) error {
	if u.Date.IsZero() {
		u.Date = time.Now().UTC()
	}
	doc := userDoc{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Avatar:   u.Avatar,
		Date:     u.Date,
	}
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return writeErr("insert user", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (s *MongoUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"email": email}), &doc); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (s *MongoUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc userDoc
	if err := decodeOne(s.col.FindOne(ctx, bson.M{"_id": oid}), &doc); err != nil {
		return nil, err
	}
	return doc.model(), nil
}

// GetUsersByIDs returns the users found, keyed by id. Unknown ids are skipped.
func (s *MongoUsers) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := parseID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]*models.User, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	cur, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("mongo find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode users: %w", err)
	}
	for i := range docs {
		u := docs[i].model()
		out[u.ID] = u
	}
	return out, nil
}

func (s *MongoUsers) UpdateAvatar(ctx context.Context, id, avatar string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"avatar": avatar}})
	if err != nil {
		return fmt.Errorf("mongo update avatar: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUsers) DeleteUser(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return nil
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("mongo delete user: %w", err)
	}
	return nil
}
