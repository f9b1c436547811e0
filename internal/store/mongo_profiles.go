package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/devconnector/backend/internal/models"
)

// MongoProfiles handles profile documents in MongoDB.
type MongoProfiles struct {
	col *mongo.Collection
}

func NewMongoProfiles(db *mongo.Database) *MongoProfiles {
	return &MongoProfiles{col: db.Collection(profilesCollection)}
}

func (s *MongoProfiles) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"user": userID})
}

func (s *MongoProfiles) GetByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	return s.findOne(ctx, bson.M{"handle": handle})
}

func (s *MongoProfiles) List(ctx context.Context) ([]models.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "handle", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find profiles: %w", err)
	}
	defer cur.Close(ctx)

	var profiles []models.Profile
	if err := cur.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("mongo decode profiles: %w", err)
	}
	return profiles, nil
}

// HandleTaken reports whether handle belongs to a profile not owned by userID.
func (s *MongoProfiles) HandleTaken(ctx context.Context, handle, userID string) (bool, error) {
	return exists(ctx, s.col, bson.M{"handle": handle, "user": bson.M{"$ne": userID}})
}

func (s *MongoProfiles) Create(ctx context.Context, p *models.Profile) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	_, err := s.col.InsertOne(ctx, p)
	return writeErr("insert profile", err)
}

// Update applies the present fields of req to the user's profile.
func (s *MongoProfiles) Update(ctx context.Context, userID string, req models.ProfileRequest) (*models.Profile, error) {
	set := profileSet(req)
	if len(set) == 0 {
		return s.GetByUser(ctx, userID)
	}
	var p models.Profile
	err := decodeOne(s.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": set}, returnAfter), &p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, writeErr("update profile", err)
	}
	return &p, nil
}

func (s *MongoProfiles) PushExperience(ctx context.Context, userID string, exp models.Experience) (*models.Profile, error) {
	return s.findAndUpdate(ctx, userID, pushFront("experience", exp))
}

func (s *MongoProfiles) PushEducation(ctx context.Context, userID string, edu models.Education) (*models.Profile, error) {
	return s.findAndUpdate(ctx, userID, pushFront("education", edu))
}

// PullExperience removes the entry with expID. An unknown or malformed id
// leaves the list unchanged.
func (s *MongoProfiles) PullExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	oid, err := parseID(expID)
	if err != nil {
		return s.GetByUser(ctx, userID)
	}
	return s.findAndUpdate(ctx, userID, pullByID("experience", oid))
}

func (s *MongoProfiles) PullEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	oid, err := parseID(eduID)
	if err != nil {
		return s.GetByUser(ctx, userID)
	}
	return s.findAndUpdate(ctx, userID, pullByID("education", oid))
}

func (s *MongoProfiles) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		return fmt.Errorf("mongo delete profile: %w", err)
	}
	return nil
}

func (s *MongoProfiles) findOne(ctx context.Context, filter bson.M) (*models.Profile, error) {
	var p models.Profile
	if err := decodeOne(s.col.FindOne(ctx, filter), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mongo find profile: %w", err)
	}
	return &p, nil
}

func (s *MongoProfiles) findAndUpdate(ctx context.Context, userID string, update bson.M) (*models.Profile, error) {
	var p models.Profile
	if err := decodeOne(s.col.FindOneAndUpdate(ctx, bson.M{"user": userID}, update, returnAfter), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mongo update profile: %w", err)
	}
	return &p, nil
}
