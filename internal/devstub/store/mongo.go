package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink/portal/internal/core/domain"
)

const (
	usersCollection = "users"
	queryTimeout    = 10 * time.Second
)

// MongoUsers persists stub accounts in MongoDB so a long-lived stub survives
// restarts.
type MongoUsers struct {
	coll *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Email            string             `bson:"email"`
	Role             string             `bson:"role"`
	PasswordHash     string             `bson:"password_hash"`
	EnrollmentNumber string             `bson:"enrollment_number,omitempty"`
	Department       string             `bson:"department,omitempty"`
	GraduationYear   string             `bson:"graduation_year,omitempty"`
	CurrentPosition  string             `bson:"current_position,omitempty"`
	CreatedAt        int64              `bson:"created_at"`
}

func (m *MongoUsers) Create(ctx context.Context, u User) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := m.FindByEmail(ctx, u.Email); err == nil {
		return User{}, domain.ErrUserExists
	}

	doc := mongoUser{
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		PasswordHash:     u.PasswordHash,
		EnrollmentNumber: u.EnrollmentNumber,
		Department:       u.Department,
		GraduationYear:   u.GraduationYear,
		CurrentPosition:  u.CurrentPosition,
		CreatedAt:        time.Now().Unix(),
	}
	res, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, domain.ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return u, nil
}

func (m *MongoUsers) FindByEmail(ctx context.Context, email string) (User, error) {
	var mu mongoUser
	if err := m.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, domain.ErrUserNotFound
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}
	return User{
		User: domain.User{
			ID:               mu.ID.Hex(),
			Name:             mu.Name,
			Email:            mu.Email,
			Role:             mu.Role,
			EnrollmentNumber: mu.EnrollmentNumber,
			Department:       mu.Department,
			GraduationYear:   mu.GraduationYear,
			CurrentPosition:  mu.CurrentPosition,
		},
		PasswordHash: mu.PasswordHash,
	}, nil
}

func (m *MongoUsers) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"password_hash": passwordHash}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// MongoResources stores each resource family in its own collection. The
// documents stay schemaless; only the string id is normalised.
type MongoResources struct {
	db *mongo.Database
}

func NewMongoResources(db *mongo.Database) *MongoResources {
	return &MongoResources{db: db}
}

func (m *MongoResources) List(ctx context.Context, resource string, q domain.ListQuery) ([]map[string]any, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	coll := m.db.Collection(resource)
	filter := bson.M{}
	if q.Search != "" {
		regex := primitive.Regex{Pattern: q.Search, Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": regex},
			bson.M{"title": regex},
			bson.M{"email": regex},
			bson.M{"code": regex},
		}
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", resource, err)
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", resource, err)
	}
	defer cur.Close(ctx)

	docs := []map[string]any{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode %s: %w", resource, err)
		}
		docs = append(docs, normalizeDoc(doc))
	}
	return docs, int(total), cur.Err()
}

func (m *MongoResources) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc bson.M
	if err := m.db.Collection(resource).FindOne(ctx, bson.M{"id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("get %s: %w", resource, err)
	}
	return normalizeDoc(doc), nil
}

func (m *MongoResources) Insert(ctx context.Context, resource string, doc map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc = cloneDoc(doc)
	doc["id"] = uuid.NewString()
	if _, err := m.db.Collection(resource).InsertOne(ctx, bson.M(doc)); err != nil {
		return nil, fmt.Errorf("insert %s: %w", resource, err)
	}
	return doc, nil
}

func (m *MongoResources) Update(ctx context.Context, resource, id string, patch map[string]any) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	patch = cloneDoc(patch)
	delete(patch, "id")

	coll := m.db.Collection(resource)
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var updated bson.M
	err := coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(patch)}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("update %s: %w", resource, err)
	}
	return normalizeDoc(updated), nil
}

func (m *MongoResources) Delete(ctx context.Context, resource, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := m.db.Collection(resource).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// normalizeDoc strips Mongo internals so the wire shape matches the memory
// store exactly.
func normalizeDoc(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
