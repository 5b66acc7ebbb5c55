package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akira/credential-service/internal/core/domain"
)

const usersCollection = "users"

// UserRepository implements ports.UserRepository on MongoDB. Email uniqueness
// is enforced by the unique index created in EnsureIndexes.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoRoleRef struct {
	ID   primitive.ObjectID `bson:"id"`
	Name string             `bson:"name"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Surname      string             `bson:"surname"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone"`
	Payment      string             `bson:"payment"`
	PasswordHash string             `bson:"password_hash"`
	Roles        []mongoRoleRef     `bson:"roles"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "count users by email")
	}
	return n > 0, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user by email")
	}
	return toDomainUser(&mu), nil
}

// Save inserts users without an ID and replaces the stored document otherwise.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := fromDomainUser(user)
	if err != nil {
		return nil, err
	}

	if doc.ID.IsZero() {
		res, err := r.coll.InsertOne(ctx, doc)
		if err != nil {
			return nil, writeError(err, "insert user")
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			doc.ID = oid
		}
		return toDomainUser(doc), nil
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return nil, writeError(err, "replace user")
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return toDomainUser(doc), nil
}

// EnsureIndexes creates the unique email index backing the uniqueness
// invariant.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return errors.Wrap(err, "create users indexes")
}

// writeError maps a rejection of the uniq_email index to domain.ErrEmailTaken
// and wraps anything else.
func writeError(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrEmailTaken
	}
	return errors.Wrap(err, op)
}

func fromDomainUser(u *domain.User) (*mongoUser, error) {
	doc := &mongoUser{
		Name:         u.Name,
		Surname:      u.Surname,
		Email:        u.Email,
		Phone:        u.Phone,
		Payment:      u.Payment,
		PasswordHash: u.PasswordHash,
		Roles:        make([]mongoRoleRef, 0, len(u.Roles)),
		CreatedAt:    u.CreatedAt.Unix(),
		UpdatedAt:    u.UpdatedAt.Unix(),
	}
	if u.ID != "" {
		oid, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid user id %q", u.ID)
		}
		doc.ID = oid
	}
	for _, role := range u.Roles {
		oid, err := primitive.ObjectIDFromHex(role.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid role id %q", role.ID)
		}
		doc.Roles = append(doc.Roles, mongoRoleRef{ID: oid, Name: role.Name})
	}
	return doc, nil
}

func toDomainUser(mu *mongoUser) *domain.User {
	roles := make([]domain.Role, 0, len(mu.Roles))
	for _, ref := range mu.Roles {
		roles = append(roles, domain.Role{ID: ref.ID.Hex(), Name: ref.Name})
	}
	return &domain.User{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		Surname:      mu.Surname,
		Email:        mu.Email,
		Phone:        mu.Phone,
		Payment:      mu.Payment,
		PasswordHash: mu.PasswordHash,
		Roles:        roles,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
