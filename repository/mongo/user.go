package mongostore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	userrepo "github.com/muhammadheryan/reliefbridge/repository/user"
)

type userStore struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) userrepo.UserRepository {
	return &userStore{coll: db.Collection(UserCollection)}
}

func userQuery(filter *model.UserFilter) bson.M {
	query := bson.M{}
	if filter.ID != "" {
		query["_id"] = filter.ID
	}
	if filter.Email != "" {
		query["email"] = filter.Email
	}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	if filter.Active != nil {
		query["active"] = *filter.Active
	}
	return query
}

func (s *userStore) Create(ctx context.Context, data *model.User) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if data.CreatedAt.IsZero() {
		data.CreatedAt = time.Now().UTC()
	}
	if _, err := s.coll.InsertOne(ctx, data); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return data, nil
}

func (s *userStore) Get(ctx context.Context, filter *model.UserFilter) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var entity model.User
	if err := s.coll.FindOne(ctx, userQuery(filter)).Decode(&entity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

func (s *userStore) List(ctx context.Context, filter *model.UserFilter) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.coll.Find(ctx, userQuery(filter), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := make([]model.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *userStore) UpdateLocation(ctx context.Context, id, location string, latitude, longitude float64) error {
	return s.update(ctx, id, bson.M{
		"location":   location,
		"latitude":   latitude,
		"longitude":  longitude,
		"updated_at": time.Now().UTC(),
	})
}

func (s *userStore) SetActive(ctx context.Context, id string, active bool) error {
	return s.update(ctx, id, bson.M{
		"active":     active,
		"updated_at": time.Now().UTC(),
	})
}

func (s *userStore) update(ctx context.Context, id string, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
