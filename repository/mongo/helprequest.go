package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	helprequestrepo "github.com/muhammadheryan/reliefbridge/repository/helprequest"
)

type helpRequestStore struct {
	coll *mongo.Collection
}

func NewHelpRequestRepository(db *mongo.Database) helprequestrepo.HelpRequestRepository {
	return &helpRequestStore{coll: db.Collection(HelpRequestCollection)}
}

func (s *helpRequestStore) Create(ctx context.Context, req *model.HelpRequest) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (s *helpRequestStore) Get(ctx context.Context, id string) (*model.HelpRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var entity model.HelpRequest
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&entity); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &entity, nil
}

// Transition filters on the expected status inside FindOneAndUpdate, which
// makes the status check and the write a single atomic operation.
func (s *helpRequestStore) Transition(ctx context.Context, id string, t *model.Transition) (*model.HelpRequest, error) {
	set := bson.M{
		"status":     t.To,
		"updated_at": t.At,
	}
	switch t.To {
	case constant.RequestStatusInProgress:
		set["volunteer_id"] = t.VolunteerID
		set["volunteer_name"] = t.VolunteerName
		set["claimed_at"] = t.At
	case constant.RequestStatusCompleted:
		set["completed_at"] = t.At
	default:
		return nil, fmt.Errorf("unsupported transition to %q", t.To)
	}

	tctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated model.HelpRequest
	err := s.coll.FindOneAndUpdate(tctx,
		bson.M{"_id": id, "status": t.From},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, repository.ErrNotFound
	}
	return current, repository.ErrConflict
}

func (s *helpRequestStore) List(ctx context.Context, filter *model.HelpRequestFilter) ([]model.HelpRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.RequesterID != "" {
		query["requester_id"] = filter.RequesterID
	}
	if filter.VolunteerID != "" {
		query["volunteer_id"] = filter.VolunteerID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cur, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := make([]model.HelpRequest, 0)
	for cur.Next(ctx) {
		var item model.HelpRequest
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, cur.Err()
}

func (s *helpRequestStore) CountByStatus(ctx context.Context) (map[constant.RequestStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	counts := map[constant.RequestStatus]int64{
		constant.RequestStatusPending:    0,
		constant.RequestStatusInProgress: 0,
		constant.RequestStatusCompleted:  0,
	}
	for cur.Next(ctx) {
		var row struct {
			Status constant.RequestStatus `bson:"_id"`
			Total  int64                  `bson:"total"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		counts[row.Status] = row.Total
	}
	return counts, cur.Err()
}
