package mongostore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	mongostore "github.com/muhammadheryan/reliefbridge/repository/mongo"
)

const ns = "reliefbridge.help_requests"

func toDoc(t *testing.T, v interface{}) bson.D {
	t.Helper()
	raw, err := bson.Marshal(v)
	require.NoError(t, err)
	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	return doc
}

func stored(status constant.RequestStatus, volunteerID string) model.HelpRequest {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := model.HelpRequest{
		ID:          "req-1",
		RequesterID: "victim-1",
		RequestType: "Water",
		Priority:    constant.PriorityMedium,
		Latitude:    23.8103,
		Longitude:   90.4125,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if volunteerID != "" {
		r.VolunteerID = &volunteerID
	}
	return r
}

func claim(volunteerID string) *model.Transition {
	return &model.Transition{
		From:        constant.RequestStatusPending,
		To:          constant.RequestStatusInProgress,
		VolunteerID: volunteerID,
		At:          time.Now().UTC(),
	}
}

func TestHelpRequestStore_Transition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("claim applied", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: toDoc(t, stored(constant.RequestStatusInProgress, "vol-1"))},
		})

		got, err := repo.Transition(context.Background(), "req-1", claim("vol-1"))
		require.NoError(mt, err)
		assert.Equal(mt, constant.RequestStatusInProgress, got.Status)
		assert.Equal(mt, "vol-1", *got.VolunteerID)
	})

	mt.Run("claim lost to an earlier volunteer", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, toDoc(t, stored(constant.RequestStatusInProgress, "vol-1"))),
		)

		got, err := repo.Transition(context.Background(), "req-1", claim("vol-2"))
		assert.True(mt, errors.Is(err, repository.ErrConflict))
		require.NotNil(mt, got)
		assert.Equal(mt, "vol-1", *got.VolunteerID)
	})

	mt.Run("missing request", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(
			bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}},
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := repo.Transition(context.Background(), "req-1", claim("vol-2"))
		assert.True(mt, errors.Is(err, repository.ErrNotFound))
	})

	mt.Run("unsupported target", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)

		_, err := repo.Transition(context.Background(), "req-1", &model.Transition{
			From: constant.RequestStatusInProgress,
			To:   constant.RequestStatusPending,
		})
		assert.Error(mt, err)
	})
}

func TestHelpRequestStore_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserted", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		r := stored(constant.RequestStatusPending, "")
		assert.NoError(mt, repo.Create(context.Background(), &r))
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		r := stored(constant.RequestStatusPending, "")
		assert.True(mt, errors.Is(repo.Create(context.Background(), &r), repository.ErrDuplicate))
	})
}

func TestHelpRequestStore_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing is not an error", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		got, err := repo.Get(context.Background(), "nope")
		assert.NoError(mt, err)
		assert.Nil(mt, got)
	})
}

func TestHelpRequestStore_CountByStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing statuses count zero", func(mt *mtest.T) {
		repo := mongostore.NewHelpRequestRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "pending"}, {Key: "total", Value: int64(3)}},
			bson.D{{Key: "_id", Value: "completed"}, {Key: "total", Value: int64(7)}},
		))

		got, err := repo.CountByStatus(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, map[constant.RequestStatus]int64{
			constant.RequestStatusPending:    3,
			constant.RequestStatusInProgress: 0,
			constant.RequestStatusCompleted:  7,
		}, got)
	})
}
