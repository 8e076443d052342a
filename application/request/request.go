package request

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadheryan/reliefbridge/application/matching"
	"github.com/muhammadheryan/reliefbridge/cmd/config"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	helprequestrepo "github.com/muhammadheryan/reliefbridge/repository/helprequest"
	userrepo "github.com/muhammadheryan/reliefbridge/repository/user"
	"github.com/muhammadheryan/reliefbridge/thirdparty/rabbitmq"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/geo"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	validatorx "github.com/muhammadheryan/reliefbridge/utils/validator"
	"go.uber.org/zap"
)

const defaultNotifyTimeout = 3 * time.Second

type RequestApp interface {
	Submit(ctx context.Context, actor *model.Actor, req *model.SubmitRequest) (*model.HelpRequest, error)
	Claim(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error)
	Complete(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error)
	MatchVolunteers(ctx context.Context, actor *model.Actor, id string) ([]model.MatchResult, error)
	Get(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error)
	Dashboard(ctx context.Context, actor *model.Actor) (*model.Dashboard, error)
	Live(ctx context.Context) (*model.LiveFeed, error)
}

type RequestAppImpl struct {
	requestRepo   helprequestrepo.HelpRequestRepository
	userRepo      userrepo.UserRepository
	notifier      rabbitmq.Notifier
	notifyTimeout time.Duration
	now           func() time.Time
}

// NewRequestApp wires the lifecycle. notifier may be nil, in which case
// nobody is alerted.
func NewRequestApp(cfg *config.Config, requestRepo helprequestrepo.HelpRequestRepository, userRepo userrepo.UserRepository, notifier rabbitmq.Notifier) RequestApp {
	timeout := defaultNotifyTimeout
	if cfg != nil && cfg.Notification.Timeout > 0 {
		timeout = cfg.Notification.Timeout
	}
	return &RequestAppImpl{
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		notifier:      notifier,
		notifyTimeout: timeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *RequestAppImpl) Submit(ctx context.Context, actor *model.Actor, req *model.SubmitRequest) (*model.HelpRequest, error) {
	if err := authorize(actor, capSubmit, nil); err != nil {
		return nil, err
	}

	if err := validatorx.ValidateStruct(req); err != nil {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, validatorx.Describe(err))
	}
	if !geo.ValidLatitude(*req.Latitude) {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "latitude must be between -90 and 90")
	}
	if !geo.ValidLongitude(*req.Longitude) {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "longitude must be between -180 and 180")
	}

	now := s.now()
	entity := &model.HelpRequest{
		ID:            uuid.NewString(),
		RequesterID:   actor.ID,
		RequesterName: actor.Name,
		RequestType:   strings.TrimSpace(req.RequestType),
		Description:   strings.TrimSpace(req.Description),
		Priority:      constant.Priority(req.Priority),
		Location:      strings.TrimSpace(req.Location),
		Latitude:      geo.RoundCoordinate(*req.Latitude),
		Longitude:     geo.RoundCoordinate(*req.Longitude),
		ContactPhone:  strings.TrimSpace(req.ContactPhone),
		Status:        constant.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.requestRepo.Create(ctx, entity); err != nil {
		logger.Error("[Submit] err requestRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	// the request is stored; from here on failures are only logged
	s.dispatch(ctx, "Submit", func(ctx context.Context) []rabbitmq.NotificationMessage {
		matches, err := s.match(ctx, entity)
		if err != nil {
			logger.Error("[Submit] err match", zap.String("request_id", entity.ID), zap.String("error", err.Error()))
		}
		return newRequestMessages(entity, matches)
	})

	return entity, nil
}

func (s *RequestAppImpl) Claim(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error) {
	if err := authorize(actor, capClaim, nil); err != nil {
		return nil, err
	}

	current, err := s.get(ctx, "Claim", id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, capClaim, current); err != nil {
		return nil, err
	}
	if !canTransition(current.Status, constant.RequestStatusInProgress) {
		return nil, errors.SetCustomError(constant.ErrAlreadyClaimed)
	}

	updated, err := s.requestRepo.Transition(ctx, id, &model.Transition{
		From:          constant.RequestStatusPending,
		To:            constant.RequestStatusInProgress,
		VolunteerID:   actor.ID,
		VolunteerName: actor.Name,
		At:            s.now(),
	})
	if err != nil {
		switch {
		case stdErrors.Is(err, repository.ErrConflict):
			return nil, errors.SetCustomError(constant.ErrAlreadyClaimed)
		case stdErrors.Is(err, repository.ErrNotFound):
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[Claim] err requestRepo.Transition", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	s.dispatch(ctx, "Claim", func(context.Context) []rabbitmq.NotificationMessage {
		return []rabbitmq.NotificationMessage{{
			Topic:     constant.UserTopic(updated.RequesterID),
			Subject:   "Your Help Request Was Claimed",
			Body:      fmt.Sprintf("%s is on the way for your %s request at %s.", actor.Name, updated.RequestType, updated.Location),
			RequestID: updated.ID,
			Priority:  string(updated.Priority),
		}}
	})

	return updated, nil
}

func (s *RequestAppImpl) Complete(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error) {
	if err := authorize(actor, capView, nil); err != nil {
		return nil, err
	}

	current, err := s.get(ctx, "Complete", id)
	if err != nil {
		return nil, err
	}
	// permission is decided before the state guard
	if err := authorize(actor, capComplete, current); err != nil {
		return nil, err
	}
	if !canTransition(current.Status, constant.RequestStatusCompleted) {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidStatus, fmt.Sprintf("request is %s", current.Status))
	}

	updated, err := s.requestRepo.Transition(ctx, id, &model.Transition{
		From: constant.RequestStatusInProgress,
		To:   constant.RequestStatusCompleted,
		At:   s.now(),
	})
	if err != nil {
		switch {
		case stdErrors.Is(err, repository.ErrConflict):
			detail := ""
			if updated != nil {
				detail = fmt.Sprintf("request is %s", updated.Status)
			}
			return nil, errors.SetCustomErrorDetail(constant.ErrInvalidStatus, detail)
		case stdErrors.Is(err, repository.ErrNotFound):
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[Complete] err requestRepo.Transition", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if actor.ID != updated.RequesterID {
		s.dispatch(ctx, "Complete", func(context.Context) []rabbitmq.NotificationMessage {
			return []rabbitmq.NotificationMessage{{
				Topic:     constant.UserTopic(updated.RequesterID),
				Subject:   "Your Help Request Was Completed",
				Body:      fmt.Sprintf("Your %s request at %s has been marked completed.", updated.RequestType, updated.Location),
				RequestID: updated.ID,
				Priority:  string(updated.Priority),
			}}
		})
	}

	return updated, nil
}

func (s *RequestAppImpl) MatchVolunteers(ctx context.Context, actor *model.Actor, id string) ([]model.MatchResult, error) {
	if err := authorize(actor, capView, nil); err != nil {
		return nil, err
	}

	current, err := s.get(ctx, "MatchVolunteers", id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, capMatch, current); err != nil {
		return nil, err
	}

	matches, err := s.match(ctx, current)
	if err != nil {
		logger.Error("[MatchVolunteers] err match", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	return matches, nil
}

func (s *RequestAppImpl) Get(ctx context.Context, actor *model.Actor, id string) (*model.HelpRequest, error) {
	if err := authorize(actor, capView, nil); err != nil {
		return nil, err
	}
	return s.get(ctx, "Get", id)
}

func (s *RequestAppImpl) Dashboard(ctx context.Context, actor *model.Actor) (*model.Dashboard, error) {
	if err := authorize(actor, capView, nil); err != nil {
		return nil, err
	}

	dashboard := &model.Dashboard{Role: actor.Role}
	var err error

	switch actor.Role {
	case constant.RoleVictim:
		dashboard.MyRequests, err = s.list(ctx, &model.HelpRequestFilter{RequesterID: actor.ID})
	case constant.RoleVolunteer:
		dashboard.Available, err = s.list(ctx, &model.HelpRequestFilter{
			Status: constant.RequestStatusPending,
			Limit:  constant.AvailableRequestsLimit,
		})
		if err == nil {
			sortByPriority(dashboard.Available)
			dashboard.MyClaimed, err = s.list(ctx, &model.HelpRequestFilter{VolunteerID: actor.ID})
		}
	case constant.RoleCoordinator, constant.RoleNGO:
		dashboard.Pending, err = s.list(ctx, &model.HelpRequestFilter{Status: constant.RequestStatusPending})
		if err == nil {
			dashboard.InProgress, err = s.list(ctx, &model.HelpRequestFilter{Status: constant.RequestStatusInProgress})
		}
	}
	if err != nil {
		logger.Error("[Dashboard] err requestRepo.List", zap.String("role", string(actor.Role)), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return dashboard, nil
}

func (s *RequestAppImpl) Live(ctx context.Context) (*model.LiveFeed, error) {
	requests, err := s.list(ctx, &model.HelpRequestFilter{Limit: constant.LiveRequestsLimit})
	if err != nil {
		logger.Error("[Live] err requestRepo.List", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	counts, err := s.requestRepo.CountByStatus(ctx)
	if err != nil {
		logger.Error("[Live] err requestRepo.CountByStatus", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.LiveFeed{Requests: requests, Counts: counts}, nil
}

func (s *RequestAppImpl) get(ctx context.Context, op, id string) (*model.HelpRequest, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "request id is required")
	}

	current, err := s.requestRepo.Get(ctx, id)
	if err != nil {
		logger.Error(fmt.Sprintf("[%s] err requestRepo.Get", op), zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if current == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return current, nil
}

func (s *RequestAppImpl) list(ctx context.Context, filter *model.HelpRequestFilter) ([]model.HelpRequest, error) {
	items, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.HelpRequest{}
	}
	return items, nil
}

// match ranks the active volunteers, never including the requester.
func (s *RequestAppImpl) match(ctx context.Context, req *model.HelpRequest) ([]model.MatchResult, error) {
	active := true
	volunteers, err := s.userRepo.List(ctx, &model.UserFilter{Role: constant.RoleVolunteer, Active: &active})
	if err != nil {
		return nil, err
	}

	candidates := make([]model.User, 0, len(volunteers))
	for _, v := range volunteers {
		if v.ID != req.RequesterID {
			candidates = append(candidates, v)
		}
	}

	return matching.Rank(req.Latitude, req.Longitude, candidates), nil
}

// dispatch builds and sends notifications in the background and waits for
// them at most notifyTimeout. Errors are logged and never returned.
func (s *RequestAppImpl) dispatch(ctx context.Context, op string, build func(context.Context) []rabbitmq.NotificationMessage) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Sprintf("[%s] notification panic", op), zap.Any("panic", r))
			}
		}()

		for _, msg := range build(ctx) {
			if msg.SentAt.IsZero() {
				msg.SentAt = s.now()
			}
			if err := s.notifier.Notify(ctx, msg); err != nil {
				logger.Error(fmt.Sprintf("[%s] err notifier.Notify", op),
					zap.String("topic", msg.Topic),
					zap.String("error", err.Error()))
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(fmt.Sprintf("[%s] notification dispatch abandoned", op), zap.Duration("timeout", s.notifyTimeout))
	}
}

func newRequestMessages(req *model.HelpRequest, matches []model.MatchResult) []rabbitmq.NotificationMessage {
	subject := fmt.Sprintf("New %s Request", req.RequestType)
	if req.Priority == constant.PriorityHigh {
		subject = "URGENT: New Help Request"
	}

	msgs := make([]rabbitmq.NotificationMessage, 0, len(matches)+1)
	msgs = append(msgs, rabbitmq.NotificationMessage{
		Topic:     constant.TopicVolunteers,
		Subject:   subject,
		Body:      fmt.Sprintf("%s priority %s request at %s: %s", req.Priority, req.RequestType, req.Location, req.Description),
		RequestID: req.ID,
		Priority:  string(req.Priority),
	})
	for _, m := range matches {
		msgs = append(msgs, rabbitmq.NotificationMessage{
			Topic:     constant.UserTopic(m.VolunteerID),
			Subject:   subject,
			Body:      fmt.Sprintf("You are %.1f km from a %s priority %s request at %s.", m.Distance, req.Priority, req.RequestType, req.Location),
			RequestID: req.ID,
			Priority:  string(req.Priority),
		})
	}
	return msgs
}

// sortByPriority keeps the newest-first order within one priority.
func sortByPriority(items []model.HelpRequest) {
	sort.SliceStable(items, func(i, j int) bool {
		return constant.PriorityRank[items[i].Priority] > constant.PriorityRank[items[j].Priority]
	})
}
