package request_test

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"
	"time"

	apprequest "github.com/muhammadheryan/reliefbridge/application/request"
	"github.com/muhammadheryan/reliefbridge/cmd/config"
	"github.com/muhammadheryan/reliefbridge/constant"
	requestmocks "github.com/muhammadheryan/reliefbridge/mocks/repository/helprequest"
	usermocks "github.com/muhammadheryan/reliefbridge/mocks/repository/user"
	notifiermocks "github.com/muhammadheryan/reliefbridge/mocks/thirdparty/rabbitmq"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	"github.com/muhammadheryan/reliefbridge/thirdparty/rabbitmq"
	cerr "github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/stretchr/testify/mock"
)

var (
	testConfig = &config.Config{Notification: config.NotificationConfig{Timeout: time.Second}}

	victim      = &model.Actor{ID: "victim-1", Role: constant.RoleVictim, Name: "Vic"}
	volunteer   = &model.Actor{ID: "vol-1", Role: constant.RoleVolunteer, Name: "Val"}
	volunteer2  = &model.Actor{ID: "vol-2", Role: constant.RoleVolunteer, Name: "Vera"}
	coordinator = &model.Actor{ID: "coord-1", Role: constant.RoleCoordinator, Name: "Cora"}
	ngo         = &model.Actor{ID: "ngo-1", Role: constant.RoleNGO, Name: "Relief Org"}

	activeVolunteers = &model.UserFilter{Role: constant.RoleVolunteer, Active: boolPtr(true)}
)

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func strPtr(s string) *string { return &s }

func assertErrCode(t *testing.T, err error, want constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[want] {
		t.Fatalf("error code = %s, want %s (%v)", ce.ErrorCode(), constant.ErrorTypeCode[want], err)
	}
}

func pendingRequest() *model.HelpRequest {
	return &model.HelpRequest{
		ID:          "req-1",
		RequesterID: victim.ID,
		RequestType: "Medical",
		Priority:    constant.PriorityHigh,
		Location:    "Lower Manhattan",
		Latitude:    40.7128,
		Longitude:   -74.006,
		Status:      constant.RequestStatusPending,
	}
}

func claimedRequest(by string) *model.HelpRequest {
	r := pendingRequest()
	r.Status = constant.RequestStatusInProgress
	r.VolunteerID = strPtr(by)
	return r
}

func validSubmit() *model.SubmitRequest {
	return &model.SubmitRequest{
		RequestType:  "Medical",
		Description:  "Insulin needed for elderly resident",
		Priority:     "medium",
		Location:     "Lower Manhattan",
		Latitude:     floatPtr(40.71280049),
		Longitude:    floatPtr(-74.00601),
		ContactPhone: "+15550100",
	}
}

func TestRequestApp_Submit(t *testing.T) {
	type fields struct {
		requestRepo *requestmocks.HelpRequestRepository
		userRepo    *usermocks.UserRepository
		notifier    *notifiermocks.Notifier
	}
	type args struct {
		actor *model.Actor
		req   *model.SubmitRequest
	}
	tests := []struct {
		name     string
		args     args
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: persisted pending with rounded coordinates and volunteers notified",
			args: args{actor: victim, req: validSubmit()},
			mockCall: func(f fields) {
				f.requestRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(h *model.HelpRequest) bool {
						return h.ID != "" &&
							h.RequesterID == "victim-1" &&
							h.RequesterName == "Vic" &&
							h.Status == constant.RequestStatusPending &&
							h.VolunteerID == nil &&
							h.Latitude == 40.7128 &&
							h.Longitude == -74.00601
					})).
					Return(nil).
					Once()
				f.userRepo.
					On("List", mock.Anything, activeVolunteers).
					Return([]model.User{
						{ID: "vol-1", Name: "Val", Role: constant.RoleVolunteer, Latitude: floatPtr(40.7138), Longitude: floatPtr(-74.005)},
						{ID: "vol-3", Name: "Nowhere", Role: constant.RoleVolunteer},
					}, nil).
					Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == constant.TopicVolunteers && m.Subject == "New Medical Request" && m.RequestID != ""
					})).
					Return(nil).
					Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == "user.vol-1" && m.Subject == "New Medical Request"
					})).
					Return(nil).
					Once()
			},
		},
		{
			name: "success: high priority uses urgent subject",
			args: args{actor: victim, req: func() *model.SubmitRequest {
				r := validSubmit()
				r.Priority = "high"
				return r
			}()},
			mockCall: func(f fields) {
				f.requestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
				f.userRepo.On("List", mock.Anything, activeVolunteers).Return([]model.User{}, nil).Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == constant.TopicVolunteers && m.Subject == "URGENT: New Help Request" && m.Priority == "high"
					})).
					Return(nil).
					Once()
			},
		},
		{
			name: "success: requester is never matched with themselves",
			args: args{actor: volunteer, req: validSubmit()},
			mockCall: func(f fields) {
				f.requestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
				f.userRepo.
					On("List", mock.Anything, activeVolunteers).
					Return([]model.User{
						{ID: "vol-1", Role: constant.RoleVolunteer, Latitude: floatPtr(40.7128), Longitude: floatPtr(-74.006)},
					}, nil).
					Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == constant.TopicVolunteers
					})).
					Return(nil).
					Once()
			},
		},
		{
			name: "success: notifier failure does not fail the submission",
			args: args{actor: victim, req: validSubmit()},
			mockCall: func(f fields) {
				f.requestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
				f.userRepo.On("List", mock.Anything, activeVolunteers).Return([]model.User{}, nil).Once()
				f.notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
			},
		},
		{
			name: "success: matching failure still broadcasts",
			args: args{actor: victim, req: validSubmit()},
			mockCall: func(f fields) {
				f.requestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
				f.userRepo.On("List", mock.Anything, activeVolunteers).Return(nil, errors.New("db error")).Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == constant.TopicVolunteers
					})).
					Return(nil).
					Once()
			},
		},
		{
			name: "error: latitude out of range is rejected without persistence",
			args: args{actor: victim, req: func() *model.SubmitRequest {
				r := validSubmit()
				r.Latitude = floatPtr(95)
				return r
			}()},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: longitude out of range",
			args: args{actor: victim, req: func() *model.SubmitRequest {
				r := validSubmit()
				r.Longitude = floatPtr(-180.5)
				return r
			}()},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: missing coordinates",
			args: args{actor: victim, req: func() *model.SubmitRequest {
				r := validSubmit()
				r.Latitude = nil
				return r
			}()},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name: "error: unknown priority",
			args: args{actor: victim, req: func() *model.SubmitRequest {
				r := validSubmit()
				r.Priority = "critical"
				return r
			}()},
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
		{
			name:    "error: no actor",
			args:    args{actor: nil, req: validSubmit()},
			wantErr: true,
			errCode: constant.ErrUnauthorize,
		},
		{
			name: "error: store failure",
			args: args{actor: victim, req: validSubmit()},
			mockCall: func(f fields) {
				f.requestRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				requestRepo: requestmocks.NewHelpRequestRepository(t),
				userRepo:    usermocks.NewUserRepository(t),
				notifier:    notifiermocks.NewNotifier(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := apprequest.NewRequestApp(testConfig, f.requestRepo, f.userRepo, f.notifier)

			got, err := app.Submit(context.Background(), tt.args.actor, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Submit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got.Status != constant.RequestStatusPending || got.VolunteerID != nil {
				t.Fatalf("Submit() = %+v, want pending without volunteer", got)
			}
		})
	}
}

func TestRequestApp_Submit_NotificationTimeout(t *testing.T) {
	requestRepo := requestmocks.NewHelpRequestRepository(t)
	userRepo := usermocks.NewUserRepository(t)
	notifier := notifiermocks.NewNotifier(t)

	requestRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	userRepo.On("List", mock.Anything, activeVolunteers).Return([]model.User{}, nil).Once()
	notifier.
		On("Notify", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).
		Once()

	cfg := &config.Config{Notification: config.NotificationConfig{Timeout: 50 * time.Millisecond}}
	app := apprequest.NewRequestApp(cfg, requestRepo, userRepo, notifier)

	start := time.Now()
	got, err := app.Submit(context.Background(), victim, validSubmit())
	if err != nil {
		t.Fatalf("Submit() error = %v, want nil", err)
	}
	if got == nil {
		t.Fatal("Submit() returned nil request")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Submit() blocked for %s on a stuck notifier", elapsed)
	}
}

func TestRequestApp_Claim(t *testing.T) {
	type fields struct {
		requestRepo *requestmocks.HelpRequestRepository
		notifier    *notifiermocks.Notifier
	}
	tests := []struct {
		name     string
		actor    *model.Actor
		id       string
		mockCall func(f fields)
		want     *model.HelpRequest
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:  "success: volunteer claims pending request",
			actor: volunteer,
			id:    "req-1",
			mockCall: func(f fields) {
				f.requestRepo.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				f.requestRepo.
					On("Transition", mock.Anything, "req-1", mock.MatchedBy(func(tr *model.Transition) bool {
						return tr.From == constant.RequestStatusPending &&
							tr.To == constant.RequestStatusInProgress &&
							tr.VolunteerID == "vol-1" &&
							tr.VolunteerName == "Val" &&
							!tr.At.IsZero()
					})).
					Return(claimedRequest("vol-1"), nil).
					Once()
				f.notifier.
					On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
						return m.Topic == "user.victim-1" && m.Subject == "Your Help Request Was Claimed"
					})).
					Return(nil).
					Once()
			},
			want: claimedRequest("vol-1"),
		},
		{
			name:  "error: lost the race to another volunteer",
			actor: volunteer2,
			id:    "req-1",
			mockCall: func(f fields) {
				f.requestRepo.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				f.requestRepo.
					On("Transition", mock.Anything, "req-1", mock.Anything).
					Return(claimedRequest("vol-1"), repository.ErrConflict).
					Once()
			},
			wantErr: true,
			errCode: constant.ErrAlreadyClaimed,
		},
		{
			name:  "error: already claimed",
			actor: volunteer2,
			id:    "req-1",
			mockCall: func(f fields) {
				f.requestRepo.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrAlreadyClaimed,
		},
		{
			name:    "error: victims cannot claim",
			actor:   victim,
			id:      "req-1",
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:    "error: coordinators cannot claim",
			actor:   coordinator,
			id:      "req-1",
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: volunteer cannot claim own request",
			actor: volunteer,
			id:    "req-1",
			mockCall: func(f fields) {
				r := pendingRequest()
				r.RequesterID = volunteer.ID
				f.requestRepo.On("Get", mock.Anything, "req-1").Return(r, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: request not found",
			actor: volunteer,
			id:    "missing",
			mockCall: func(f fields) {
				f.requestRepo.On("Get", mock.Anything, "missing").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
		{
			name:  "error: store failure on transition",
			actor: volunteer,
			id:    "req-1",
			mockCall: func(f fields) {
				f.requestRepo.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				f.requestRepo.On("Transition", mock.Anything, "req-1", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
		{
			name:    "error: empty id",
			actor:   volunteer,
			id:      " ",
			wantErr: true,
			errCode: constant.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				requestRepo: requestmocks.NewHelpRequestRepository(t),
				notifier:    notifiermocks.NewNotifier(t),
			}
			if tt.mockCall != nil {
				tt.mockCall(f)
			}
			app := apprequest.NewRequestApp(testConfig, f.requestRepo, usermocks.NewUserRepository(t), f.notifier)

			got, err := app.Claim(context.Background(), tt.actor, tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Claim() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Claim() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRequestApp_Complete(t *testing.T) {
	completed := func(by string) *model.HelpRequest {
		r := claimedRequest(by)
		r.Status = constant.RequestStatusCompleted
		return r
	}
	notifiesRequester := func(f *notifiermocks.Notifier) {
		f.On("Notify", mock.Anything, mock.MatchedBy(func(m rabbitmq.NotificationMessage) bool {
			return m.Topic == "user.victim-1" && m.Subject == "Your Help Request Was Completed"
		})).Return(nil).Once()
	}
	completes := func(r *requestmocks.HelpRequestRepository) {
		r.On("Transition", mock.Anything, "req-1", mock.MatchedBy(func(tr *model.Transition) bool {
			return tr.From == constant.RequestStatusInProgress && tr.To == constant.RequestStatusCompleted
		})).Return(completed("vol-1"), nil).Once()
	}

	tests := []struct {
		name     string
		actor    *model.Actor
		mockCall func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:  "success: claiming volunteer completes",
			actor: volunteer,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
				completes(r)
				notifiesRequester(n)
			},
		},
		{
			name:  "success: requester completes without notifying themselves",
			actor: victim,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
				completes(r)
			},
		},
		{
			name:  "success: coordinator completes",
			actor: coordinator,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
				completes(r)
				notifiesRequester(n)
			},
		},
		{
			name:  "error: other volunteer is forbidden",
			actor: volunteer2,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: ngo is forbidden",
			actor: ngo,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: permission is checked before status",
			actor: volunteer2,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: pending request cannot be completed",
			actor: coordinator,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidStatus,
		},
		{
			name:  "error: completed is terminal",
			actor: volunteer,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(completed("vol-1"), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidStatus,
		},
		{
			name:  "error: completed concurrently",
			actor: volunteer,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(claimedRequest("vol-1"), nil).Once()
				r.On("Transition", mock.Anything, "req-1", mock.Anything).Return(completed("vol-1"), repository.ErrConflict).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidStatus,
		},
		{
			name:  "error: not found",
			actor: coordinator,
			mockCall: func(r *requestmocks.HelpRequestRepository, n *notifiermocks.Notifier) {
				r.On("Get", mock.Anything, "req-1").Return(nil, nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestRepo := requestmocks.NewHelpRequestRepository(t)
			notifier := notifiermocks.NewNotifier(t)
			if tt.mockCall != nil {
				tt.mockCall(requestRepo, notifier)
			}
			app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifier)

			got, err := app.Complete(context.Background(), tt.actor, "req-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			if got.Status != constant.RequestStatusCompleted {
				t.Fatalf("Complete() status = %s, want completed", got.Status)
			}
		})
	}
}

func TestRequestApp_MatchVolunteers(t *testing.T) {
	near := model.User{ID: "near", Name: "Near", Role: constant.RoleVolunteer, Latitude: floatPtr(40.7138), Longitude: floatPtr(-74.005)}
	far := model.User{ID: "far", Name: "Far", Role: constant.RoleVolunteer, Latitude: floatPtr(40.730), Longitude: floatPtr(-73.990)}

	tests := []struct {
		name     string
		actor    *model.Actor
		mockCall func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository)
		wantIDs  []string
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name:  "success: nearest volunteer first",
			actor: coordinator,
			mockCall: func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				u.On("List", mock.Anything, activeVolunteers).Return([]model.User{far, near}, nil).Once()
			},
			wantIDs: []string{"near", "far"},
		},
		{
			name:  "success: requester may see matches",
			actor: victim,
			mockCall: func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				u.On("List", mock.Anything, activeVolunteers).Return([]model.User{}, nil).Once()
			},
			wantIDs: []string{},
		},
		{
			name:  "success: ngo",
			actor: ngo,
			mockCall: func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				u.On("List", mock.Anything, activeVolunteers).Return([]model.User{near}, nil).Once()
			},
			wantIDs: []string{"near"},
		},
		{
			name:  "error: volunteers cannot list matches",
			actor: volunteer,
			mockCall: func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrForbidden,
		},
		{
			name:  "error: user store failure",
			actor: coordinator,
			mockCall: func(r *requestmocks.HelpRequestRepository, u *usermocks.UserRepository) {
				r.On("Get", mock.Anything, "req-1").Return(pendingRequest(), nil).Once()
				u.On("List", mock.Anything, activeVolunteers).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requestRepo := requestmocks.NewHelpRequestRepository(t)
			userRepo := usermocks.NewUserRepository(t)
			if tt.mockCall != nil {
				tt.mockCall(requestRepo, userRepo)
			}
			app := apprequest.NewRequestApp(testConfig, requestRepo, userRepo, notifiermocks.NewNotifier(t))

			got, err := app.MatchVolunteers(context.Background(), tt.actor, "req-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("MatchVolunteers() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				assertErrCode(t, err, tt.errCode)
				return
			}
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.VolunteerID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Fatalf("MatchVolunteers() ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestRequestApp_Dashboard(t *testing.T) {
	low := model.HelpRequest{ID: "low", Priority: constant.PriorityLow}
	high := model.HelpRequest{ID: "high", Priority: constant.PriorityHigh}
	medium := model.HelpRequest{ID: "medium", Priority: constant.PriorityMedium}
	high2 := model.HelpRequest{ID: "high2", Priority: constant.PriorityHigh}

	t.Run("volunteer sees available by priority and own claims", func(t *testing.T) {
		requestRepo := requestmocks.NewHelpRequestRepository(t)
		requestRepo.
			On("List", mock.Anything, &model.HelpRequestFilter{Status: constant.RequestStatusPending, Limit: constant.AvailableRequestsLimit}).
			Return([]model.HelpRequest{low, high, medium, high2}, nil).
			Once()
		requestRepo.
			On("List", mock.Anything, &model.HelpRequestFilter{VolunteerID: "vol-1"}).
			Return(nil, nil).
			Once()

		app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))
		got, err := app.Dashboard(context.Background(), volunteer)
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}

		ids := make([]string, 0, len(got.Available))
		for _, r := range got.Available {
			ids = append(ids, r.ID)
		}
		if want := []string{"high", "high2", "medium", "low"}; !reflect.DeepEqual(ids, want) {
			t.Fatalf("Available = %v, want %v", ids, want)
		}
		if got.MyClaimed == nil || len(got.MyClaimed) != 0 {
			t.Fatalf("MyClaimed = %v, want empty", got.MyClaimed)
		}
	})

	t.Run("victim sees own requests", func(t *testing.T) {
		requestRepo := requestmocks.NewHelpRequestRepository(t)
		requestRepo.
			On("List", mock.Anything, &model.HelpRequestFilter{RequesterID: "victim-1"}).
			Return([]model.HelpRequest{*pendingRequest()}, nil).
			Once()

		app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))
		got, err := app.Dashboard(context.Background(), victim)
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}
		if len(got.MyRequests) != 1 || got.Role != constant.RoleVictim || got.Available != nil {
			t.Fatalf("Dashboard() = %+v", got)
		}
	})

	t.Run("coordinator sees pending and in progress pools", func(t *testing.T) {
		requestRepo := requestmocks.NewHelpRequestRepository(t)
		requestRepo.
			On("List", mock.Anything, &model.HelpRequestFilter{Status: constant.RequestStatusPending}).
			Return([]model.HelpRequest{*pendingRequest()}, nil).
			Once()
		requestRepo.
			On("List", mock.Anything, &model.HelpRequestFilter{Status: constant.RequestStatusInProgress}).
			Return([]model.HelpRequest{*claimedRequest("vol-1")}, nil).
			Once()

		app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))
		got, err := app.Dashboard(context.Background(), coordinator)
		if err != nil {
			t.Fatalf("Dashboard() error = %v", err)
		}
		if len(got.Pending) != 1 || len(got.InProgress) != 1 {
			t.Fatalf("Dashboard() = %+v", got)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		requestRepo := requestmocks.NewHelpRequestRepository(t)
		requestRepo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db error")).Once()

		app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))
		_, err := app.Dashboard(context.Background(), ngo)
		assertErrCode(t, err, constant.ErrInternal)
	})
}

func TestRequestApp_Live(t *testing.T) {
	requestRepo := requestmocks.NewHelpRequestRepository(t)
	requestRepo.
		On("List", mock.Anything, &model.HelpRequestFilter{Limit: constant.LiveRequestsLimit}).
		Return([]model.HelpRequest{*pendingRequest()}, nil).
		Once()
	counts := map[constant.RequestStatus]int64{
		constant.RequestStatusPending:    1,
		constant.RequestStatusInProgress: 0,
		constant.RequestStatusCompleted:  4,
	}
	requestRepo.On("CountByStatus", mock.Anything).Return(counts, nil).Once()

	app := apprequest.NewRequestApp(testConfig, requestRepo, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))
	got, err := app.Live(context.Background())
	if err != nil {
		t.Fatalf("Live() error = %v", err)
	}
	if len(got.Requests) != 1 || !reflect.DeepEqual(got.Counts, counts) {
		t.Fatalf("Live() = %+v", got)
	}
}

// memoryStore applies transitions under a lock, the way the real stores
// apply them with one conditional write.
type memoryStore struct {
	mu    sync.Mutex
	items map[string]model.HelpRequest
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[string]model.HelpRequest{}}
}

func (m *memoryStore) Create(_ context.Context, req *model.HelpRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[req.ID]; ok {
		return repository.ErrDuplicate
	}
	m.items[req.ID] = *req
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*model.HelpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (m *memoryStore) Transition(_ context.Context, id string, t *model.Transition) (*model.HelpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if item.Status != t.From {
		return &item, repository.ErrConflict
	}
	item.Status = t.To
	item.UpdatedAt = t.At
	switch t.To {
	case constant.RequestStatusInProgress:
		item.VolunteerID = strPtr(t.VolunteerID)
		item.VolunteerName = strPtr(t.VolunteerName)
		item.ClaimedAt = &t.At
	case constant.RequestStatusCompleted:
		item.CompletedAt = &t.At
	}
	m.items[id] = item
	return &item, nil
}

func (m *memoryStore) List(_ context.Context, filter *model.HelpRequestFilter) ([]model.HelpRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.HelpRequest, 0, len(m.items))
	for _, item := range m.items {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) CountByStatus(_ context.Context) (map[constant.RequestStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[constant.RequestStatus]int64{}
	for _, item := range m.items {
		counts[item.Status]++
	}
	return counts, nil
}

func TestRequestApp_ConcurrentClaims(t *testing.T) {
	store := newMemoryStore()
	if err := store.Create(context.Background(), pendingRequest()); err != nil {
		t.Fatal(err)
	}

	notifier := notifiermocks.NewNotifier(t)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
	app := apprequest.NewRequestApp(testConfig, store, usermocks.NewUserRepository(t), notifier)

	const claimants = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []string
		lost    int
	)
	start := make(chan struct{})
	for i := 0; i < claimants; i++ {
		actor := &model.Actor{ID: "vol-" + string(rune('a'+i)), Role: constant.RoleVolunteer}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := app.Claim(context.Background(), actor, "req-1")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, actor.ID)
				return
			}
			var ce cerr.CustomError
			if errors.As(err, &ce) && ce.ErrorType() == constant.ErrAlreadyClaimed {
				lost++
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(winners) != 1 || lost != claimants-1 {
		t.Fatalf("winners = %v, lost = %d, want exactly one winner", winners, lost)
	}
	stored, _ := store.Get(context.Background(), "req-1")
	if stored.VolunteerID == nil || *stored.VolunteerID != winners[0] {
		t.Fatalf("stored volunteer = %v, want %s", stored.VolunteerID, winners[0])
	}
}

func TestRequestApp_SecondClaimKeepsFirstVolunteer(t *testing.T) {
	store := newMemoryStore()
	if err := store.Create(context.Background(), pendingRequest()); err != nil {
		t.Fatal(err)
	}
	notifier := notifiermocks.NewNotifier(t)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()
	app := apprequest.NewRequestApp(testConfig, store, usermocks.NewUserRepository(t), notifier)

	if _, err := app.Claim(context.Background(), volunteer, "req-1"); err != nil {
		t.Fatalf("first Claim() error = %v", err)
	}
	_, err := app.Claim(context.Background(), volunteer2, "req-1")
	assertErrCode(t, err, constant.ErrAlreadyClaimed)

	stored, _ := store.Get(context.Background(), "req-1")
	if *stored.VolunteerID != volunteer.ID {
		t.Fatalf("volunteer_id = %s, want %s", *stored.VolunteerID, volunteer.ID)
	}
}

func TestRequestApp_RejectedSubmitStoresNothing(t *testing.T) {
	store := newMemoryStore()
	app := apprequest.NewRequestApp(testConfig, store, usermocks.NewUserRepository(t), notifiermocks.NewNotifier(t))

	req := validSubmit()
	req.Latitude = floatPtr(95)
	_, err := app.Submit(context.Background(), victim, req)
	assertErrCode(t, err, constant.ErrInvalidRequest)

	counts, _ := store.CountByStatus(context.Background())
	if len(counts) != 0 {
		t.Fatalf("counts = %v, want no records", counts)
	}
}
