package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	requestapp "github.com/muhammadheryan/reliefbridge/application/request"
	userapp "github.com/muhammadheryan/reliefbridge/application/user"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	utilsContext "github.com/muhammadheryan/reliefbridge/utils/context"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	validatorx "github.com/muhammadheryan/reliefbridge/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	UserApp    userapp.UserApp
	RequestApp requestapp.RequestApp
}

func NewTransport(UserApp userapp.UserApp, RequestApp requestapp.RequestApp, internalKeyHash string) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		UserApp:    UserApp,
		RequestApp: RequestApp,
	}

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// profile
	mux.HandleFunc("/users", rh.RegisterProfile).Methods(http.MethodPost)
	mux.HandleFunc("/users/me", rh.GetProfile).Methods(http.MethodGet)
	mux.HandleFunc("/users/me/location", rh.UpdateLocation).Methods(http.MethodPut)
	mux.HandleFunc("/users/{id}/location", rh.GetLocation).Methods(http.MethodGet)
	mux.HandleFunc("/logout", rh.Logout).Methods(http.MethodPost)

	// help requests, /requests/live before /requests/{id}
	mux.HandleFunc("/requests", rh.SubmitRequest).Methods(http.MethodPost)
	mux.HandleFunc("/requests/live", rh.LiveRequests).Methods(http.MethodGet)
	mux.HandleFunc("/requests/{id}", rh.GetRequest).Methods(http.MethodGet)
	mux.HandleFunc("/requests/{id}/claim", rh.ClaimRequest).Methods(http.MethodPost)
	mux.HandleFunc("/requests/{id}/complete", rh.CompleteRequest).Methods(http.MethodPost)
	mux.HandleFunc("/requests/{id}/matches", rh.MatchVolunteers).Methods(http.MethodGet)
	mux.HandleFunc("/dashboard", rh.Dashboard).Methods(http.MethodGet)

	// internal routes
	internal := mux.PathPrefix("/internal/v1").Subrouter()
	internal.Use(InternalMiddleware(internalKeyHash))
	internal.HandleFunc("/users/{id}/active", rh.SetUserActive).Methods(http.MethodPut)

	// middleware
	mux.Use(RecoveryMiddleware())
	mux.Use(LoggingMiddleware())
	mux.Use(AuthMiddleware(UserApp))

	return mux
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "malformed JSON body")
	}
	return nil
}

// actor resolves the caller's profile from the verified session.
func (s *RestHandler) actor(r *http.Request) (*model.Actor, error) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}
	return s.UserApp.GetActor(r.Context(), userID)
}

// RegisterProfile handler
// @Summary Register profile
// @Description Create the profile of the identity carried by the bearer token
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.RegisterProfileRequest true "Profile"
// @Success 201 {object} transport.Response{data=model.User}
// @Failure 400 {object} transport.Response
// @Failure 409 {object} transport.Response
// @Router /users [post]
func (s *RestHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.RegisterProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.RegisterProfile(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// GetProfile handler
// @Summary Current profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} transport.Response{data=model.User}
// @Failure 404 {object} transport.Response
// @Router /users/me [get]
func (s *RestHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	res, err := s.UserApp.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// UpdateLocation handler
// @Summary Update location
// @Description Move the caller, the label is reverse geocoded when omitted
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateLocationRequest true "Location"
// @Success 200 {object} transport.Response{data=model.User}
// @Failure 400 {object} transport.Response
// @Router /users/me/location [put]
func (s *RestHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.UpdateLocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.UpdateLocation(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetLocation handler
// @Summary User location
// @Description Last reported position, visible to the user, coordinators, NGOs and the requester of a request the user claimed
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} transport.Response{data=model.UserLocation}
// @Failure 403 {object} transport.Response
// @Failure 404 {object} transport.Response
// @Router /users/{id}/location [get]
func (s *RestHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.GetLocation(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Logout handler
// @Summary Logout
// @Description Revoke the bearer token until it expires
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} transport.Response{data=model.LogoutResponse}
// @Router /logout [post]
func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := utilsContext.GetTokenID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}
	expiresAt, _ := utilsContext.GetTokenExpiry(r.Context())

	if err := s.UserApp.Logout(r.Context(), tokenID, expiresAt); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, model.LogoutResponse{LoggedOut: true})
}

// SubmitRequest handler
// @Summary Submit help request
// @Description Create a pending help request and alert nearby volunteers
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SubmitRequest true "Help request"
// @Success 201 {object} transport.Response{data=model.HelpRequest}
// @Failure 400 {object} transport.Response
// @Router /requests [post]
func (s *RestHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Submit(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// LiveRequests handler
// @Summary Live map feed
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} transport.Response{data=model.LiveFeed}
// @Failure 401 {object} transport.Response
// @Router /requests/live [get]
func (s *RestHandler) LiveRequests(w http.ResponseWriter, r *http.Request) {
	if _, err := s.actor(r); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Live(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetRequest handler
// @Summary Get help request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} transport.Response{data=model.HelpRequest}
// @Failure 404 {object} transport.Response
// @Router /requests/{id} [get]
func (s *RestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// ClaimRequest handler
// @Summary Claim help request
// @Description Bind the calling volunteer to a pending request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} transport.Response{data=model.HelpRequest}
// @Failure 403 {object} transport.Response
// @Failure 409 {object} transport.Response
// @Router /requests/{id}/claim [post]
func (s *RestHandler) ClaimRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Claim(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// CompleteRequest handler
// @Summary Complete help request
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} transport.Response{data=model.HelpRequest}
// @Failure 403 {object} transport.Response
// @Failure 409 {object} transport.Response
// @Router /requests/{id}/complete [post]
func (s *RestHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Complete(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// MatchVolunteers handler
// @Summary Nearest volunteers
// @Description Up to three active volunteers ordered by distance
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} transport.Response{data=[]model.MatchResult}
// @Failure 403 {object} transport.Response
// @Router /requests/{id}/matches [get]
func (s *RestHandler) MatchVolunteers(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.MatchVolunteers(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Dashboard handler
// @Summary Role dashboard
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} transport.Response{data=model.Dashboard}
// @Router /dashboard [get]
func (s *RestHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := s.actor(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.RequestApp.Dashboard(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// SetUserActive handler
// @Summary Activate or deactivate a user
// @Tags Internal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body model.SetActiveRequest true "Active flag"
// @Success 200 {object} transport.Response{data=model.User}
// @Failure 403 {object} transport.Response
// @Failure 404 {object} transport.Response
// @Router /internal/v1/users/{id}/active [put]
func (s *RestHandler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	var req model.SetActiveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, validatorx.Describe(err)))
		return
	}

	res, err := s.UserApp.SetActive(r.Context(), mux.Vars(r)["id"], *req.Active)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}
