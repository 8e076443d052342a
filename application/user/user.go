package user

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/muhammadheryan/reliefbridge/cmd/config"
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/repository"
	helprequestrepo "github.com/muhammadheryan/reliefbridge/repository/helprequest"
	redisrepo "github.com/muhammadheryan/reliefbridge/repository/redis"
	userrepo "github.com/muhammadheryan/reliefbridge/repository/user"
	"github.com/muhammadheryan/reliefbridge/thirdparty/geocoder"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/geo"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	validatorx "github.com/muhammadheryan/reliefbridge/utils/validator"
	"go.uber.org/zap"
)

// UserApp manages the profiles of identities authenticated by the
// identity provider. It never sees credentials.
type UserApp interface {
	RegisterProfile(ctx context.Context, identityID string, req *model.RegisterProfileRequest) (*model.User, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	GetActor(ctx context.Context, userID string) (*model.Actor, error)
	UpdateLocation(ctx context.Context, actor *model.Actor, req *model.UpdateLocationRequest) (*model.User, error)
	GetLocation(ctx context.Context, actor *model.Actor, userID string) (*model.UserLocation, error)
	SetActive(ctx context.Context, userID string, active bool) (*model.User, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type UserAppImpl struct {
	config      *config.Config
	userRepo    userrepo.UserRepository
	requestRepo helprequestrepo.HelpRequestRepository
	redisRepo   redisrepo.Repository
	geocoder    geocoder.Geocoder
}

// NewUserApp builds the profile service. geocoder may be nil.
func NewUserApp(config *config.Config, userRepo userrepo.UserRepository, requestRepo helprequestrepo.HelpRequestRepository, redisRepo redisrepo.Repository, geocoder geocoder.Geocoder) UserApp {
	return &UserAppImpl{
		config:      config,
		userRepo:    userRepo,
		requestRepo: requestRepo,
		redisRepo:   redisRepo,
		geocoder:    geocoder,
	}
}

func (s *UserAppImpl) RegisterProfile(ctx context.Context, identityID string, req *model.RegisterProfileRequest) (*model.User, error) {
	if identityID == "" {
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}

	if err := validatorx.ValidateStruct(req); err != nil {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, validatorx.Describe(err))
	}

	lat, lng, err := checkCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	// Check if a profile exists for this identity or email
	existing, err := s.userRepo.Get(ctx, &model.UserFilter{ID: identityID})
	if err != nil {
		logger.Error("[RegisterProfile] err userRepo.Get id", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		return nil, errors.SetCustomError(constant.ErrProfileExists)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err = s.userRepo.Get(ctx, &model.UserFilter{Email: email})
	if err != nil {
		logger.Error("[RegisterProfile] err userRepo.Get email", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existing != nil {
		return nil, errors.SetCustomErrorDetail(constant.ErrProfileExists, "email already in use")
	}

	entity := &model.User{
		ID:        identityID,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Role:      constant.Role(req.Role),
		Location:  strings.TrimSpace(req.Location),
		Latitude:  lat,
		Longitude: lng,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if entity.Location == "" && lat != nil {
		entity.Location = s.reverseGeocode(ctx, "RegisterProfile", *lat, *lng)
	}

	entity, err = s.userRepo.Create(ctx, entity)
	if err != nil {
		if stdErrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.SetCustomError(constant.ErrProfileExists)
		}
		logger.Error("[RegisterProfile] err userRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return entity, nil
}

func (s *UserAppImpl) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[GetProfile] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return user, nil
}

// GetActor resolves the caller of an operation. A verified identity without
// a profile is not an actor.
func (s *UserAppImpl) GetActor(ctx context.Context, userID string) (*model.Actor, error) {
	if userID == "" {
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}

	cached, err := s.redisRepo.GetActor(ctx, userID)
	if err != nil {
		logger.Warn("[GetActor] err redisRepo.GetActor", zap.String("error", err.Error()))
	}
	if cached != nil {
		return cached, nil
	}

	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[GetActor] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomErrorDetail(constant.ErrUnauthorize, "profile not registered")
	}

	actor := &model.Actor{ID: user.ID, Role: user.Role, Name: user.Name}
	if err := s.redisRepo.SetActor(ctx, actor, s.config.Auth.ProfileCacheTTL); err != nil {
		logger.Warn("[GetActor] err redisRepo.SetActor", zap.String("error", err.Error()))
	}

	return actor, nil
}

func (s *UserAppImpl) UpdateLocation(ctx context.Context, actor *model.Actor, req *model.UpdateLocationRequest) (*model.User, error) {
	if actor == nil || actor.ID == "" {
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}

	if err := validatorx.ValidateStruct(req); err != nil {
		return nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, validatorx.Describe(err))
	}

	lat, lng, err := checkCoordinates(req.Latitude, req.Longitude)
	if err != nil {
		return nil, err
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = s.reverseGeocode(ctx, "UpdateLocation", *lat, *lng)
	}

	if err := s.userRepo.UpdateLocation(ctx, actor.ID, location, *lat, *lng); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[UpdateLocation] err userRepo.UpdateLocation", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return s.GetProfile(ctx, actor.ID)
}

// GetLocation returns where userID last reported to be, for callers that
// canViewLocation allows.
func (s *UserAppImpl) GetLocation(ctx context.Context, actor *model.Actor, userID string) (*model.UserLocation, error) {
	if err := s.canViewLocation(ctx, actor, userID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: userID})
	if err != nil {
		logger.Error("[GetLocation] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}

	return &model.UserLocation{
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		Location:  user.Location,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
		UpdatedAt: user.UpdatedAt,
	}, nil
}

// SetActive is the internal admin toggle. Inactive volunteers stop being
// matched but keep their history.
func (s *UserAppImpl) SetActive(ctx context.Context, userID string, active bool) (*model.User, error) {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.SetCustomError(constant.ErrNotFound)
		}
		logger.Error("[SetActive] err userRepo.SetActive", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.redisRepo.DeleteActor(ctx, userID); err != nil {
		logger.Warn("[SetActive] err redisRepo.DeleteActor", zap.String("error", err.Error()))
	}

	return s.GetProfile(ctx, userID)
}

func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (*model.Session, error) {
	// Parse token
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid claims")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("token missing jti")
	}

	revoked, err := s.redisRepo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("token revoked")
	}

	return &model.Session{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *UserAppImpl) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}

	if err := s.redisRepo.RevokeToken(ctx, tokenID, time.Until(expiresAt)); err != nil {
		logger.Error("[Logout] err redisRepo.RevokeToken", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *UserAppImpl) reverseGeocode(ctx context.Context, op string, lat, lng float64) string {
	if s.geocoder == nil {
		return ""
	}
	label, err := s.geocoder.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		logger.Warn(fmt.Sprintf("[%s] err geocoder.ReverseGeocode", op), zap.String("error", err.Error()))
		return ""
	}
	return label
}

// checkCoordinates validates an optional pair and rounds it for storage.
func checkCoordinates(lat, lng *float64) (*float64, *float64, error) {
	if lat == nil || lng == nil {
		return nil, nil, nil
	}
	if !geo.ValidLatitude(*lat) {
		return nil, nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "latitude must be between -90 and 90")
	}
	if !geo.ValidLongitude(*lng) {
		return nil, nil, errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "longitude must be between -180 and 180")
	}
	roundedLat, roundedLng := geo.RoundCoordinate(*lat), geo.RoundCoordinate(*lng)
	return &roundedLat, &roundedLng, nil
}
