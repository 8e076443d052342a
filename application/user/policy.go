package user

import (
	"context"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"go.uber.org/zap"
)

// canViewLocation allows the user themselves, coordinators and NGOs, and the
// requester of an in-progress request that userID claimed.
func (s *UserAppImpl) canViewLocation(ctx context.Context, actor *model.Actor, userID string) error {
	if actor == nil || actor.ID == "" || !actor.Role.Valid() {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}
	if userID == "" {
		return errors.SetCustomErrorDetail(constant.ErrInvalidRequest, "user id is required")
	}

	if actor.ID == userID {
		return nil
	}
	switch actor.Role {
	case constant.RoleCoordinator, constant.RoleNGO:
		return nil
	}

	claimed, err := s.requestRepo.List(ctx, &model.HelpRequestFilter{
		RequesterID: actor.ID,
		VolunteerID: userID,
		Status:      constant.RequestStatusInProgress,
		Limit:       1,
	})
	if err != nil {
		logger.Error("[GetLocation] err requestRepo.List", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	if len(claimed) == 0 {
		return errors.SetCustomErrorDetail(constant.ErrForbidden, "location is visible to the requester of a claimed request")
	}
	return nil
}
