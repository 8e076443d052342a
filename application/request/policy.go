package request

import (
	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/model"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
)

type capability int

const (
	capSubmit capability = iota
	capView
	capClaim
	capComplete
	capMatch
)

// nextStatus is the lifecycle. completed has no successor.
var nextStatus = map[constant.RequestStatus]constant.RequestStatus{
	constant.RequestStatusPending:    constant.RequestStatusInProgress,
	constant.RequestStatusInProgress: constant.RequestStatusCompleted,
}

func canTransition(from, to constant.RequestStatus) bool {
	next, ok := nextStatus[from]
	return ok && next == to
}

// authorize is the single place role and ownership rules are decided. req
// is nil for capabilities that do not target a stored request.
func authorize(actor *model.Actor, c capability, req *model.HelpRequest) error {
	if actor == nil || actor.ID == "" || !actor.Role.Valid() {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}

	switch c {
	case capSubmit, capView:
		return nil
	case capClaim:
		if actor.Role != constant.RoleVolunteer {
			return errors.SetCustomErrorDetail(constant.ErrForbidden, "only volunteers can claim requests")
		}
		if req != nil && req.RequesterID == actor.ID {
			return errors.SetCustomErrorDetail(constant.ErrForbidden, "cannot claim your own request")
		}
		return nil
	case capComplete:
		if actor.Role == constant.RoleCoordinator || isRequester(actor, req) || isClaimant(actor, req) {
			return nil
		}
		return errors.SetCustomErrorDetail(constant.ErrForbidden, "only the assigned volunteer, the requester or a coordinator can complete this request")
	case capMatch:
		if actor.Role == constant.RoleCoordinator || actor.Role == constant.RoleNGO || isRequester(actor, req) {
			return nil
		}
		return errors.SetCustomError(constant.ErrForbidden)
	}

	return errors.SetCustomError(constant.ErrForbidden)
}

func isRequester(actor *model.Actor, req *model.HelpRequest) bool {
	return req != nil && req.RequesterID == actor.ID
}

func isClaimant(actor *model.Actor, req *model.HelpRequest) bool {
	return req != nil && req.VolunteerID != nil && *req.VolunteerID == actor.ID
}
