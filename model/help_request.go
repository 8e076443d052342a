package model

import (
	"time"

	"github.com/muhammadheryan/reliefbridge/constant"
)

// HelpRequest is the stored help request document.
type HelpRequest struct {
	ID            string                 `db:"id" bson:"_id" json:"id"`
	RequesterID   string                 `db:"requester_id" bson:"requester_id" json:"requester_id"`
	RequesterName string                 `db:"requester_name" bson:"requester_name" json:"requester_name"`
	RequestType   string                 `db:"request_type" bson:"request_type" json:"request_type"`
	Description   string                 `db:"description" bson:"description" json:"description"`
	Priority      constant.Priority      `db:"priority" bson:"priority" json:"priority"`
	Location      string                 `db:"location" bson:"location" json:"location"`
	Latitude      float64                `db:"latitude" bson:"latitude" json:"latitude"`
	Longitude     float64                `db:"longitude" bson:"longitude" json:"longitude"`
	ContactPhone  string                 `db:"contact_phone" bson:"contact_phone" json:"contact_phone"`
	Status        constant.RequestStatus `db:"status" bson:"status" json:"status"`
	VolunteerID   *string                `db:"volunteer_id" bson:"volunteer_id,omitempty" json:"volunteer_id,omitempty"`
	VolunteerName *string                `db:"volunteer_name" bson:"volunteer_name,omitempty" json:"volunteer_name,omitempty"`
	CreatedAt     time.Time              `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time              `db:"updated_at" bson:"updated_at" json:"updated_at"`
	ClaimedAt     *time.Time             `db:"claimed_at" bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	CompletedAt   *time.Time             `db:"completed_at" bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// HelpRequestFilter for querying help requests. Zero values are ignored.
type HelpRequestFilter struct {
	RequesterID string
	VolunteerID string
	Status      constant.RequestStatus
	Limit       int
}

// Transition is a conditional status change. It applies only while the
// stored status still equals From.
type Transition struct {
	From          constant.RequestStatus
	To            constant.RequestStatus
	VolunteerID   string
	VolunteerName string
	At            time.Time
}

// SubmitRequest is the payload for creating a help request.
type SubmitRequest struct {
	RequestType  string   `json:"request_type" validate:"required,max=100"`
	Description  string   `json:"description" validate:"required,max=5000"`
	Priority     string   `json:"priority" validate:"required,oneof=low medium high"`
	Location     string   `json:"location" validate:"required,max=500"`
	Latitude     *float64 `json:"latitude" validate:"required"`
	Longitude    *float64 `json:"longitude" validate:"required"`
	ContactPhone string   `json:"contact_phone" validate:"required,max=20"`
}

// Dashboard groups the request lists shown to an actor. Which lists are
// filled depends on the actor role.
type Dashboard struct {
	Role       constant.Role `json:"role"`
	MyRequests []HelpRequest `json:"my_requests,omitempty"`
	Available  []HelpRequest `json:"available_requests,omitempty"`
	MyClaimed  []HelpRequest `json:"my_claimed,omitempty"`
	Pending    []HelpRequest `json:"pending_requests,omitempty"`
	InProgress []HelpRequest `json:"in_progress_requests,omitempty"`
}

// LiveFeed is the map view payload.
type LiveFeed struct {
	Requests []HelpRequest                    `json:"requests"`
	Counts   map[constant.RequestStatus]int64 `json:"counts"`
}
