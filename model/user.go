package model

import (
	"time"

	"github.com/muhammadheryan/reliefbridge/constant"
)

// User represents the user profile document
type User struct {
	ID        string        `db:"id" bson:"_id" json:"id"`
	Name      string        `db:"name" bson:"name" json:"name"`
	Email     string        `db:"email" bson:"email" json:"email"`
	Phone     string        `db:"phone" bson:"phone" json:"phone"`
	Role      constant.Role `db:"role" bson:"role" json:"role"`
	Location  string        `db:"location" bson:"location" json:"location"`
	Latitude  *float64      `db:"latitude" bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64      `db:"longitude" bson:"longitude,omitempty" json:"longitude,omitempty"`
	Active    bool          `db:"active" bson:"active" json:"active"`
	CreatedAt time.Time     `db:"created_at" bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time    `db:"updated_at" bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// UserFilter for querying users
type UserFilter struct {
	ID     string
	Email  string
	Role   constant.Role
	Active *bool
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string        `json:"id"`
	Role constant.Role `json:"role"`
	Name string        `json:"name"`
}

// RegisterProfileRequest creates the profile of an identity that the
// identity provider already authenticated.
type RegisterProfileRequest struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Email     string   `json:"email" validate:"required,email"`
	Phone     string   `json:"phone" validate:"required,max=20"`
	Role      string   `json:"role" validate:"required,oneof=victim volunteer coordinator ngo"`
	Location  string   `json:"location" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"required_with=Longitude"`
	Longitude *float64 `json:"longitude" validate:"required_with=Latitude"`
}

// UpdateLocationRequest moves a user, typically a volunteer en route.
type UpdateLocationRequest struct {
	Location  string   `json:"location" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// UserLocation is the last reported position of a user.
type UserLocation struct {
	UserID    string        `json:"user_id"`
	Name      string        `json:"name"`
	Role      constant.Role `json:"role"`
	Location  string        `json:"location"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	UpdatedAt *time.Time    `json:"updated_at,omitempty"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// Session is the verified identity carried by a bearer token.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}
