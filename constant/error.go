package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrForbidden
	ErrAlreadyClaimed
	ErrInvalidStatus
	ErrProfileExists
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:        "success",
	ErrInternal:       "error internal",
	ErrNotFound:       "data not found",
	ErrInvalidRequest: "invalid request",
	ErrUnauthorize:    "unauthorize request",
	ErrForbidden:      "action not allowed for this user",
	ErrAlreadyClaimed: "request already claimed, refresh and try another",
	ErrInvalidStatus:  "request status does not allow this action",
	ErrProfileExists:  "profile already registered",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:        http.StatusOK,
	ErrInternal:       http.StatusInternalServerError,
	ErrNotFound:       http.StatusNotFound,
	ErrInvalidRequest: http.StatusBadRequest,
	ErrUnauthorize:    http.StatusUnauthorized,
	ErrForbidden:      http.StatusForbidden,
	ErrAlreadyClaimed: http.StatusConflict,
	ErrInvalidStatus:  http.StatusConflict,
	ErrProfileExists:  http.StatusConflict,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:        "0000",
	ErrInternal:       "0001",
	ErrNotFound:       "0002",
	ErrInvalidRequest: "0003",
	ErrUnauthorize:    "0004",
	ErrForbidden:      "0005",
	ErrAlreadyClaimed: "0006",
	ErrInvalidStatus:  "0007",
	ErrProfileExists:  "0008",
}
