package transport

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"

	"github.com/muhammadheryan/reliefbridge/constant"
	"github.com/muhammadheryan/reliefbridge/utils/errors"
	"github.com/muhammadheryan/reliefbridge/utils/logger"
	"go.uber.org/zap"
)

// Response is the envelope of every API answer.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeJSON encodes body before the status line goes out, so a body that
// cannot be encoded still gets an internal error response.
func writeJSON(w http.ResponseWriter, status int, body Response) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.Error("[writeJSON] err json.Marshal", zap.String("error", err.Error()))
		ce := errors.SetCustomError(constant.ErrInternal)
		status = ce.ErrorHTTPCode()
		payload, _ = json.Marshal(Response{
			Success: false,
			Error: &ErrorBody{
				Code:    ce.ErrorCode(),
				Message: ce.ErrorMessage(),
			},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		logger.Error("[writeJSON] err w.Write", zap.String("error", err.Error()))
	}
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// writeError renders err; anything that is not a CustomError is internal.
func writeError(w http.ResponseWriter, err error) {
	var ce errors.CustomError
	if !stdErrors.As(err, &ce) {
		ce = errors.SetCustomError(constant.ErrInternal)
	}

	writeJSON(w, ce.ErrorHTTPCode(), Response{
		Success: false,
		Error: &ErrorBody{
			Code:    ce.ErrorCode(),
			Message: ce.ErrorMessage(),
			Detail:  ce.Detail(),
		},
	})
}
