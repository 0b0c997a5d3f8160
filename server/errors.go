package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

// Error codes returned in APIError.Code.
const (
	codeInvalidArgument     = "invalid_argument"
	codeInsufficientBalance = "insufficient_balance"
	codeNotFound            = "not_found"
	codeInternal            = "internal"
)

// APIError is the standard error response for slot APIs.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, code int, errMsg, codeStr string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(APIError{
		Error:   errMsg,
		Code:    codeStr,
		Message: errMsg,
	})
}

// writeEngineError maps engine errors to a status and code.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInsufficientBalance):
		writeError(w, http.StatusPaymentRequired, err.Error(), codeInsufficientBalance)
	case errors.Is(err, reel.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error(), codeInvalidArgument)
	default:
		writeError(w, http.StatusInternalServerError, "internal error", codeInternal)
	}
}
