// Package httpx holds the JSON helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/paywall/internal/common"
	"github.com/google/uuid"
)

// MaxBodyBytes caps request bodies read by ReadJSON.
const MaxBodyBytes = 1 << 20

func NewRequestID() string { return "req_" + uuid.NewString() }

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ReadJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return nil
}

func WriteError(w http.ResponseWriter, status int, code, message string, details any) {
	resp := map[string]any{
		"request_id": NewRequestID(),
		"error": map[string]any{
			"code": code, "message": message, "details": details,
		},
	}
	WriteJSON(w, status, resp)
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(kind common.Kind) int {
	switch kind {
	case common.KindInvalidInput:
		return http.StatusBadRequest
	case common.KindUnavailable:
		return http.StatusServiceUnavailable
	case common.KindRejected, common.KindDecryption:
		return http.StatusUnprocessableEntity
	case common.KindTimeout:
		return http.StatusGatewayTimeout
	case common.KindNotFound:
		return http.StatusNotFound
	case common.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError classifies err and writes the error envelope. Internal
// errors are not echoed to the caller.
func WriteServiceError(w http.ResponseWriter, err error) {
	kind := common.KindOf(err)
	msg := err.Error()
	if kind == common.KindInternal {
		msg = common.ErrorInternal.Error()
	}
	WriteError(w, StatusFor(kind), kind.String(), msg, nil)
}
