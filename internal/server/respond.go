package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/fhgr/curnav/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code apperrors.Code) int {
	switch code {
	case apperrors.ErrCodeModuleNotFound, apperrors.ErrCodeSessionNotFound,
		apperrors.ErrCodeNotFound, apperrors.ErrCodeDatasetNotFound, apperrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeInvalidFilter, apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	status := statusFor(code)
	msg := apperrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}

// decodeJSON reads a JSON body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
