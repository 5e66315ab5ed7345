package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	anchorerrors "github.com/matzehuels/anchor/pkg/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code      anchorerrors.Code `json:"code"`
	Message   string            `json:"message"`
	RequestID string            `json:"requestId,omitempty"`
}

type requestIDKey struct{}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request ID stored by [WithRequestID], or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// StatusOf maps an error code to an HTTP status.
func StatusOf(err error) int {
	if anchorerrors.IsInvalid(err) {
		return http.StatusBadRequest
	}
	switch anchorerrors.GetCode(err) {
	case anchorerrors.ErrCodePipelineDiverged:
		return http.StatusUnprocessableEntity
	case anchorerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case anchorerrors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an [ErrorBody] and returns the status used.
func WriteError(w http.ResponseWriter, r *http.Request, err error) int {
	status := StatusOf(err)
	body := ErrorBody{
		Code:      anchorerrors.GetCodeOr(err, anchorerrors.ErrCodeInternal),
		Message:   anchorerrors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}
	if status == http.StatusInternalServerError {
		body.Message = "internal error"
	}
	WriteJSON(w, status, body)
	return status
}

// ReadBody reads at most limit bytes from the request body.
func ReadBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, anchorerrors.New(anchorerrors.ErrCodeInvalidInput, "request body exceeds %d bytes", limit)
		}
		return nil, anchorerrors.Wrap(anchorerrors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) == 0 {
		return nil, anchorerrors.New(anchorerrors.ErrCodeInvalidInput, "request body is empty")
	}
	return data, nil
}
