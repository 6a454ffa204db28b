package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/erazemk/stockroom/internal/apperr"
	"github.com/erazemk/stockroom/internal/logger"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a response using its apperr metadata. Validation
// errors are rendered as {"errors": [...]}, everything else as {"error": ...}.
// Server-side failures are logged and their details withheld from clients.
func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeStorage, err, "unexpected error")
	}
	meta := apperr.MetadataFor(typed.Code())

	if typed.Code() == apperr.CodeValidation {
		messages := typed.Messages()
		if len(messages) == 0 {
			messages = []string{typed.Message()}
		}
		jsonResponse(w, meta.HTTPStatus, map[string][]string{"errors": messages})
		return
	}

	if meta.HTTPStatus >= http.StatusInternalServerError && logg != nil {
		logg.Error(logg.WithField(ctx, "error_code", string(typed.Code())), "request.failed", err)
	}

	msg := meta.PublicMessage
	if meta.MessageAllowed && typed.Message() != "" {
		msg = typed.Message()
	}
	jsonError(w, meta.HTTPStatus, msg)
}

// readBody reads the whole request body, refusing anything over maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperr.New(apperr.CodeBadRequest, "request body too large")
		}
		return nil, apperr.Wrap(apperr.CodeBadRequest, err, "could not read request body")
	}
	return body, nil
}
