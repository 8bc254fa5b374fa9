package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/inkpost/inkpost/internal/service"
)

var errBodyTooLarge = errors.New("request body too large")

// decodeJSON strictly decodes a single JSON value into dst. An empty body
// leaves dst untouched so required-field checks report it; malformed JSON,
// unknown keys and trailing data are rejected.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return classifyDecodeError(err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err != nil {
			return classifyDecodeError(err)
		}
		return service.NewValidationError("Invalid request body")
	}
	return nil
}

func classifyDecodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return service.NewValidationError("Invalid request body")
}

// preferDecodeError surfaces a body problem once the service has reached
// the point of inspecting the fields, so a malformed update body never
// masks a 404 or 403.
func preferDecodeError(err, decodeErr error) error {
	if decodeErr != nil && errors.Is(err, service.ErrNoFieldsToUpdate) {
		return decodeErr
	}
	return err
}
