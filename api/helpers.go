package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"hoopsleague/domain/services"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const maxRequestBodyBytes = 1_048_576

type envelope map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	js, err := json.Marshal(data)
	if err != nil {
		log.Errorf("Failed to encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(js, '\n'))
}

func errorResponse(w http.ResponseWriter, status int, message string, details envelope) {
	body := envelope{"error": message}
	for k, v := range details {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func badRequestResponse(w http.ResponseWriter, err error) {
	errorResponse(w, http.StatusBadRequest, err.Error(), nil)
}

// serviceErrorResponse maps domain errors onto HTTP status codes. Anything
// unrecognised is logged and reported as a generic 500.
func serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var insufficient *services.InsufficientFundsError
	var transition *services.InvalidStateTransitionError
	var processed *services.AlreadyProcessedError
	var notFound *services.NotFoundError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &insufficient):
		errorResponse(w, http.StatusPaymentRequired, insufficient.Error(), envelope{
			"payer":     insufficient.Payer,
			"required":  insufficient.Required,
			"available": insufficient.Available,
			"shortage":  insufficient.Shortage,
		})
	case errors.As(err, &transition):
		errorResponse(w, http.StatusConflict, transition.Error(), nil)
	case errors.As(err, &processed):
		errorResponse(w, http.StatusConflict, processed.Error(), envelope{"current_status": processed.CurrentStatus})
	case errors.As(err, &notFound):
		errorResponse(w, http.StatusNotFound, notFound.Error(), nil)
	case errors.As(err, &validation):
		errorResponse(w, http.StatusUnprocessableEntity, validation.Error(), envelope{"field": validation.Field})
	default:
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Errorf("Request failed: %v", err)
		errorResponse(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request", nil)
	}
}

func idFromURL(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s parameter", param)
	}
	return id, nil
}
