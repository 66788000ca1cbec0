// Package handlers maps the HTTP routes onto store operations.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/mesa-rpg/api/internal/apperr"
)

// ErrorResponse is the body of every failed request. NotFound errors only
// carry Message; everything else carries Error and Code.
type ErrorResponse struct {
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Code    apperr.Code `json:"code,omitempty"`
	Field   string      `json:"field,omitempty"`
	Details string      `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

// respondError logs err under tag and writes the matching error body.
func respondError(w http.ResponseWriter, r *http.Request, tag string, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		e = apperr.Wrap(apperr.CodeDatabase, "Erro interno", err)
	}
	log.Printf("[%s] %s %s: %v", tag, r.Method, r.URL.Path, err)

	switch e.Code {
	case apperr.CodeNotFound:
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: e.Message})
	case apperr.CodeValidation:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: e.Message, Code: e.Code, Field: e.Field})
	default:
		resp := ErrorResponse{Error: e.Message, Code: e.Code}
		if e.Cause != nil {
			resp.Details = e.Cause.Error()
		}
		writeJSON(w, e.Code.HTTPStatus(), resp)
	}
}

// pathID parses the named path segment as an integer id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation(name, name+" deve ser um número inteiro")
	}
	return id, nil
}

// queryID parses an optional integer query parameter; absent means nil.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation(name, name+" deve ser um número inteiro")
	}
	return &id, nil
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("", "Corpo da requisição vazio")
		}
		return apperr.Validation("", "Corpo da requisição inválido: "+err.Error())
	}
	return nil
}
