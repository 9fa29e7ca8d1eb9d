package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/blog-backend/errs"
)

const maxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadType string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	return nil
}

// pathID parses the numeric {id} route parameter
func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError("id")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError("id", "must be a positive integer")
	}
	return uint(id), nil
}

// tagNames reads the tag list from ?tags=a,b (repeatable) or from a JSON array body
func tagNames(w http.ResponseWriter, r *http.Request) ([]string, error) {
	if values, ok := r.URL.Query()["tags"]; ok {
		var names []string
		for _, value := range values {
			names = append(names, strings.Split(value, ",")...)
		}
		return names, nil
	}

	var names []string
	if err := decodeJSON(w, r, "tag list", &names); err != nil {
		return nil, err
	}
	return names, nil
}
