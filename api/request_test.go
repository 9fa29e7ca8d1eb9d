package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/blog-backend/errs"
)

func requestWithID(id string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/blogs/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	id, err := pathID(requestWithID("12"))
	require.NoError(t, err)
	assert.Equal(t, uint(12), id)

	for _, raw := range []string{"abc", "0", "-1", "1.5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := pathID(requestWithID(raw))
			assert.True(t, errs.IsInvalidFieldError(err), "got %v", err)
			assert.Equal(t, http.StatusBadRequest, errs.StatusCode(err))
		})
	}

	_, err = pathID(requestWithID(""))
	assert.True(t, errs.IsMissingRequiredFieldError(err), "got %v", err)
}

func TestTagNamesFromQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/blogs/1/tags?tags=a,b&tags=c", nil)
	names, err := tagNames(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
