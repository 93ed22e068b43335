package uis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() Policy {
	return Policy{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsed:      time.Second,
	}
}

func TestRetryer_RetriesQuotaThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte("Quota Exceeded"))
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	r := NewRetryer(newTestClient(), fastPolicy(), nil)
	data, ok, err := r.GetBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRetryer_NotFoundIsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r := NewRetryer(newTestClient(), fastPolicy(), nil)
	data, ok, err := r.GetBytes(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)
}

func TestRetryer_OtherErrorsPropagateUnchanged(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	r := NewRetryer(newTestClient(), fastPolicy(), nil)
	_, _, err := r.GetBytes(context.Background(), srv.URL)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	// Permanent: exactly one attempt.
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryer_BoundedByMaxElapsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Quota Exceeded"))
	}))
	defer srv.Close()

	policy := fastPolicy()
	policy.MaxElapsed = 20 * time.Millisecond
	r := NewRetryer(newTestClient(), policy, nil)
	_, _, err := r.GetBytes(context.Background(), srv.URL)
	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
}

func TestRetryer_GetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Codelist":[{"items":[{"id":"AR","names":[{"value":"Argentina"}]}]}]}`))
	}))
	defer srv.Close()

	r := NewRetryer(newTestClient(), fastPolicy(), nil)
	var doc codelistResponse
	ok, err := r.GetJSON(context.Background(), srv.URL, &doc)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, doc.Codelist, 1)
	assert.Equal(t, "Argentina", doc.Codelist[0].Items[0].Name())
}
