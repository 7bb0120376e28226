package aiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/backoff"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() backoff.Policy {
	return backoff.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, Multiplier: 1, Cap: 5 * time.Millisecond}
}

func TestGenerateDescription(t *testing.T) {
	var got descriptionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate/description", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"generated_description":"A small blue widget.","tokens_used":12}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", time.Second, fastPolicy(), logging.Discard())
	text, err := c.GenerateDescription(context.Background(), "Widget", []string{"blue", "small"})
	require.NoError(t, err)
	assert.Equal(t, "A small blue widget.", text)
	assert.Equal(t, descriptionRequest{Name: "Widget", Keywords: []string{"blue", "small"}}, got)
}

func TestGenerateCategory_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var in categoryRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		assert.Equal(t, "Widget", in.ProductName)
		_, _ = w.Write([]byte(`{"suggested_category":"Home > Gadgets","confidence":0.67}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, fastPolicy(), logging.Discard())
	cat, err := c.GenerateCategory(context.Background(), "Widget", "A small blue widget.")
	require.NoError(t, err)
	assert.Equal(t, "Home > Gadgets", cat)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_ExhaustedIsUpstream(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"rate limited", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) }},
		{"client error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusUnprocessableEntity) }},
		{"empty result", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"generated_description":"  "}`)) }},
		{"bad json", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{`)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}))
			defer srv.Close()

			c := New(srv.URL, time.Second, fastPolicy(), logging.Discard())
			_, err := c.GenerateDescription(context.Background(), "Widget", []string{"x"})
			require.ErrorIs(t, err, common.ErrUpstream)
			assert.ErrorIs(t, err, backoff.ErrExhausted)
			assert.Equal(t, int32(3), calls.Load())
		})
	}
}

func TestGenerate_TransportErrorIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, fastPolicy(), logging.Discard())
	_, err := c.GenerateCategory(context.Background(), "Widget", "desc")
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestGenerate_PerAttemptTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New(srv.URL, 20*time.Millisecond, fastPolicy(), logging.Discard())
	_, err := c.GenerateDescription(context.Background(), "Widget", []string{"x"})
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerate_CallerCancellationAborts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	policy := backoff.Policy{MaxAttempts: 3, BaseDelay: time.Second, Multiplier: 1, Cap: time.Second}
	c := New(srv.URL, time.Second, policy, logging.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.GenerateDescription(ctx, "Widget", []string{"x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, common.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}
