package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/voicelist/internal/models"
)

func TestNLUClientResolve(t *testing.T) {
	var got models.NLURequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"intent":"add","item":" apples ","qty":"2","confidence":0.92,
			"substitute":{"suggest":true,"alternatives":["pears"]}}`))
	}))
	defer server.Close()

	c := NewNLUClient(server.URL, time.Second, nil)
	require.True(t, c.Enabled())

	intent, err := c.Resolve(context.Background(), "add two apples", "en-IN")
	require.NoError(t, err)

	assert.Equal(t, models.NLURequest{Phrase: "add two apples", Lang: "en-IN"}, got)
	assert.Equal(t, models.IntentAdd, intent.Kind)
	assert.Equal(t, "apples", intent.Item)
	require.NotNil(t, intent.Qty)
	assert.Equal(t, 2, *intent.Qty)
	require.NotNil(t, intent.Confidence)
	assert.InDelta(t, 0.92, *intent.Confidence, 1e-9)
	alt, ok := intent.Substitute.First()
	assert.True(t, ok)
	assert.Equal(t, "pears", alt)
}

func TestNLUClientUnknownIntentName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"intent":"dance","item":"salsa"}`))
	}))
	defer server.Close()

	intent, err := NewNLUClient(server.URL, time.Second, nil).Resolve(context.Background(), "dance", "en-IN")
	require.NoError(t, err)
	assert.Equal(t, models.IntentUnknown, intent.Kind)
}

func TestNLUClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ResolveErrorKind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			kind: ResolveStatus,
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"intent":`))
			},
			kind: ResolveMalformed,
		},
		{
			name: "array body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"intent":"add"}]`))
			},
			kind: ResolveMalformed,
		},
		{
			name: "string body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`"add"`))
			},
			kind: ResolveMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			intent, err := NewNLUClient(server.URL, time.Second, nil).Resolve(context.Background(), "x", "en-IN")
			require.Error(t, err)
			assert.Nil(t, intent)

			kind, ok := ResolveErrorKindOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

func TestNLUClientStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewNLUClient(server.URL, time.Second, nil).Resolve(context.Background(), "x", "en-IN")

	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusTooManyRequests, re.StatusCode)
	assert.Contains(t, err.Error(), "429")
}

func TestNLUClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := NewNLUClient(server.URL, 50*time.Millisecond, nil).Resolve(context.Background(), "x", "en-IN")
	kind, ok := ResolveErrorKindOf(err)
	require.True(t, ok)
	assert.Equal(t, ResolveTimeout, kind)
}

func TestNLUClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewNLUClient(url, time.Second, nil).Resolve(context.Background(), "x", "en-IN")
	kind, ok := ResolveErrorKindOf(err)
	require.True(t, ok)
	assert.Equal(t, ResolveTransport, kind)
}

func TestNLUClientDisabled(t *testing.T) {
	c := NewNLUClient("  ", 0, nil)
	assert.False(t, c.Enabled())

	_, err := c.Resolve(context.Background(), "add milk", "en-IN")
	assert.ErrorIs(t, err, ErrResolverDisabled)
	kind, _ := ResolveErrorKindOf(err)
	assert.Equal(t, ResolveDisabled, kind)
}
