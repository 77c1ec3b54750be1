package nav

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/config"
)

const schemeBody = `{"meta":{"scheme_code":119551},"data":[
	{"date":"03-01-2024","nav":"101.25"},
	{"date":"bad","nav":"1"},
	{"date":"02-01-2024","nav":"100.50"},
	{"date":"01-01-2024","nav":"n/a"}
],"status":"SUCCESS"}`

func testClient(url string, retries int) *Client {
	c := NewClient(config.NAVConfig{BaseURL: url + "/", Timeout: time.Second, MaxRetries: retries})
	c.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/119551", r.URL.Path)
		fmt.Fprint(w, schemeBody)
	}))
	defer srv.Close()

	points, err := testClient(srv.URL, 0).History(context.Background(), "119551")
	require.NoError(t, err)

	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, "100.5", points[0].NAV.String())
	assert.Equal(t, "101.25", points[1].NAV.String())
}

func TestHistory_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			fmt.Fprint(w, schemeBody)
		}
	}))
	defer srv.Close()

	points, err := testClient(srv.URL, 3).History(context.Background(), "119551")
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHistory_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 5).History(context.Background(), "1")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHistory_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 2).History(context.Background(), "1")

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHistory_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, schemeBody)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv.URL, 3).History(ctx, "1")
	require.ErrorIs(t, err, context.Canceled)
}
