// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/palette/models"
)

func TestCounters(t *testing.T) {
	m := New()

	m.VoteRecorded(models.AuthorA)
	m.VoteRecorded(models.AuthorA)
	m.VoteRecorded(models.AuthorB)
	m.RatingsRecorded(3)
	m.PhotoCreated(models.AuthorB)
	m.UploadAccepted(2048)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.votes.WithLabelValues("A")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votes.WithLabelValues("B")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ratings))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.photos.WithLabelValues("B")))
	assert.Equal(t, 2048.0, testutil.ToFloat64(m.uploadBytes))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RatingsRecorded(1)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.ratings))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.ratings))
}

func TestHandler(t *testing.T) {
	m := New()
	m.VoteRecorded(models.AuthorA)
	m.ObserveRequest(http.MethodPost, "POST /votes", http.StatusCreated, 15*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `palette_votes_submitted_total{winner="A"} 1`)
	assert.Contains(t, body, `palette_http_request_duration_seconds_count{method="POST",route="POST /votes",status="201"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
