package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ServesRegisteredCollectors(t *testing.T) {
	m := New()
	m.HTTPRequests.WithLabelValues("GET", "/users", "200").Inc()
	m.IndexerMessages.WithLabelValues("ack").Add(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.IndexerMessages.WithLabelValues("ack")))

	srv := httptest.NewServer(m.Server(":0").Handler)
	defer srv.Close()
	res, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `membership_http_requests_total{method="GET",path="/users",status="200"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
