package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// A second registration skips what is already there.
	require.NoError(t, Register(reg))

	RewardPoints.Add(3)
	RPCRequests.WithLabelValues("/tabie.v1.TabService/GetTab", "ok").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tabie_reward_points_awarded_total")
	assert.Contains(t, string(body), `tabie_rpc_requests_total{code="ok",procedure="/tabie.v1.TabService/GetTab"}`)
	assert.Contains(t, string(body), "go_goroutines")
}
