package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhookservice/internal/infrastructure/metrics"
)

func TestRegistry_ExposesDispatchMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.RecordDispatch("article", "create", "success", 15*time.Millisecond)
	reg.RecordDispatch("article", "create", "success", 5*time.Millisecond)
	reg.RecordDispatch("unknown", "unknown", "invalid", time.Millisecond)
	reg.SetRegisteredHandlers(6)
	reg.SetPoolSize("handlers", 8)

	srv := httptest.NewServer(reg.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `webhook_dispatch_total{action="create",entity_type="article",outcome="success"} 2`)
	assert.Contains(t, text, `webhook_dispatch_total{action="unknown",entity_type="unknown",outcome="invalid"} 1`)
	assert.Contains(t, text, "webhook_registered_handlers 6")
	assert.Contains(t, text, `webhook_worker_pool_size{pool="handlers"} 8`)
}
