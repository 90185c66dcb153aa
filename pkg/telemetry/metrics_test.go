package telemetry

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberMiddleware(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/users/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/metrics", m.Handler())

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/users/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
	assert.InDelta(t, 2, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET", "/users/:id", "204")), 0)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "splitpay_http_requests_total")
}

func TestTransferCollectors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.TransfersTotal.WithLabelValues(OutcomeSuccess).Inc()
	m.TransfersTotal.WithLabelValues("insufficient_funds").Inc()
	m.TransferRecipients.Observe(15)

	assert.InDelta(t, 1, testutil.ToFloat64(m.TransfersTotal.WithLabelValues(OutcomeSuccess)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.TransfersTotal))
}

func TestNewDefaultMetrics(t *testing.T) {
	m := NewDefaultMetrics()
	families, err := m.Gatherer.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
