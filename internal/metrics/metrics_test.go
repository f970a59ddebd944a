package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolatedRegistries(t *testing.T) {
	a := New()
	b := New()
	a.BookingsCreated.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.BookingsCreated))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.BookingsCreated))
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.BookingRoomUpdates.WithLabelValues("approved").Add(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `hotel_api_booking_room_status_updates_total{status="approved"} 2`)
}
