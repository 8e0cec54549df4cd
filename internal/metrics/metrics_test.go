package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.Runs.WithLabelValues("completed").Inc()
	m.Records.WithLabelValues("kodik", ResultCreated).Add(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("completed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Records.WithLabelValues("kodik", ResultCreated)))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `videosync_records_total{origin="kodik",result="created"} 3`)
}

func TestNew_Independent(t *testing.T) {
	// separate registries must not panic on duplicate registration
	a := New()
	b := New()
	a.Running.Set(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Running))
}
