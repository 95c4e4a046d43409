package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/reader"
	"github.com/ssargent/dbnread/pkg/source"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewWithRegisterer(prometheus.NewRegistry())
}

func TestObserver(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveRecords(reader.MethodStream, 10)
	m.ObserveRecords(reader.MethodStream, 5)
	m.ObserveSession(reader.MethodStream, reader.ParseStats{TotalRecords: 15, Elapsed: time.Millisecond, BytesProcessed: 900})
	m.ObserveError(reader.MethodBatch, dbn.TruncatedRecord)

	assert.Equal(t, 15.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("stream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsTotal.WithLabelValues("stream")))
	assert.Equal(t, 900.0, testutil.ToFloat64(m.sessionBytes.WithLabelValues("stream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseErrorsTotal.WithLabelValues("batch", "truncated_record")))
}

func TestObserverWiredIntoReader(t *testing.T) {
	m := newTestMetrics(t)

	var buf []byte
	for i := 0; i < 4; i++ {
		buf = dbn.AppendMBO(buf, dbn.MBOMsg{OrderID: uint64(i), Action: dbn.ActionAdd, Side: dbn.SideBid})
	}

	_, err := reader.ParseAll(source.Bytes(buf), reader.WithObserver(m))
	require.NoError(t, err)
	_, err = reader.ParseAll(source.Bytes(buf[:dbn.MBOSize+3]), reader.WithObserver(m))
	require.Error(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.recordsTotal.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsTotal.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.parseErrorsTotal.WithLabelValues("direct", "truncated_header")))
}

func TestInstrumentHandler(t *testing.T) {
	m := newTestMetrics(t)

	h := m.InstrumentHandler("GET", "/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/api/v1/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/v1/health", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight.WithLabelValues("GET", "/api/v1/health")))
}

func TestInstrumentHandler_DefaultStatus(t *testing.T) {
	m := newTestMetrics(t)

	h := m.InstrumentHandler("GET", "/x", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	h(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/x", "200")))
}
