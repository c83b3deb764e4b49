package server

import (
	"context"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/VictoriaMetrics/metrics"
	"github.com/pkg/errors"
	"io"
	"net"
	"net/http"
	"time"
)

// serverMetrics holds the metrics of a single server. Every server owns its own set,
// so several servers can live in the same process (e.g. in tests).
type serverMetrics struct {
	set *metrics.Set

	appendRequests  *metrics.Counter
	getRequests     *metrics.Counter
	unknownCommands *metrics.Counter
	malformed       *metrics.Counter
	errorResponses  *metrics.Counter
	persistErrors   *metrics.Counter
	appendDuration  *metrics.Summary
}

func newServerMetrics(listLen func() int, inFlight func() int64) *serverMetrics {
	set := metrics.NewSet()
	m := &serverMetrics{
		set:             set,
		appendRequests:  set.NewCounter(`dlist_requests_total{command="append"}`),
		getRequests:     set.NewCounter(`dlist_requests_total{command="get"}`),
		unknownCommands: set.NewCounter(`dlist_requests_total{command="unknown"}`),
		malformed:       set.NewCounter(`dlist_malformed_requests_total`),
		errorResponses:  set.NewCounter(`dlist_error_responses_total`),
		persistErrors:   set.NewCounter(`dlist_persist_errors_total`),
		appendDuration:  set.NewSummary(`dlist_append_duration_seconds`),
	}
	set.NewGauge(`dlist_list_length`, func() float64 { return float64(listLen()) })
	set.NewGauge(`dlist_requests_in_flight`, func() float64 { return float64(inFlight()) })
	return m
}

// observe records a handled request
func (m *serverMetrics) observe(req *common.Message, resp *common.Message, known bool, start time.Time) {
	switch {
	case !known:
		m.unknownCommands.Inc()
	case req.Command == common.CmdAppend:
		m.appendRequests.Inc()
		m.appendDuration.UpdateDuration(start)
	case req.Command == common.CmdGet:
		m.getRequests.Inc()
	}

	switch resp.MsgType {
	case common.MsgTPersistError:
		m.persistErrors.Inc()
	case common.MsgTError:
		m.errorResponses.Inc()
	}
}

// write writes all metrics in the Prometheus text format
func (m *serverMetrics) write(w io.Writer) {
	m.set.WritePrometheus(w)
}

// --------------------------------------------------------------------------
// Metrics endpoint
// --------------------------------------------------------------------------

// metricsEndpoint serves the metrics of a server over HTTP at /metrics
type metricsEndpoint struct {
	server   *http.Server
	listener net.Listener
}

// startMetricsEndpoint starts serving /metrics on the given address in the background
func startMetricsEndpoint(addr string, m *serverMetrics) (*metricsEndpoint, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		m.write(w)
	})

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on metrics endpoint %s", addr)
	}

	e := &metricsEndpoint{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: listener,
	}

	go func() {
		Logger.Infof("Serving metrics on http://%s/metrics", listener.Addr())
		if err := e.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("Metrics endpoint failed: %v", err)
		}
	}()
	return e, nil
}

// Addr returns the address the endpoint listens on
func (e *metricsEndpoint) Addr() net.Addr {
	return e.listener.Addr()
}

func (e *metricsEndpoint) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return e.server.Shutdown(ctx)
}
