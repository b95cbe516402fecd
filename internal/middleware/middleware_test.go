package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyMessage struct{}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"success", nil, "INFO", "RPC ok"},
		{"client error", connect.NewError(connect.CodeNotFound, errors.New("member not found")), "WARN", "RPC error"},
		{"internal error", connect.NewError(connect.CodeInternal, errors.New("disk full")), "ERROR", "RPC error"},
		{"plain error", errors.New("boom"), "ERROR", "RPC error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&emptyMessage{}), nil
			}

			_, err := LoggingInterceptor(logger)(next)(context.Background(), connect.NewRequest(&emptyMessage{}))
			assert.Equal(t, tt.err, err)

			lines := logLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tt.wantLevel, lines[0]["level"])
			assert.Equal(t, tt.wantMsg, lines[0]["msg"])
			assert.Contains(t, lines[0], "duration_ms")
		})
	}
}

func TestMetricsInterceptor_CountsByCode(t *testing.T) {
	// Requests built outside a handler have an empty procedure.
	ok := RPCRequestsTotal.WithLabelValues("", "ok")
	notFound := RPCRequestsTotal.WithLabelValues("", connect.CodeNotFound.String())
	okBefore := counterValue(t, ok)
	notFoundBefore := counterValue(t, notFound)

	interceptor := MetricsInterceptor()
	succeed := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&emptyMessage{}), nil
	}
	fail := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("member not found"))
	}

	_, err := interceptor(succeed)(context.Background(), connect.NewRequest(&emptyMessage{}))
	require.NoError(t, err)
	_, err = interceptor(fail)(context.Background(), connect.NewRequest(&emptyMessage{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	assert.Equal(t, okBefore+1, counterValue(t, ok))
	assert.Equal(t, notFoundBefore+1, counterValue(t, notFound))
}

func TestRecordGroup(t *testing.T) {
	RecordGroup(42.5, 7)

	assert.Equal(t, 42.5, gaugeValue(t, GroupProgressPercent))
	assert.Equal(t, 7.0, gaugeValue(t, GroupMembers))
}
