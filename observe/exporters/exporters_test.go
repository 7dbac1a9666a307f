package exporters

import (
	"context"
	"os"
	"strings"
	"testing"
)

// TestExporter_StdoutMetrics verifies stdout metrics reader.
func TestExporter_StdoutMetrics(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("failed to create stdout metrics reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

// TestExporter_OtlpMissingEndpoint verifies OTLP without endpoint env fails.
func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	os.Unsetenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")

	_, err := NewMetricsReader(context.Background(), "otlp")
	if err == nil {
		t.Fatal("expected error when OTLP endpoint not configured")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "endpoint") {
		t.Errorf("expected error to contain 'endpoint', got: %v", err)
	}
}

// TestExporter_OtlpWithEndpoint verifies OTLP with endpoint env succeeds.
func TestExporter_OtlpWithEndpoint(t *testing.T) {
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")
	defer os.Unsetenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	reader, err := NewMetricsReader(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("failed to create OTLP metrics reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

// TestExporter_PrometheusReturnsReader verifies Prometheus metrics reader.
func TestExporter_PrometheusReturnsReader(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "prometheus")
	if err != nil {
		t.Fatalf("failed to create Prometheus reader: %v", err)
	}
	if reader == nil {
		t.Fatal("expected non-nil reader")
	}
}

// TestExporter_NoneReturnsNoop verifies 'none' returns a no-op reader.
func TestExporter_NoneReturnsNoop(t *testing.T) {
	reader, err := NewMetricsReader(context.Background(), "none")
	if err != nil {
		t.Fatalf("failed to create none metrics reader: %v", err)
	}
	_ = reader
}

// TestExporter_InvalidName verifies unknown exporter name returns error.
func TestExporter_InvalidName(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "badvalue")
	if err == nil {
		t.Fatal("expected error for invalid exporter name")
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unknown metrics exporter") {
		t.Errorf("expected error to contain 'unknown metrics exporter', got: %v", err)
	}
}
