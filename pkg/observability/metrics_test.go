package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gatherFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestMetricsRegistered(t *testing.T) {
	// Counters only appear in gather output once a child exists.
	APIRequestsTotal.WithLabelValues("GET", "/queues", "200").Add(0)
	APIRequestDuration.WithLabelValues("GET", "/queues").Observe(0.1)
	ToolExecutionsTotal.WithLabelValues("get_queues", "success").Add(0)
	TranscriptPollsTotal.Add(0)
	AuthRejectedTotal.Add(0)

	names := []string{
		"enreachvoice_api_requests_total",
		"enreachvoice_api_request_duration_seconds",
		"enreachvoice_tool_executions_total",
		"enreachvoice_transcript_polls_total",
		"enreachvoice_auth_rejected_total",
	}

	for _, name := range names {
		if gatherFamily(t, name) == nil {
			t.Errorf("metric family %q not registered", name)
		}
	}
}

func TestAPIRequestsTotalLabels(t *testing.T) {
	APIRequestsTotal.WithLabelValues("GET", "/directory", "404").Inc()

	mf := gatherFamily(t, "enreachvoice_api_requests_total")
	if mf == nil {
		t.Fatal("metric family not found")
	}
	if mf.GetType() != dto.MetricType_COUNTER {
		t.Fatalf("type = %v, want counter", mf.GetType())
	}

	var found bool
	for _, m := range mf.GetMetric() {
		labels := map[string]string{}
		for _, lp := range m.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["method"] == "GET" && labels["path"] == "/directory" && labels["status"] == "404" {
			found = true
			if m.GetCounter().GetValue() < 1 {
				t.Errorf("counter value = %v, want >= 1", m.GetCounter().GetValue())
			}
		}
	}
	if !found {
		t.Error("labeled counter not found in gather output")
	}
}

func TestAPIRequestDurationBuckets(t *testing.T) {
	APIRequestDuration.WithLabelValues("POST", "/authuser").Observe(0.3)

	mf := gatherFamily(t, "enreachvoice_api_request_duration_seconds")
	if mf == nil {
		t.Fatal("metric family not found")
	}
	if mf.GetType() != dto.MetricType_HISTOGRAM {
		t.Fatalf("type = %v, want histogram", mf.GetType())
	}

	for _, m := range mf.GetMetric() {
		h := m.GetHistogram()
		if got := len(h.GetBucket()); got != len(APIBuckets) {
			t.Errorf("got %d buckets, want %d", got, len(APIBuckets))
		}
	}
}
