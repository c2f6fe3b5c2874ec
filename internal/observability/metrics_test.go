package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.InflightInc()
	m.InflightDec()
	m.IncQuizAttempt(true)
	m.IncCompletionWrite("confirmed")
	m.IncPaymentNotification("paid", true)
	m.IncCheckout("course", false)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if NewMetrics(false) != nil {
		t.Fatalf("disabled metrics should be nil")
	}
}

func TestWritePrometheusIsSortedAndEscaped(t *testing.T) {
	m := NewMetrics(true)
	m.ObserveAPI("GET", "/b", "200", 30*time.Millisecond)
	m.ObserveAPI("GET", "/a", "200", 2*time.Second)
	m.IncQuizAttempt(true)
	m.IncQuizAttempt(false)
	m.IncQuizAttempt(true)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`coursehub_quiz_attempts_total{outcome="passed"} 2`,
		`coursehub_quiz_attempts_total{outcome="failed"} 1`,
		`coursehub_api_request_duration_seconds_bucket{method="GET",route="/b",le="0.05"} 1`,
		`coursehub_api_request_duration_seconds_bucket{method="GET",route="/a",le="+Inf"} 1`,
		`# TYPE coursehub_api_inflight_requests gauge`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, `route="/a"`) > strings.Index(out, `route="/b"`) {
		t.Fatalf("series not sorted")
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"k"}, []string{"a\"b\\c\n"})
	want := `{k="a\"b\\c\n"}`
	if got != want {
		t.Fatalf("labelString: want=%s got=%s", want, got)
	}
	if got := labelString([]string{"k", "j"}, []string{"x"}); got != `{k="x",j="unknown"}` {
		t.Fatalf("missing label: got=%s", got)
	}
}

func TestParseHeaders(t *testing.T) {
	h := ParseHeaders("a=1, b = 2 ,bad,=x,c=")
	if len(h) != 2 || h["a"] != "1" || h["b"] != "2" {
		t.Fatalf("ParseHeaders: got=%v", h)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty should be nil")
	}
}
