package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteTextfile(t *testing.T) {
	m := NewRunMetrics()
	m.ObserveBucket(3, 2, 1, 0)
	m.ObserveBucket(1, 0, 0, 1)
	m.ObserveRun(1500*time.Millisecond, true, time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "chatsplit.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"chatsplit_buckets_total 2",
		"chatsplit_messages_total 4",
		`chatsplit_photos_total{status="moved"} 2`,
		`chatsplit_photos_total{status="missing"} 1`,
		`chatsplit_photos_total{status="failed"} 1`,
		"chatsplit_run_duration_seconds 1.5",
		"chatsplit_last_run_success 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNilReceiver(t *testing.T) {
	var m *RunMetrics
	m.ObserveBucket(1, 1, 1, 1)
	m.ObserveRun(time.Second, false, time.Now())
}

func TestFailedRun(t *testing.T) {
	m := NewRunMetrics()
	m.ObserveRun(time.Second, false, time.Now())
	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "chatsplit_last_run_success" {
			if got := f.GetMetric()[0].GetGauge().GetValue(); got != 0 {
				t.Fatalf("last_run_success = %v, want 0", got)
			}
			return
		}
	}
	t.Fatal("last_run_success not gathered")
}
