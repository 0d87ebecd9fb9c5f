package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "crawler_test_records_total",
		Help: "Test counter",
	})
	counter.Add(3)

	orig := Gatherer
	Gatherer = reg
	t.Cleanup(func() { Gatherer = orig })

	path := filepath.Join(t.TempDir(), "textfile", "crawler.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "crawler_test_records_total 3") {
		t.Errorf("Expected counter value in textfile, got:\n%s", data)
	}
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("Expected no error for empty path, got %v", err)
	}
}
