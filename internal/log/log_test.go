package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noaaclock.log")
	if err := InitWithFile(false, path); err != nil {
		t.Fatalf("InitWithFile failed: %v", err)
	}
	t.Cleanup(func() { baseLogger, log = nil, nil })

	Infof("refreshed %s", "Helsinki")
	GetSugaredLogger().Debugw("suppressed below info")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, expected 1: %q", len(lines), data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "refreshed Helsinki" || entry["level"] != "info" {
		t.Errorf("unexpected entry %v", entry)
	}
	if caller, _ := entry["caller"].(string); !strings.HasPrefix(caller, "log/log_test.go") {
		t.Errorf("caller %q, expected the test file", entry["caller"])
	}
}
