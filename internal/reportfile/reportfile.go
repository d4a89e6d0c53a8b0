package reportfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emoji-transfer/internal/model"
)

// Document is the on-disk form of one finished run. It is written once and
// never read back by the tool.
type Document struct {
	RunID      string                `json:"run_id,omitempty"`
	FinishedAt string                `json:"finished_at"`
	DryRun     bool                  `json:"dry_run,omitempty"`
	Planned    int                   `json:"planned"`
	Processed  int                   `json:"processed"`
	Succeeded  int                   `json:"succeeded"`
	Failed     int                   `json:"failed"`
	Bytes      int64                 `json:"bytes_uploaded"`
	ElapsedMS  int64                 `json:"elapsed_ms"`
	Skipped    []model.SkippedEntry  `json:"skipped"`
	Outcomes   []model.UploadOutcome `json:"outcomes"`
}

func Stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// WriteBytes replaces path atomically through a temp file in the same dir.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".emoji-transfer-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file for %s: %w", path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("chmod temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("atomic rename for %s: %w", path, err)
	}
	return nil
}

func Write(path string, doc Document) error {
	if doc.Skipped == nil {
		doc.Skipped = []model.SkippedEntry{}
	}
	if doc.Outcomes == nil {
		doc.Outcomes = []model.UploadOutcome{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report for %s: %w", path, err)
	}
	data = append(data, '\n')
	return WriteBytes(path, data)
}
