package verdictjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Writer outputs verdicts to a JSON lines file.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for verdicts.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	logger.Infof("Verdict JSON writer initialized: %s", path)
	return &Writer{file: f, encoder: json.NewEncoder(f)}, nil
}

// WriteVerdicts writes a batch of verdicts.
func (w *Writer) WriteVerdicts(verdicts []*models.Verdict) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, verdict := range verdicts {
		if err := w.encoder.Encode(verdict); err != nil {
			return fmt.Errorf("failed to encode verdict: %w", err)
		}
	}
	return nil
}

// Close closes the output file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
