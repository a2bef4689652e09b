package pathjson

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/pkg/models"
)

// Writer outputs attack paths to a JSON lines file.
type Writer struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewWriter creates a JSONL writer for attack paths.
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

	logger.Infof("Attack path JSON writer initialized: %s", path)
	return &Writer{file: f, encoder: json.NewEncoder(f)}, nil
}

// WritePaths writes a batch of attack paths.
func (w *Writer) WritePaths(paths []*models.AttackPath) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range paths {
		if err := w.encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to encode attack path: %w", err)
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
