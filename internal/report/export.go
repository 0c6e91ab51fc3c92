package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Export writes report content to a timestamped plain-text file under dir,
// creating the directory if needed. An empty filename generates
// report_YYYYMMDD_HHMMSS.txt; a .txt extension is appended when missing.
// It returns the full path written.
func Export(dir, filename, content string) (string, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	if filename == "" {
		filename = fmt.Sprintf("report_%s.txt", time.Now().Format("20060102_150405"))
	}
	if !strings.HasSuffix(filename, ".txt") {
		filename += ".txt"
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
