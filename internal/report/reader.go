package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"courtside/internal/logging"
)

// ReadProfile extracts the plain text of a PDF profile document for
// the profile chat.
func ReadProfile(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open profile: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", fmt.Errorf("profile contains no extractable text")
	}

	logging.Report("loaded profile %s (%d pages, %d chars)", path, r.NumPage(), len(text))
	return text, nil
}
