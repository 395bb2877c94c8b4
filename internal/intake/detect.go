package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectContentType sniffs the MIME type of data. The result carries no
// parameters, e.g. "image/png" or "text/plain".
func DetectContentType(data []byte) string {
	base, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return strings.TrimSpace(base)
}

// CandidateFromFile reads a file from disk into a Candidate, detecting its type.
func CandidateFromFile(path string) (Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Candidate{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return Candidate{
		Name:        filepath.Base(path),
		ContentType: DetectContentType(data),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}
