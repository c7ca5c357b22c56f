package output

import (
	"encoding/json"
	"io"

	"github.com/amrgaberm/codesense/internal/domain/review"
)

// JSONWriter outputs the result as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, result *review.ReviewResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
