// Package output serializes extraction results.
package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
)

// ToJSON serializes v to JSON. Non-ASCII text is written as-is rather than
// escaped. With pretty set, output is indented by two spaces.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, v, pretty); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Encode writes v as JSON to w, followed by a newline.
func Encode(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// LabelsFile is the decoded content of an extraction output file, which is
// either a single label array or a batch object keyed by file name.
type LabelsFile struct {
	Labels []models.Label
	Batch  models.Batch
}

// IsBatch reports whether the file held a batch object.
func (f LabelsFile) IsBatch() bool {
	return f.Batch != nil
}

// ReadLabels decodes an extraction output file.
func ReadLabels(path string) (LabelsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LabelsFile{}, err
	}
	return DecodeLabels(data)
}

// DecodeLabels decodes either output shape of the extract command.
func DecodeLabels(data []byte) (LabelsFile, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var batch models.Batch
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return LabelsFile{}, err
		}
		if batch == nil {
			batch = models.Batch{}
		}
		return LabelsFile{Batch: batch}, nil
	}

	var labels []models.Label
	if err := json.Unmarshal(trimmed, &labels); err != nil {
		return LabelsFile{}, err
	}
	return LabelsFile{Labels: labels}, nil
}
