package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/dataloom-cli/internal/frame"
)

// ErrUnsupported indicates a source format the loader cannot read.
var ErrUnsupported = errors.New("unsupported table format")

// ReadTable loads a tabular source into a frame.Table, choosing the
// reader by file extension (.csv, .tsv, .xlsx).
func ReadTable(path string) (frame.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ReadCSV(path, 0)
	case ".xlsx":
		return ReadXLSX(path, "")
	default:
		return frame.Table{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}
