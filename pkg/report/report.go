// Package report persists the fitted model, the score report and a
// predicted-vs-actual plot.
package report

import (
	"encoding"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ScoreHeader is the header row of the score report.
var ScoreHeader = []string{"estimate", "columns_used"}

// WriteModel serializes m to path, creating the parent directory.
// The write is not atomic.
func WriteModel(path string, m encoding.BinaryMarshaler) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "serialize model")
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return errors.Wrapf(err, "write model %s", path)
	}
	return nil
}

// WriteScore writes a one-row report holding the estimate and the
// feature columns used.
func WriteScore(path string, estimate float64, columns []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Write(ScoreHeader)
	w.Write([]string{
		strconv.FormatFloat(estimate, 'g', -1, 64),
		FormatColumns(columns),
	})
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return file.Close()
}

// FormatColumns renders column names as "[a b c]".
func FormatColumns(columns []string) string {
	return "[" + strings.Join(columns, " ") + "]"
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	return nil
}
