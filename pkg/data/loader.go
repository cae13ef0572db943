package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const utf8BOM = "\ufeff"

// ReadCSV loads a delimited file with a header row into a Table.
// A row whose width differs from the header is reported as malformed.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close()

	t, err := ReadTable(bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}

// ReadTable parses CSV from r. The first record is the header.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	// every record must match the header width
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}
	columns[0] = strings.TrimPrefix(columns[0], utf8BOM)

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", len(records)+1)
		}
		records = append(records, rec)
	}
	return NewTable(columns, records)
}
