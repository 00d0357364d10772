package textfeatures

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCorpusFile reads a CSV (or, by extension, TSV) corpus file.
func ReadCorpusFile(path string, opts ...CorpusOpt) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening corpus: %w", err)
	}
	defer f.Close()

	return ReadCorpus(f, delimiterFor(path), opts...)
}

// ReadCorpus reads a delimited corpus with a header row.
func ReadCorpus(r io.Reader, delimiter rune, opts ...CorpusOpt) (*Corpus, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing corpus: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("corpus has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = normalizeColumnName(h)
	}

	return NewCorpusFromRecords(header, records[1:], opts...)
}

// WriteCorpusFile writes the corpus as CSV, or TSV by extension.
func WriteCorpusFile(path string, c *Corpus) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output: %w", err)
	}
	if err := WriteCorpus(f, delimiterFor(path), c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCorpus writes every column in order; missing values are empty cells.
func WriteCorpus(w io.Writer, delimiter rune, c *Corpus) error {
	writer := csv.NewWriter(w)
	writer.Comma = delimiter

	cols := c.Columns()
	if err := writer.Write(cols); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	record := make([]string, len(cols))
	for row := 0; row < c.Len(); row++ {
		for i, col := range cols {
			record[i] = c.Cell(col, row)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func delimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab", ".txt":
		return '\t'
	default:
		return ','
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
