package textfeatures

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// A Lexicon is an immutable word → rating(s) table. Every rating column
// may have a companion standard-deviation column.
type Lexicon struct {
	ID            string
	WordColumn    string
	RatingColumns []string
	SDColumns     map[string]string // rating column -> SD column

	words  []string
	index  map[string]int
	values map[string][]float64
}

// NewLexicon builds a lexicon from parallel columns. Duplicate words keep
// their first row.
func NewLexicon(id, wordColumn string, words []string, columns map[string][]float64) (*Lexicon, error) {
	lex := &Lexicon{
		ID:         id,
		WordColumn: wordColumn,
		SDColumns:  make(map[string]string),
		index:      make(map[string]int, len(words)),
		values:     make(map[string][]float64, len(columns)),
	}

	keep := make([]int, 0, len(words))
	for i, w := range words {
		if _, dup := lex.index[w]; dup {
			continue
		}
		lex.index[w] = len(lex.words)
		lex.words = append(lex.words, w)
		keep = append(keep, i)
	}

	for name, col := range columns {
		if len(col) != len(words) {
			return nil, fmt.Errorf("lexicon %s: column %q has %d values for %d words", id, name, len(col), len(words))
		}
		vals := make([]float64, len(keep))
		for j, i := range keep {
			vals[j] = col[i]
		}
		lex.values[name] = vals
		lex.RatingColumns = append(lex.RatingColumns, name)
	}
	sort.Strings(lex.RatingColumns)

	return lex, nil
}

// WithSD declares sd as the standard-deviation column of rating. Both
// columns must exist.
func (l *Lexicon) WithSD(rating, sd string) error {
	if !l.HasColumn(rating) || !l.HasColumn(sd) {
		return fmt.Errorf("lexicon %s: cannot pair %q with SD column %q", l.ID, rating, sd)
	}
	l.SDColumns[rating] = sd
	return nil
}

// Len returns the number of distinct words.
func (l *Lexicon) Len() int {
	return len(l.words)
}

// Words returns the words in file order.
func (l *Lexicon) Words() []string {
	return l.words
}

// HasColumn reports whether the lexicon has a rating column.
func (l *Lexicon) HasColumn(column string) bool {
	_, ok := l.values[column]
	return ok
}

// SD returns the standard-deviation column paired with rating.
func (l *Lexicon) SD(rating string) (string, bool) {
	sd, ok := l.SDColumns[rating]
	return sd, ok
}

// Rating looks up a word's value in column. Missing words and missing
// cells report false.
func (l *Lexicon) Rating(word, column string) (float64, bool) {
	i, ok := l.index[word]
	if !ok {
		return 0, false
	}
	col, ok := l.values[column]
	if !ok || math.IsNaN(col[i]) {
		return 0, false
	}
	return col[i], true
}

// LongFormat describes a (word, category, value) file that is pivoted into
// one rating column per category.
type LongFormat struct {
	CategoryColumn string
	ValueColumn    string
}

// LexiconSchema tells the loader how to read one lexicon file.
type LexiconSchema struct {
	WordColumn    string
	RatingColumns []string          // empty means every numeric column
	SDColumns     map[string]string // rating -> SD, after renaming
	Rename        map[string]string // source column -> canonical name
	Columns       []string          // names for header-less files
	Long          *LongFormat
	Lowercase     bool
	PlainList     bool // one phrase per line, no ratings
	Delimiter     rune // zero picks by file extension
}

// LoadLexicon reads a lexicon file according to schema.
func LoadLexicon(id, path string, schema LexiconSchema) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening lexicon %s: %w", id, err)
	}
	defer f.Close()

	if schema.Delimiter == 0 {
		schema.Delimiter = delimiterFor(path)
	}
	return ReadLexicon(id, f, schema)
}

// ReadLexicon reads a lexicon from r.
func ReadLexicon(id string, r io.Reader, schema LexiconSchema) (*Lexicon, error) {
	if schema.PlainList {
		return readPhraseList(id, r)
	}
	if schema.Delimiter == 0 {
		schema.Delimiter = ','
	}

	reader := csv.NewReader(r)
	reader.Comma = schema.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing lexicon %s: %w", id, err)
	}

	header := schema.Columns
	if len(header) == 0 {
		if len(records) == 0 {
			return nil, fmt.Errorf("lexicon %s is empty", id)
		}
		header, records = records[0], records[1:]
	}
	header = renameColumns(header, schema.Rename)

	wordCol := schema.WordColumn
	if wordCol == "" {
		wordCol = header[0]
	}
	wordIdx := indexOf(header, wordCol)
	if wordIdx < 0 {
		return nil, fmt.Errorf("lexicon %s has no word column %q", id, wordCol)
	}

	var lex *Lexicon
	if schema.Long != nil {
		lex, err = pivotLong(id, wordCol, header, records, wordIdx, *schema.Long, schema.Lowercase)
	} else {
		lex, err = readWide(id, wordCol, header, records, wordIdx, schema)
	}
	if err != nil {
		return nil, err
	}

	for rating, sd := range schema.SDColumns {
		if err := lex.WithSD(rating, sd); err != nil {
			return nil, err
		}
	}
	return lex, nil
}

func readWide(id, wordCol string, header []string, records [][]string, wordIdx int, schema LexiconSchema) (*Lexicon, error) {
	wanted := schema.RatingColumns
	if len(wanted) == 0 {
		wanted = numericColumns(header, records, wordIdx)
		for _, sd := range schema.SDColumns {
			if indexOf(wanted, sd) < 0 && indexOf(header, sd) >= 0 {
				wanted = append(wanted, sd)
			}
		}
	} else {
		for _, sd := range schema.SDColumns {
			if indexOf(wanted, sd) < 0 {
				wanted = append(wanted, sd)
			}
		}
	}

	idx := make([]int, len(wanted))
	for i, name := range wanted {
		if idx[i] = indexOf(header, name); idx[i] < 0 {
			return nil, fmt.Errorf("lexicon %s has no column %q", id, name)
		}
	}

	normalize := wordNormalizer(schema.Lowercase)
	var words []string
	columns := make(map[string][]float64, len(wanted))
	for _, name := range wanted {
		columns[name] = nil
	}
	for _, rec := range records {
		if wordIdx >= len(rec) {
			continue
		}
		word := normalize(rec[wordIdx])
		if word == "" {
			continue
		}
		row := make([]float64, len(wanted))
		parsed := 0
		for i, ci := range idx {
			row[i] = math.NaN()
			if ci < len(rec) {
				if v, err := parseRating(rec[ci]); err == nil {
					row[i] = v
					parsed++
				}
			}
		}
		// a stray header line in a header-less file
		if parsed == 0 && len(wanted) > 0 {
			continue
		}
		words = append(words, word)
		for i, name := range wanted {
			columns[name] = append(columns[name], row[i])
		}
	}

	return NewLexicon(id, wordCol, words, columns)
}

func pivotLong(id, wordCol string, header []string, records [][]string, wordIdx int, long LongFormat, lower bool) (*Lexicon, error) {
	catIdx := indexOf(header, long.CategoryColumn)
	valIdx := indexOf(header, long.ValueColumn)
	if catIdx < 0 || valIdx < 0 {
		return nil, fmt.Errorf("lexicon %s lacks long-format columns %q/%q", id, long.CategoryColumn, long.ValueColumn)
	}

	normalize := wordNormalizer(lower)
	var words []string
	rowOf := make(map[string]int)
	cells := make(map[string]map[int]float64)

	for _, rec := range records {
		if wordIdx >= len(rec) || catIdx >= len(rec) || valIdx >= len(rec) {
			continue
		}
		v, err := parseRating(rec[valIdx])
		if err != nil {
			continue
		}
		word := normalize(rec[wordIdx])
		category := strings.ToLower(strings.TrimSpace(rec[catIdx]))
		if word == "" || category == "" {
			continue
		}
		row, ok := rowOf[word]
		if !ok {
			row = len(words)
			rowOf[word] = row
			words = append(words, word)
		}
		if cells[category] == nil {
			cells[category] = make(map[int]float64)
		}
		if _, seen := cells[category][row]; !seen {
			cells[category][row] = v
		}
	}

	columns := make(map[string][]float64, len(cells))
	for category, byRow := range cells {
		col := make([]float64, len(words))
		for i := range col {
			col[i] = math.NaN()
		}
		for row, v := range byRow {
			col[row] = v
		}
		columns[category] = col
	}

	return NewLexicon(id, wordCol, words, columns)
}

// readPhraseList reads one phrase per line, skipping blank lines and
// lines starting with "%".
func readPhraseList(id string, r io.Reader) (*Lexicon, error) {
	var phrases []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "%") {
			continue
		}
		line = norm.NFC.String(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading lexicon %s: %w", id, err)
	}
	return NewLexicon(id, "phrase", phrases, nil)
}

func numericColumns(header []string, records [][]string, wordIdx int) []string {
	var out []string
	for ci, name := range header {
		if ci == wordIdx {
			continue
		}
		numeric := false
		for _, rec := range records {
			if ci >= len(rec) || strings.TrimSpace(rec[ci]) == "" {
				continue
			}
			_, err := parseRating(rec[ci])
			numeric = err == nil
			break
		}
		if numeric {
			out = append(out, name)
		}
	}
	return out
}

func parseRating(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "na") || strings.EqualFold(s, "#n/a") {
		return 0, fmt.Errorf("empty rating")
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

func renameColumns(header []string, rename map[string]string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = normalizeColumnName(h)
		if to, ok := rename[h]; ok {
			h = to
		}
		out[i] = h
	}
	return out
}

// normalizeColumnName strips a byte-order mark and surrounding space and
// puts the name in NFC form.
func normalizeColumnName(name string) string {
	return norm.NFC.String(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

func wordNormalizer(lower bool) func(string) string {
	if !lower {
		return func(s string) string {
			return norm.NFC.String(strings.TrimSpace(s))
		}
	}
	caser := cases.Lower(language.Und)
	return func(s string) string {
		return caser.String(norm.NFC.String(strings.TrimSpace(s)))
	}
}

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}
