package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding is the text encoding of a CSV price list.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1250 Encoding = "windows-1250"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectEncoding reports UTF-8 for valid UTF-8 input and Windows-1250
// otherwise. Supplier price lists saved from Excel on Croatian Windows
// installs use the latter.
func DetectEncoding(data []byte) Encoding {
	if bytes.HasPrefix(data, utf8BOM) || utf8.Valid(data) {
		return EncodingUTF8
	}
	return EncodingWindows1250
}

// DecodeText converts data to UTF-8, dropping a leading byte order mark.
func DecodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if DetectEncoding(data) == EncodingUTF8 {
		return string(data), nil
	}
	out, err := charmap.Windows1250.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode windows-1250 text: %w", err)
	}
	return string(out), nil
}

// DetectDelimiter picks the delimiter that occurs most consistently across the
// first non-empty lines. Comma wins when nothing else scores.
func DetectDelimiter(content string) rune {
	sample := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return ','
	}

	best, bestScore := ',', 0.0
	for _, delim := range []rune{',', ';', '\t'} {
		counts := make([]float64, len(sample))
		sum := 0.0
		for i, line := range sample {
			counts[i] = float64(strings.Count(line, string(delim)))
			sum += counts[i]
		}
		avg := sum / float64(len(counts))
		if avg == 0 {
			continue
		}
		variance := 0.0
		for _, c := range counts {
			variance += (c - avg) * (c - avg)
		}
		variance /= float64(len(counts))

		if score := avg / (1 + variance); score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// ParseComponentPricesCSV reads component price rows from a CSV export with
// the same columns as the workbook import. The encoding and the delimiter
// are detected.
func ParseComponentPricesCSV(r io.Reader) (*ComponentImport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	content, err := DecodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = DetectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	// Blank lines are skipped by the reader; pad them back so row numbers in
	// errors match the file's line numbers.
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, record)
	}
	if len(rows) > 0 && rows[0] == nil {
		return nil, fmt.Errorf("csv header must be on the first line")
	}
	return parseComponentRows("csv", rows)
}

// ParseComponentPriceFile parses a price list by its file extension: .csv and
// .txt as CSV, anything else as an xlsx workbook.
func ParseComponentPriceFile(name string, r io.Reader) (*ComponentImport, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ParseComponentPricesCSV(r)
	}
	return ParseComponentPrices(r)
}
