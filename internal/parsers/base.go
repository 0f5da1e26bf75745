// Package parsers loads the two input tables — the customer request form
// export and the reference-system address extract — into domain records.
//
// Both tables arrive as .xlsx workbooks (Microsoft Forms / system exports)
// or .csv files. Column positions are not fixed: columns are located by
// header name, with configurable aliases for the header variants the export
// tools produce. Header comparison is tone-free and case-insensitive.
//
// Column-presence validation happens here, before reconciliation starts: a
// missing required column fails the whole run with a parse error. Per-record
// oddities (an unparsable pickup count, an empty address block) never do.
package parsers

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vietnam-address-reconciliation/internal/normalize"
	apperrors "vietnam-address-reconciliation/pkg/errors"
	"vietnam-address-reconciliation/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// Table is a loaded tabular file: header order plus rows keyed by header.
type Table struct {
	// File is the path the table was loaded from, for error context.
	File string

	// Headers in file order, trimmed.
	Headers []string

	// Rows hold cell text keyed by the exact header string. Missing
	// trailing cells are present as empty strings.
	Rows []map[string]string
}

// LoadTable reads a .xlsx or .csv file into a Table. The first row is the
// header row; fully empty data rows are skipped.
func LoadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.FileError(apperrors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, apperrors.FileError(apperrors.CodeFilePermission, path, err)
		}
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}

	var records [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, apperrors.FileError(apperrors.CodeUnsupportedFormat, path, nil)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, apperrors.ParseError(apperrors.CodeEmptyTable, path, "", nil)
	}

	headers := make([]string, len(records[0]))
	for i, header := range records[0] {
		headers[i] = strings.TrimSpace(header)
	}

	table := &Table{File: path, Headers: headers}
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		empty := true
		for i, header := range headers {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			row[header] = value
		}
		if empty {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	logger.GetGlobalLogger().WithComponent("parsers").WithFields(logger.Fields{
		"file":    path,
		"columns": len(headers),
		"rows":    len(table.Rows),
	}).Debug("Table loaded")

	return table, nil
}

// readWorkbook reads the first sheet of an Excel workbook.
func readWorkbook(path string) ([][]string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ParseError(apperrors.CodeEmptyTable, path, "", nil)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}

	return rows, nil
}

// readCSV reads a comma-separated file, tolerating ragged rows.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.ParseError(apperrors.CodeInvalidFormat, path, "", err)
		}
		records = append(records, record)
	}

	return records, nil
}

// columnResolver locates actual file headers by canonical column name,
// tolerating tone, case and whitespace differences plus configured aliases.
type columnResolver struct {
	byKey map[string]string
}

// newColumnResolver indexes the table headers. aliases maps header variants
// (as they appear in files) to canonical column names.
func newColumnResolver(headers []string, aliases map[string]string) *columnResolver {
	resolver := &columnResolver{byKey: make(map[string]string, len(headers))}

	aliasToCanonical := make(map[string]string, len(aliases))
	for variant, canonical := range aliases {
		aliasToCanonical[normalize.Text(variant)] = canonical
	}

	for _, header := range headers {
		key := normalize.Text(header)
		if _, taken := resolver.byKey[key]; !taken {
			resolver.byKey[key] = header
		}
		if canonical, ok := aliasToCanonical[key]; ok {
			canonicalKey := normalize.Text(canonical)
			if _, taken := resolver.byKey[canonicalKey]; !taken {
				resolver.byKey[canonicalKey] = header
			}
		}
	}

	return resolver
}

// resolve returns the actual header for a canonical column name.
func (r *columnResolver) resolve(name string) (string, bool) {
	header, ok := r.byKey[normalize.Text(name)]
	return header, ok
}

// requireColumns verifies the presence of required columns, reporting the
// first one missing. This is the fatal, run-level validation of §6.
func requireColumns(table *Table, resolver *columnResolver, columns []string) error {
	for _, column := range columns {
		if _, ok := resolver.resolve(column); !ok {
			return apperrors.ParseError(apperrors.CodeMissingColumn, table.File, column, nil)
		}
	}
	return nil
}

// cell reads a cell by canonical column name; absent columns read empty.
func cell(row map[string]string, resolver *columnResolver, name string) string {
	header, ok := resolver.resolve(name)
	if !ok {
		return ""
	}
	return row[header]
}
