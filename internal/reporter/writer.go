package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"vietnam-address-reconciliation/internal/assembler"
	apperrors "vietnam-address-reconciliation/pkg/errors"
	"vietnam-address-reconciliation/pkg/logger"

	"github.com/xuri/excelize/v2"
)

// FileFormat selects the serialization of the result tables.
type FileFormat string

const (
	FileFormatXLSX FileFormat = "xlsx"
	FileFormatCSV  FileFormat = "csv"
)

// IsValid checks if the file format is supported.
func (f FileFormat) IsValid() bool {
	return f == FileFormatXLSX || f == FileFormatCSV
}

// Result table file names, without extension. Fixed so operators can script
// against them.
const (
	MatchedFileName   = "matched_records"
	UnmatchedFileName = "unmatched_records"
	UploadFileName    = "upload_template"
)

// ResultWriter serializes the three result tables of a run.
type ResultWriter struct {
	format FileFormat
	logger logger.Logger
}

// NewResultWriter creates a writer for the given format.
func NewResultWriter(format FileFormat) (*ResultWriter, error) {
	if format == "" {
		format = FileFormatXLSX
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid file format: %s", format)
	}

	return &ResultWriter{
		format: format,
		logger: logger.GetGlobalLogger().WithComponent("result_writer"),
	}, nil
}

// WriteAll writes the matched, unmatched and upload-template tables into the
// output directory and returns the written paths. Every table is written
// even when empty: the header row alone carries the schema, and the upload
// template's 12 columns must be present regardless of row count.
func (w *ResultWriter) WriteAll(results *assembler.ResultSet, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, apperrors.FileError(apperrors.CodeFilePermission, outputDir, err)
	}

	tables := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{MatchedFileName, results.MatchedHeaders(), results.MatchedTable()},
		{UnmatchedFileName, results.UnmatchedHeaders(), results.UnmatchedTable()},
		{UploadFileName, results.UploadHeaders(), results.UploadTable()},
	}

	paths := make([]string, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(outputDir, table.name+"."+string(w.format))
		if err := w.writeTable(path, table.headers, table.rows); err != nil {
			return nil, err
		}

		w.logger.WithFields(logger.Fields{
			"file": path,
			"rows": len(table.rows),
		}).Info("Result table written")
		paths = append(paths, path)
	}

	return paths, nil
}

func (w *ResultWriter) writeTable(path string, headers []string, rows [][]string) error {
	if w.format == FileFormatCSV {
		return writeCSVTable(path, headers, rows)
	}
	return writeWorkbookTable(path, headers, rows)
}

func writeWorkbookTable(path string, headers []string, rows [][]string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)

	if err := setStringRow(workbook, sheet, 1, headers); err != nil {
		return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	for i, row := range rows {
		if err := setStringRow(workbook, sheet, i+2, row); err != nil {
			return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
		}
	}

	if err := workbook.SaveAs(path); err != nil {
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	return nil
}

// setStringRow writes the row as explicit strings so account numbers and the
// address-type codes keep their leading zeros.
func setStringRow(workbook *excelize.File, sheet string, rowNum int, cells []string) error {
	for i, cellValue := range cells {
		cellName, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := workbook.SetCellStr(sheet, cellName, cellValue); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVTable(path string, headers []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return apperrors.FileError(apperrors.CodeFilePermission, path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.FileError(apperrors.CodeFileCorrupted, path, err)
	}
	return nil
}
