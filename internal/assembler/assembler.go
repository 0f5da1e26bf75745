// Package assembler collects per-record reconciliation outcomes into the
// three result sets the run produces: matched records, unmatched records
// with their reasons, and the upload-template rows.
//
// The upload template has a fixed 12-column schema; the assembler guarantees
// the column set and order are identical for every run, including runs that
// produce zero rows.
package assembler

import (
	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/internal/normalize"
)

// MatchedRecord pairs an accepted request with the upload rows it produced.
type MatchedRecord struct {
	Request *models.RequestRecord
	Rows    []*models.OutputRow
}

// UnmatchedRecord pairs a rejected request with the first reason produced.
type UnmatchedRecord struct {
	Request *models.RequestRecord
	Reason  string
}

// Assembler accumulates outcomes in input order.
type Assembler struct {
	requestHeaders []string
	matched        []*MatchedRecord
	unmatched      []*UnmatchedRecord
	uploadRows     []*models.OutputRow
}

// New creates an assembler. requestHeaders is the request table's header
// order, used to serialize the matched/unmatched audit tables with the same
// columns the customer file had.
func New(requestHeaders []string) *Assembler {
	return &Assembler{
		requestHeaders: requestHeaders,
		matched:        []*MatchedRecord{},
		unmatched:      []*UnmatchedRecord{},
		uploadRows:     []*models.OutputRow{},
	}
}

// AddMatched records an accepted request and appends its rows to the upload
// template in emission order.
func (a *Assembler) AddMatched(request *models.RequestRecord, rows []*models.OutputRow) {
	a.matched = append(a.matched, &MatchedRecord{Request: request, Rows: rows})
	a.uploadRows = append(a.uploadRows, rows...)
}

// AddUnmatched records a rejected request with its reason.
func (a *Assembler) AddUnmatched(request *models.RequestRecord, reason string) {
	a.unmatched = append(a.unmatched, &UnmatchedRecord{Request: request, Reason: reason})
}

// Result returns the accumulated result sets.
func (a *Assembler) Result() *ResultSet {
	return &ResultSet{
		RequestHeaders: a.requestHeaders,
		Matched:        a.matched,
		Unmatched:      a.unmatched,
		UploadRows:     a.uploadRows,
	}
}

// ResultSet holds the three ordered result collections of one run.
type ResultSet struct {
	RequestHeaders []string
	Matched        []*MatchedRecord
	Unmatched      []*UnmatchedRecord
	UploadRows     []*models.OutputRow
}

// reasonHeader is the trailing column added to the unmatched audit table.
const reasonHeader = "Reason"

// accountKeyHeader is the derived column appended to the matched audit
// table: the tone-free account key the record was validated under.
const accountKeyHeader = "Account Number (tone-free)"

// MatchedHeaders returns the header row of the matched audit table: the
// original request columns plus the derived tone-free account key.
func (rs *ResultSet) MatchedHeaders() []string {
	headers := make([]string, 0, len(rs.RequestHeaders)+1)
	headers = append(headers, rs.RequestHeaders...)
	return append(headers, accountKeyHeader)
}

// MatchedTable returns the matched audit rows: original cells in request
// header order, untouched, plus the tone-free account key.
func (rs *ResultSet) MatchedTable() [][]string {
	table := make([][]string, 0, len(rs.Matched))
	for _, record := range rs.Matched {
		table = append(table, append(rs.rawCells(record.Request), normalize.Key(record.Request.AccountNumber)))
	}
	return table
}

// UnmatchedHeaders returns the header row of the unmatched audit table: the
// original request columns plus the trailing reason column.
func (rs *ResultSet) UnmatchedHeaders() []string {
	headers := make([]string, 0, len(rs.RequestHeaders)+1)
	headers = append(headers, rs.RequestHeaders...)
	return append(headers, reasonHeader)
}

// UnmatchedTable returns the unmatched audit rows: original cells plus the
// reason.
func (rs *ResultSet) UnmatchedTable() [][]string {
	table := make([][]string, 0, len(rs.Unmatched))
	for _, record := range rs.Unmatched {
		table = append(table, append(rs.rawCells(record.Request), record.Reason))
	}
	return table
}

// UploadHeaders returns the fixed upload-template schema. Present even when
// UploadTable is empty.
func (rs *ResultSet) UploadHeaders() []string {
	return models.UploadTemplateHeaders()
}

// UploadTable returns the upload-template rows as cells in schema order.
func (rs *ResultSet) UploadTable() [][]string {
	table := make([][]string, 0, len(rs.UploadRows))
	for _, row := range rs.UploadRows {
		table = append(table, row.Values())
	}
	return table
}

// rawCells reads the preserved original cells in header order. Headers the
// row has no cell for come back empty, so ragged input stays rectangular.
func (rs *ResultSet) rawCells(request *models.RequestRecord) []string {
	cells := make([]string, 0, len(rs.RequestHeaders)+1)
	for _, header := range rs.RequestHeaders {
		cells = append(cells, request.Raw[header])
	}
	return cells
}
