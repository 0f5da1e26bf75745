// Package reconciler implements the address reconciliation engine: a single
// synchronous pass over the request records that routes every record into
// exactly one of matched (with its upload-template rows) or unmatched (with a
// human-readable reason).
//
// The decision procedure per record:
//
//  1. Look up the account group in the reference index; an unknown account is
//     unmatched immediately.
//  2. Unified mode: the single request address must match a reference record
//     of type "01" (all), and the declared pickup count must equal the number
//     of pickup records on file. Success emits the three invoice rows.
//  3. Split mode: billing is checked first, then delivery, then the pickup
//     counts, then each supplied pickup block; the first failure decides the
//     reason and later checks are skipped. Success emits one row per pickup,
//     the three billing invoice rows, and one delivery row.
//
// Mismatches are data, not errors: they never abort the batch.
package reconciler

import (
	"fmt"

	"vietnam-address-reconciliation/internal/models"
)

// Unmatched reasons. These strings appear verbatim in the unmatched result
// table handed back to the operations team, so they are stable.
const (
	ReasonAccountNotFound    = "account not found"
	ReasonUnifiedNotMatched  = "unified address not matched"
	ReasonBillingNotMatched  = "billing address not matched"
	ReasonDeliveryNotMatched = "delivery address not matched"

	// ReasonNotProcessed is the defensive fallback for a record that fell
	// through every branch without producing rows or a reason.
	ReasonNotProcessed = "no matching address found or not processed"
)

// pickupCountReason reports a disagreement between the declared pickup count
// and the number of pickup records the reference system has on file.
func pickupCountReason(declared, onFile int) string {
	return fmt.Sprintf("pickup count mismatch: %d vs %d", declared, onFile)
}

// pickupSuppliedReason reports a disagreement between the declared pickup
// count and the number of pickup address blocks actually filled in.
func pickupSuppliedReason(declared, supplied int) string {
	return fmt.Sprintf("pickup count mismatch: %d declared vs %d supplied", declared, supplied)
}

// pickupNotMatchedReason reports a supplied pickup block with no counterpart
// in the reference system, naming the offending lines as written on the form.
func pickupNotMatchedReason(addr models.Address) string {
	return fmt.Sprintf("pickup address not matched: %s, %s", addr.Line1, addr.Line2)
}

// RecordResult is the outcome for one request record. Exactly one of Rows or
// Reason is set: a matched record carries its upload-template rows, an
// unmatched record carries the first reason produced.
type RecordResult struct {
	Request *models.RequestRecord
	Rows    []*models.OutputRow
	Reason  string
}

// Matched reports whether the record validated against the reference system.
func (r *RecordResult) Matched() bool {
	return r.Reason == ""
}

func matched(req *models.RequestRecord, rows []*models.OutputRow) *RecordResult {
	return &RecordResult{Request: req, Rows: rows}
}

func unmatched(req *models.RequestRecord, reason string) *RecordResult {
	if reason == "" {
		reason = ReasonNotProcessed
	}
	return &RecordResult{Request: req, Reason: reason}
}
