package reconciler

import (
	"testing"

	"vietnam-address-reconciliation/internal/matcher"
	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService(&ServiceConfig{Logger: logger.NewSilentLogger()})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return service
}

func TestNewService_RejectsInvalidMatchingConfig(t *testing.T) {
	_, err := NewService(&ServiceConfig{
		Matching: &matcher.MatchingConfig{Strategy: "levenshtein"},
		Logger:   logger.NewSilentLogger(),
	})
	if err == nil {
		t.Error("expected error for invalid matching config")
	}
}

func TestService_ReconcileTables(t *testing.T) {
	service := newTestService(t)

	headers := []string{"Account Number", "Do you use the same address for billing, delivery and pickup?"}
	requests := &models.RequestTable{
		Headers: headers,
		Records: []*models.RequestRecord{
			unifiedRequest("V10001"),
			splitRequest("V10002", 1),
			unifiedRequest("X99999"),
			unifiedRequest("X88888"),
		},
	}
	references := append(splitReferences("V10002", 1), unifiedReference("V10001"))

	run := service.ReconcileTables(requests, references)

	if run.RunID == "" {
		t.Error("expected a run id")
	}
	if run.Strategy == "" {
		t.Error("expected a strategy on the run result")
	}
	if run.Duration < 0 {
		t.Errorf("negative duration: %v", run.Duration)
	}

	summary := run.Summary
	if summary.TotalRequests != 4 {
		t.Errorf("expected 4 total requests, got %d", summary.TotalRequests)
	}
	if summary.Matched != 2 {
		t.Errorf("expected 2 matched, got %d", summary.Matched)
	}
	if summary.Unmatched != 2 {
		t.Errorf("expected 2 unmatched, got %d", summary.Unmatched)
	}
	if summary.TotalRequests != summary.Matched+summary.Unmatched {
		t.Error("totality violated: matched + unmatched != total")
	}
	// 3 invoice rows for the unified account, 5 rows for the split account.
	if summary.UploadRows != 8 {
		t.Errorf("expected 8 upload rows, got %d", summary.UploadRows)
	}
	if summary.ReferenceRecords != 4 {
		t.Errorf("expected 4 reference records, got %d", summary.ReferenceRecords)
	}
	if summary.Accounts != 2 {
		t.Errorf("expected 2 accounts, got %d", summary.Accounts)
	}
	if summary.ReasonCounts[ReasonAccountNotFound] != 2 {
		t.Errorf("expected 2 account-not-found reasons, got %d", summary.ReasonCounts[ReasonAccountNotFound])
	}

	results := run.Results
	if len(results.Matched) != 2 || len(results.Unmatched) != 2 {
		t.Fatalf("result set sizes: %d matched, %d unmatched", len(results.Matched), len(results.Unmatched))
	}
	if results.Matched[0].Request.AccountNumber != "V10001" {
		t.Errorf("matched records out of order: %s", results.Matched[0].Request.AccountNumber)
	}
	if results.Unmatched[0].Reason != ReasonAccountNotFound {
		t.Errorf("unexpected unmatched reason: %q", results.Unmatched[0].Reason)
	}
}

func TestService_ReconcileTables_EmptyInputs(t *testing.T) {
	service := newTestService(t)

	run := service.ReconcileTables(&models.RequestTable{Headers: []string{"Account Number"}}, nil)

	if run.Summary.TotalRequests != 0 || run.Summary.UploadRows != 0 {
		t.Errorf("expected empty summary, got %+v", run.Summary)
	}
	if run.Summary.ReasonCounts != nil {
		t.Error("expected no reason counts for an empty run")
	}
	// The upload schema must survive an empty run.
	if len(run.Results.UploadHeaders()) != 12 {
		t.Errorf("expected 12 upload columns, got %d", len(run.Results.UploadHeaders()))
	}
	if len(run.Results.UploadTable()) != 0 {
		t.Error("expected no upload rows")
	}
}
