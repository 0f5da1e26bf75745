package reconciler

import (
	"time"

	"vietnam-address-reconciliation/internal/assembler"
	"vietnam-address-reconciliation/internal/matcher"
	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/internal/parsers"
	"vietnam-address-reconciliation/pkg/logger"

	"github.com/google/uuid"
)

// Service runs a complete reconciliation: load both tables, reconcile, and
// assemble the three result sets.
type Service struct {
	requestParser    *parsers.RequestParser
	referenceParser  *parsers.ReferenceParser
	matchingConfig   *matcher.MatchingConfig
	progressInterval time.Duration
	logger           logger.Logger
}

// ServiceConfig configures a reconciliation service. Nil fields select
// defaults.
type ServiceConfig struct {
	RequestParser   *parsers.RequestParserConfig
	ReferenceParser *parsers.ReferenceParserConfig
	Matching        *matcher.MatchingConfig

	// ProgressInterval, when positive, sets how often the engine logs
	// progress during a run. Zero keeps the tracker default.
	ProgressInterval time.Duration

	Logger logger.Logger
}

// NewService creates a reconciliation service.
func NewService(config *ServiceConfig) (*Service, error) {
	if config == nil {
		config = &ServiceConfig{}
	}

	requestParser, err := parsers.NewRequestParser(config.RequestParser)
	if err != nil {
		return nil, err
	}

	referenceParser, err := parsers.NewReferenceParser(config.ReferenceParser)
	if err != nil {
		return nil, err
	}

	matchingConfig := config.Matching
	if matchingConfig == nil {
		matchingConfig = matcher.DefaultMatchingConfig()
	}
	if err := matchingConfig.Validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Service{
		requestParser:    requestParser,
		referenceParser:  referenceParser,
		matchingConfig:   matchingConfig,
		progressInterval: config.ProgressInterval,
		logger:           log.WithComponent("reconciliation_service"),
	}, nil
}

// Summary holds the aggregate counts of one run. Totality holds by
// construction: TotalRequests == Matched + Unmatched.
type Summary struct {
	TotalRequests    int            `json:"total_requests"`
	Matched          int            `json:"matched"`
	Unmatched        int            `json:"unmatched"`
	ReferenceRecords int            `json:"reference_records"`
	Accounts         int            `json:"accounts"`
	UploadRows       int            `json:"upload_rows"`
	ReasonCounts     map[string]int `json:"reason_counts,omitempty"`
}

// RunResult is the complete outcome of one reconciliation run.
type RunResult struct {
	RunID     string                `json:"run_id"`
	Strategy  matcher.MatchStrategy `json:"strategy"`
	StartTime time.Time             `json:"start_time"`
	Duration  time.Duration         `json:"duration"`
	Summary   Summary               `json:"summary"`
	Results   *assembler.ResultSet  `json:"-"`
}

// Run loads the request and reference files and reconciles them.
func (s *Service) Run(requestFile, referenceFile string) (*RunResult, error) {
	requests, err := s.requestParser.ParseFile(requestFile)
	if err != nil {
		return nil, err
	}

	references, err := s.referenceParser.ParseFile(referenceFile)
	if err != nil {
		return nil, err
	}

	return s.ReconcileTables(requests, references), nil
}

// ReconcileTables reconciles already-loaded tables. Exposed separately so
// callers that build tables in memory can use the same path as file runs.
func (s *Service) ReconcileTables(requests *models.RequestTable, references []*models.ReferenceRecord) *RunResult {
	runID := uuid.NewString()
	start := timeNow()

	log := s.logger.WithField("run_id", runID)
	log.WithFields(logger.Fields{
		"requests":          len(requests.Records),
		"reference_records": len(references),
		"strategy":          s.matchingConfig.Strategy,
	}).Info("Starting reconciliation run")

	engine := NewEngine(matcher.NewAddressMatcher(s.matchingConfig), references, log)
	engine.progressInterval = s.progressInterval
	results := engine.Reconcile(requests.Records)

	collector := assembler.New(requests.Headers)
	reasonCounts := make(map[string]int)
	for _, result := range results {
		if result.Matched() {
			collector.AddMatched(result.Request, result.Rows)
		} else {
			collector.AddUnmatched(result.Request, result.Reason)
			reasonCounts[result.Reason]++
		}
	}

	resultSet := collector.Result()
	summary := Summary{
		TotalRequests:    len(requests.Records),
		Matched:          len(resultSet.Matched),
		Unmatched:        len(resultSet.Unmatched),
		ReferenceRecords: engine.Index().Size(),
		Accounts:         engine.Index().Accounts(),
		UploadRows:       len(resultSet.UploadRows),
	}
	if len(reasonCounts) > 0 {
		summary.ReasonCounts = reasonCounts
	}

	duration := time.Since(start)
	log.WithFields(logger.Fields{
		"matched":     summary.Matched,
		"unmatched":   summary.Unmatched,
		"upload_rows": summary.UploadRows,
		"duration":    duration.String(),
	}).Info("Reconciliation run completed")

	return &RunResult{
		RunID:     runID,
		Strategy:  s.matchingConfig.Strategy,
		StartTime: start,
		Duration:  duration,
		Summary:   summary,
		Results:   resultSet,
	}
}
