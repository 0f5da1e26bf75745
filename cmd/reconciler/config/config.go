// Package config assembles component configurations for the CLI from flag
// values, keeping the flag surface decoupled from the internal config types.
package config

import (
	"vietnam-address-reconciliation/internal/matcher"
	"vietnam-address-reconciliation/internal/parsers"
	"vietnam-address-reconciliation/internal/reconciler"
	"vietnam-address-reconciliation/internal/reporter"
)

// CreateServiceConfig builds the reconciliation service configuration for
// the given match strategy flag value.
func CreateServiceConfig(strategy string) (*reconciler.ServiceConfig, error) {
	parsed, err := matcher.ParseStrategy(strategy)
	if err != nil {
		return nil, err
	}

	return &reconciler.ServiceConfig{
		RequestParser:   parsers.DefaultRequestParserConfig(),
		ReferenceParser: parsers.DefaultReferenceParserConfig(),
		Matching:        &matcher.MatchingConfig{Strategy: parsed},
	}, nil
}

// CreateReportConfig builds the summary report configuration for the given
// output format flag value. Invalid values fall back to console; the flag is
// validated before this point.
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()
	if parsed := reporter.OutputFormat(format); parsed.IsValid() {
		config.Format = parsed
	}
	return config
}
