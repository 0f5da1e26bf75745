package parsers

import (
	"regexp"
	"strings"

	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/pkg/logger"
)

// ReferenceParser loads the reference-system address extract.
type ReferenceParser struct {
	config *ReferenceParserConfig
	logger logger.Logger
}

// NewReferenceParser creates a reference parser. A nil config selects the
// default extract layout.
func NewReferenceParser(config *ReferenceParserConfig) (*ReferenceParser, error) {
	if config == nil {
		config = DefaultReferenceParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ReferenceParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("reference_parser"),
	}, nil
}

// ParseFile loads reference records from a .xlsx or .csv file.
func (p *ReferenceParser) ParseFile(path string) ([]*models.ReferenceRecord, error) {
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}

	resolver := newColumnResolver(table.Headers, p.config.ColumnAliases)
	if err := requireColumns(table, resolver, p.config.RequiredColumns()); err != nil {
		return nil, err
	}

	records := make([]*models.ReferenceRecord, 0, len(table.Rows))
	skipped := 0
	for _, row := range table.Rows {
		record := &models.ReferenceRecord{
			AccountNumber:      strings.TrimSpace(cell(row, resolver, p.config.AccountColumn)),
			AddressType:        models.AddressType(normalizeTypeCode(cell(row, resolver, p.config.AddressTypeColumn))),
			AddressLine1:       cell(row, resolver, p.config.AddressLine1Column),
			AddressLine2:       cell(row, resolver, p.config.AddressLine2Column),
			AddressLine3:       cell(row, resolver, p.config.AddressLine3Column),
			City:               cell(row, resolver, p.config.CityColumn),
			PostalCode:         strings.TrimSpace(cell(row, resolver, p.config.PostalCodeColumn)),
			CountryCode:        strings.TrimSpace(cell(row, resolver, p.config.CountryCodeColumn)),
			ACName:             strings.TrimSpace(cell(row, resolver, p.config.ACNameColumn)),
			AttentionName:      strings.TrimSpace(cell(row, resolver, p.config.AttentionNameColumn)),
			AddressCountryCode: strings.TrimSpace(cell(row, resolver, p.config.AddressCountryCodeColumn)),
		}

		if err := record.Validate(); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}

	if skipped > 0 {
		p.logger.WithFields(logger.Fields{
			"file":    path,
			"skipped": skipped,
		}).Warn("Reference rows without account number skipped")
	}

	p.logger.WithFields(logger.Fields{
		"file":    path,
		"records": len(records),
	}).Info("Reference table loaded")

	return records, nil
}

var singleDigit = regexp.MustCompile(`^[0-9]$`)

// normalizeTypeCode restores the leading zero Excel strips from numeric
// address-type cells ("1" was exported as the role code "01", not the
// invoice option; invoice options never appear in the reference extract).
func normalizeTypeCode(value string) string {
	code := strings.TrimSpace(value)
	if singleDigit.MatchString(code) {
		return "0" + code
	}
	return code
}
