package parsers

import (
	"strconv"
	"strings"

	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/pkg/logger"
)

// RequestParser loads the customer request form export.
type RequestParser struct {
	config *RequestParserConfig
	logger logger.Logger
}

// NewRequestParser creates a request parser. A nil config selects the
// Microsoft Forms default layout.
func NewRequestParser(config *RequestParserConfig) (*RequestParser, error) {
	if config == nil {
		config = DefaultRequestParserConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RequestParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("request_parser"),
	}, nil
}

// ParseFile loads a request table from a .xlsx or .csv file. Absence of a
// required column is a fatal parse error; anything wrong with an individual
// row is not — the record is still produced and the engine will route it.
func (p *RequestParser) ParseFile(path string) (*models.RequestTable, error) {
	table, err := LoadTable(path)
	if err != nil {
		return nil, err
	}

	resolver := newColumnResolver(table.Headers, p.config.ColumnAliases)
	if err := requireColumns(table, resolver, p.config.RequiredColumns()); err != nil {
		return nil, err
	}

	result := &models.RequestTable{Headers: table.Headers}
	for i, row := range table.Rows {
		record := p.parseRecord(row, resolver, i)
		result.Records = append(result.Records, record)
	}

	p.logger.WithFields(logger.Fields{
		"file":    path,
		"records": len(result.Records),
	}).Info("Request table loaded")

	return result, nil
}

// parseRecord builds one request record from a row. Originals are preserved
// in Raw; no cell is modified.
func (p *RequestParser) parseRecord(row map[string]string, resolver *columnResolver, index int) *models.RequestRecord {
	record := &models.RequestRecord{
		AccountNumber: strings.TrimSpace(cell(row, resolver, p.config.AccountColumn)),
		BillingMode:   models.ParseBillingMode(cell(row, resolver, p.config.BillingModeColumn)),
		ContactName:   strings.TrimSpace(cell(row, resolver, p.config.ContactNameColumn)),
		Unified:       p.address(row, resolver, p.config.UnifiedAddress),
		Billing:       p.address(row, resolver, p.config.BillingAddress),
		Delivery:      p.address(row, resolver, p.config.DeliveryAddress),
		Raw:           copyRow(row),
	}

	record.DeclaredPickupCount = p.parsePickupCount(cell(row, resolver, p.config.PickupCountColumn), index)

	for _, block := range p.config.PickupAddresses {
		addr := p.address(row, resolver, block)
		if addr.IsEmpty() {
			continue
		}
		record.Pickups = append(record.Pickups, addr)
	}

	return record
}

func (p *RequestParser) address(row map[string]string, resolver *columnResolver, columns AddressColumns) models.Address {
	return models.Address{
		Line1: cell(row, resolver, columns.Line1),
		Line2: cell(row, resolver, columns.Line2),
		Line3: cell(row, resolver, columns.Line3),
		City:  cell(row, resolver, columns.City),
	}
}

// parsePickupCount reads the declared pickup count. Forms exports sometimes
// render numeric answers as "2.0"; anything that still fails to parse reads
// as zero rather than failing the record.
func (p *RequestParser) parsePickupCount(value string, index int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}

	trimmed = strings.TrimSuffix(trimmed, ".0")
	count, err := strconv.Atoi(trimmed)
	if err != nil {
		p.logger.WithFields(logger.Fields{
			"row":   index + 1,
			"value": value,
		}).Warn("Unparsable pickup count, treating as zero")
		return 0
	}

	return models.ClampPickupCount(count)
}

func copyRow(row map[string]string) map[string]string {
	copied := make(map[string]string, len(row))
	for key, value := range row {
		copied[key] = value
	}
	return copied
}
