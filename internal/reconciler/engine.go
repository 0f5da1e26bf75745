package reconciler

import (
	"time"

	"vietnam-address-reconciliation/internal/matcher"
	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/pkg/logger"
)

// Engine validates request records against the reference address index and
// builds the upload-template rows for the ones that pass.
type Engine struct {
	matcher *matcher.AddressMatcher
	index   *matcher.AccountIndex
	logger  logger.Logger

	// progressInterval overrides the tracker's default logging interval.
	// Zero keeps the default.
	progressInterval time.Duration
}

// NewEngine creates an engine over the given reference records. A nil
// address matcher selects the canonical exact strategy.
func NewEngine(addressMatcher *matcher.AddressMatcher, references []*models.ReferenceRecord, log logger.Logger) *Engine {
	if addressMatcher == nil {
		addressMatcher = matcher.NewAddressMatcher(nil)
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	index := matcher.NewAccountIndex(references)

	engine := &Engine{
		matcher: addressMatcher,
		index:   index,
		logger:  log.WithComponent("engine"),
	}

	engine.logger.WithFields(logger.Fields{
		"reference_records": index.Size(),
		"accounts":          index.Accounts(),
		"strategy":          addressMatcher.Strategy(),
	}).Debug("Reference index built")

	return engine
}

// Index exposes the account index for summary reporting.
func (e *Engine) Index() *matcher.AccountIndex {
	return e.index
}

// Reconcile processes the request records in input order and returns one
// result per record, in the same order.
func (e *Engine) Reconcile(requests []*models.RequestRecord) []*RecordResult {
	progress := logger.NewProgressTracker("reconcile", len(requests), e.progressInterval, e.logger)

	results := make([]*RecordResult, 0, len(requests))
	for _, request := range requests {
		result := e.evaluate(request)
		results = append(results, result)

		if !result.Matched() {
			e.logger.WithFields(logger.Fields{
				"account": request.AccountNumber,
				"reason":  result.Reason,
			}).Debug("Request unmatched")
		}
		progress.Increment()
	}
	progress.Complete()

	return results
}

// evaluate runs the decision procedure for a single request record.
func (e *Engine) evaluate(request *models.RequestRecord) *RecordResult {
	group := e.index.Lookup(request.AccountNumber)
	if len(group) == 0 {
		return unmatched(request, ReasonAccountNotFound)
	}

	refPickupCount := matcher.CountType(group, models.AddressTypePickup)

	switch request.BillingMode {
	case models.BillingModeUnified:
		return e.evaluateUnified(request, group, refPickupCount)
	case models.BillingModeSplit:
		return e.evaluateSplit(request, group, refPickupCount)
	default:
		return unmatched(request, ReasonNotProcessed)
	}
}

// evaluateUnified validates a request whose single address serves billing,
// delivery and pickup alike.
func (e *Engine) evaluateUnified(request *models.RequestRecord, group []*models.ReferenceRecord, refPickupCount int) *RecordResult {
	ref := e.matcher.FindMatch(request.Unified, group, models.AddressTypeAll)
	if ref == nil {
		return unmatched(request, ReasonUnifiedNotMatched)
	}

	if request.DeclaredPickupCount != refPickupCount {
		return unmatched(request, pickupCountReason(request.DeclaredPickupCount, refPickupCount))
	}

	// The unified address doubles as all three invoice addresses.
	rows := invoiceRows(request.AccountNumber, request.Unified, ref)
	return matched(request, rows)
}

// evaluateSplit validates a request with distinct billing, delivery and
// pickup addresses. Checks run billing, delivery, pickup counts, then each
// pickup block; the first failure decides the reason.
func (e *Engine) evaluateSplit(request *models.RequestRecord, group []*models.ReferenceRecord, refPickupCount int) *RecordResult {
	billingRef := e.matcher.FindMatch(request.Billing, group, models.AddressTypeBilling)
	if billingRef == nil {
		return unmatched(request, ReasonBillingNotMatched)
	}

	deliveryRef := e.matcher.FindMatch(request.Delivery, group, models.AddressTypeDelivery)
	if deliveryRef == nil {
		return unmatched(request, ReasonDeliveryNotMatched)
	}

	supplied := len(request.Pickups)
	if request.DeclaredPickupCount != supplied {
		return unmatched(request, pickupSuppliedReason(request.DeclaredPickupCount, supplied))
	}
	if request.DeclaredPickupCount != refPickupCount {
		return unmatched(request, pickupCountReason(request.DeclaredPickupCount, refPickupCount))
	}

	var rows []*models.OutputRow
	for _, pickup := range request.Pickups {
		pickupRef := e.matcher.FindMatch(pickup, group, models.AddressTypePickup)
		if pickupRef == nil {
			return unmatched(request, pickupNotMatchedReason(pickup))
		}
		rows = append(rows, outputRow(request.AccountNumber, models.AddressTypePickup.String(), "", pickup, pickupRef))
	}

	rows = append(rows, invoiceRows(request.AccountNumber, request.Billing, billingRef)...)
	rows = append(rows, outputRow(request.AccountNumber, models.AddressTypeDelivery.String(), "", request.Delivery, deliveryRef))

	return matched(request, rows)
}

// invoiceRows synthesizes the three invoice-destination rows ("1", "2", "6")
// from one address. Each row carries the option code in both the address-type
// and invoice-option columns.
func invoiceRows(accountNumber string, addr models.Address, ref *models.ReferenceRecord) []*models.OutputRow {
	rows := make([]*models.OutputRow, 0, len(models.InvoiceOptions))
	for _, option := range models.InvoiceOptions {
		rows = append(rows, outputRow(accountNumber, option.String(), option.String(), addr, ref))
	}
	return rows
}

// outputRow builds one upload-template row. Address content comes from the
// request (tone-free form, per the downstream system's requirement); display
// name, postal code and country fields come from the matched reference
// record. AC_NUM stays exactly as written on the form.
func outputRow(accountNumber, addressType, invoiceOption string, addr models.Address, ref *models.ReferenceRecord) *models.OutputRow {
	normalized := addr.Normalized()

	return &models.OutputRow{
		AccountNumber:      accountNumber,
		AddressType:        addressType,
		InvoiceOption:      invoiceOption,
		ACName:             ref.ACName,
		AddressLine1:       normalized.Line1,
		AddressLine2:       normalized.Line2,
		City:               normalized.City,
		PostalCode:         ref.PostalCode,
		CountryCode:        ref.CountryCode,
		AttentionName:      ref.AttentionName,
		AddressLine22:      normalized.Line3,
		AddressCountryCode: ref.AddressCountryCode,
	}
}

// timeNow is stubbed in tests that assert run durations.
var timeNow = time.Now
