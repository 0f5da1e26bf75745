// Package models defines the domain records exchanged between the parsers,
// the reconciliation engine and the output assembler.
//
// Records are immutable once parsed: the engine derives normalized copies for
// comparison and output, the originals are preserved verbatim for the audit
// (matched/unmatched) result sets.
package models

import (
	"fmt"
	"strings"

	"vietnam-address-reconciliation/internal/normalize"
)

// AddressType is the reference-system code denoting the role of an address.
type AddressType string

const (
	// AddressTypeAll marks the single combined address of an account that
	// uses one address for billing, delivery and pickup.
	AddressTypeAll AddressType = "01"
	// AddressTypePickup marks a pickup location address.
	AddressTypePickup AddressType = "02"
	// AddressTypeBilling marks a billing address.
	AddressTypeBilling AddressType = "03"
	// AddressTypeDelivery marks a delivery address.
	AddressTypeDelivery AddressType = "13"
)

// String returns the wire code of the address type.
func (t AddressType) String() string {
	return string(t)
}

// IsValid checks if the address type is one of the reference-system codes.
func (t AddressType) IsValid() bool {
	switch t {
	case AddressTypeAll, AddressTypePickup, AddressTypeBilling, AddressTypeDelivery:
		return true
	default:
		return false
	}
}

// Description returns a human-readable role name for log output.
func (t AddressType) Description() string {
	switch t {
	case AddressTypeAll:
		return "all"
	case AddressTypePickup:
		return "pickup"
	case AddressTypeBilling:
		return "billing"
	case AddressTypeDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// InvoiceOption is the secondary code used only in upload-template output to
// replicate the billing (or unified) address across the invoice destinations.
// An invoice output row carries the option in both the address-type column
// and the invoice-option column.
type InvoiceOption string

const (
	InvoiceOption1 InvoiceOption = "1"
	InvoiceOption2 InvoiceOption = "2"
	InvoiceOption6 InvoiceOption = "6"
)

// InvoiceOptions lists the invoice options in the order the upload template
// expects the synthesized rows.
var InvoiceOptions = []InvoiceOption{InvoiceOption1, InvoiceOption2, InvoiceOption6}

// String returns the wire code of the invoice option.
func (o InvoiceOption) String() string {
	return string(o)
}

// BillingMode states whether the customer declared one address for billing,
// delivery and pickup (Unified) or distinct addresses per role (Split).
type BillingMode string

const (
	BillingModeUnified BillingMode = "UNIFIED"
	BillingModeSplit   BillingMode = "SPLIT"
)

// String returns the string representation of the billing mode.
func (m BillingMode) String() string {
	return string(m)
}

// IsValid checks if the billing mode is valid.
func (m BillingMode) IsValid() bool {
	return m == BillingModeUnified || m == BillingModeSplit
}

// ParseBillingMode derives the billing mode from the answer to the form's
// "same address for billing, delivery and pickup" yes/no question. An
// affirmative answer means Unified; everything else means Split.
func ParseBillingMode(answer string) BillingMode {
	switch normalize.Text(answer) {
	case "yes", "y", "co", "dung", "true":
		return BillingModeUnified
	default:
		return BillingModeSplit
	}
}

// MaxPickupAddresses is the number of pickup address blocks the request form
// provides room for.
const MaxPickupAddresses = 3

// ClampPickupCount forces a declared pickup count into the representable
// range [0, MaxPickupAddresses].
func ClampPickupCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxPickupAddresses {
		return MaxPickupAddresses
	}
	return n
}

// Address is one address block of a request form: number+street, street
// name, ward/commune, and city.
type Address struct {
	Line1 string
	Line2 string
	Line3 string
	City  string
}

// IsEmpty reports whether no field of the address carries text.
func (a Address) IsEmpty() bool {
	return strings.TrimSpace(a.Line1) == "" &&
		strings.TrimSpace(a.Line2) == "" &&
		strings.TrimSpace(a.Line3) == "" &&
		strings.TrimSpace(a.City) == ""
}

// Normalized returns a tone-free, lowercased, trimmed copy of the address.
// The receiver is not modified.
func (a Address) Normalized() Address {
	return Address{
		Line1: normalize.Text(a.Line1),
		Line2: normalize.Text(a.Line2),
		Line3: normalize.Text(a.Line3),
		City:  normalize.Text(a.City),
	}
}

// RequestRecord is one row of the customer-submitted address-change form.
type RequestRecord struct {
	// AccountNumber as written on the form, unmodified.
	AccountNumber string

	BillingMode BillingMode

	// Unified is the single address of a BillingModeUnified request.
	Unified Address

	// Billing, Delivery and Pickups are the address blocks of a
	// BillingModeSplit request. Pickups holds only the blocks the customer
	// actually filled in, in form order.
	Billing  Address
	Delivery Address
	Pickups  []Address

	// DeclaredPickupCount is the customer's answer to "how many pickup
	// addresses", clamped to [0, MaxPickupAddresses]. An unparsable answer
	// is read as zero.
	DeclaredPickupCount int

	ContactName string

	// Raw preserves the original form row cells by header for the audit
	// output. Never mutated after parsing.
	Raw map[string]string
}

// Validate performs basic validation on the request record.
func (r *RequestRecord) Validate() error {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return fmt.Errorf("account number cannot be empty")
	}

	if !r.BillingMode.IsValid() {
		return fmt.Errorf("invalid billing mode: %s", r.BillingMode)
	}

	if r.DeclaredPickupCount < 0 || r.DeclaredPickupCount > MaxPickupAddresses {
		return fmt.Errorf("declared pickup count out of range: %d", r.DeclaredPickupCount)
	}

	return nil
}

// AccountKey returns the normalized account identifier used for index lookup.
func (r *RequestRecord) AccountKey() string {
	return normalize.Key(r.AccountNumber)
}

// RequestTable is a parsed request file: header order plus records in input
// order.
type RequestTable struct {
	Headers []string
	Records []*RequestRecord
}

// ReferenceRecord is one row of the existing-system address extract.
type ReferenceRecord struct {
	AccountNumber      string
	AddressType        AddressType
	AddressLine1       string
	AddressLine2       string
	AddressLine3       string
	City               string
	PostalCode         string
	CountryCode        string
	ACName             string
	AttentionName      string
	AddressCountryCode string
}

// Validate performs basic validation on the reference record.
func (r *ReferenceRecord) Validate() error {
	if strings.TrimSpace(r.AccountNumber) == "" {
		return fmt.Errorf("account number cannot be empty")
	}

	return nil
}

// AccountKey returns the normalized account identifier used for grouping.
func (r *ReferenceRecord) AccountKey() string {
	return normalize.Key(r.AccountNumber)
}

// OutputRow is one record of the bulk-update upload template.
type OutputRow struct {
	AccountNumber      string
	AddressType        string
	InvoiceOption      string
	ACName             string
	AddressLine1       string
	AddressLine2       string
	City               string
	PostalCode         string
	CountryCode        string
	AttentionName      string
	AddressLine22      string
	AddressCountryCode string
}

// UploadTemplateHeaders returns the fixed 12-column schema of the upload
// template, in order. The downstream bulk-update import rejects any other
// column set, so this order is load-bearing.
func UploadTemplateHeaders() []string {
	return []string{
		"AC_NUM",
		"AC_Address_Type",
		"invoice option",
		"AC_Name",
		"Address_Line1",
		"Address_Line2",
		"City",
		"Postal_Code",
		"Country_Code",
		"Attention_Name",
		"Address_Line22",
		"Address_Country_Code",
	}
}

// Values returns the row's cells in UploadTemplateHeaders order.
func (r *OutputRow) Values() []string {
	return []string{
		r.AccountNumber,
		r.AddressType,
		r.InvoiceOption,
		r.ACName,
		r.AddressLine1,
		r.AddressLine2,
		r.City,
		r.PostalCode,
		r.CountryCode,
		r.AttentionName,
		r.AddressLine22,
		r.AddressCountryCode,
	}
}
