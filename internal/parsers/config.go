package parsers

import "fmt"

// AddressColumns names the four columns of one address block on the form.
type AddressColumns struct {
	Line1 string
	Line2 string
	Line3 string
	City  string
}

// RequestParserConfig holds the column layout of the request form export.
type RequestParserConfig struct {
	AccountColumn     string
	BillingModeColumn string
	PickupCountColumn string
	ContactNameColumn string

	// UnifiedAddress is the single address block of a unified-mode form.
	UnifiedAddress AddressColumns

	// BillingAddress, DeliveryAddress and PickupAddresses are the blocks of
	// a split-mode form. PickupAddresses lists the form's pickup slots in
	// order.
	BillingAddress  AddressColumns
	DeliveryAddress AddressColumns
	PickupAddresses []AddressColumns

	// ColumnAliases maps header variants found in files to the canonical
	// column names above.
	ColumnAliases map[string]string
}

// DefaultRequestParserConfig returns the column layout of the Microsoft
// Forms export currently in use.
func DefaultRequestParserConfig() *RequestParserConfig {
	return &RequestParserConfig{
		AccountColumn:     "Account Number",
		BillingModeColumn: "Do you use the same address for billing, delivery and pickup?",
		PickupCountColumn: "Number of pickup addresses",
		ContactNameColumn: "Contact Name",
		UnifiedAddress: AddressColumns{
			Line1: "Address Line 1",
			Line2: "Address Line 2",
			Line3: "Address Line 3",
			City:  "City",
		},
		BillingAddress: AddressColumns{
			Line1: "Billing Address Line 1",
			Line2: "Billing Address Line 2",
			Line3: "Billing Address Line 3",
			City:  "Billing City",
		},
		DeliveryAddress: AddressColumns{
			Line1: "Delivery Address Line 1",
			Line2: "Delivery Address Line 2",
			Line3: "Delivery Address Line 3",
			City:  "Delivery City",
		},
		PickupAddresses: []AddressColumns{
			{
				Line1: "Pickup Address 1 Line 1",
				Line2: "Pickup Address 1 Line 2",
				Line3: "Pickup Address 1 Line 3",
				City:  "Pickup Address 1 City",
			},
			{
				Line1: "Pickup Address 2 Line 1",
				Line2: "Pickup Address 2 Line 2",
				Line3: "Pickup Address 2 Line 3",
				City:  "Pickup Address 2 City",
			},
			{
				Line1: "Pickup Address 3 Line 1",
				Line2: "Pickup Address 3 Line 2",
				Line3: "Pickup Address 3 Line 3",
				City:  "Pickup Address 3 City",
			},
		},
		ColumnAliases: map[string]string{
			"account":        "Account Number",
			"account no":     "Account Number",
			"account no.":    "Account Number",
			"ac number":      "Account Number",
			"same address?":  "Do you use the same address for billing, delivery and pickup?",
			"same address":   "Do you use the same address for billing, delivery and pickup?",
			"pickup count":   "Number of pickup addresses",
			"no. of pickups": "Number of pickup addresses",
			"contact":        "Contact Name",
			"name":           "Contact Name",
		},
	}
}

// Validate checks that the columns the engine cannot run without are named.
func (c *RequestParserConfig) Validate() error {
	if c.AccountColumn == "" {
		return fmt.Errorf("account column name is required")
	}
	if c.BillingModeColumn == "" {
		return fmt.Errorf("billing mode column name is required")
	}
	return nil
}

// RequiredColumns lists the columns whose absence fails the run before
// reconciliation starts.
func (c *RequestParserConfig) RequiredColumns() []string {
	return []string{c.AccountColumn, c.BillingModeColumn}
}

// ReferenceParserConfig holds the column layout of the reference-system
// address extract.
type ReferenceParserConfig struct {
	AccountColumn            string
	AddressTypeColumn        string
	AddressLine1Column       string
	AddressLine2Column       string
	AddressLine3Column       string
	CityColumn               string
	PostalCodeColumn         string
	CountryCodeColumn        string
	ACNameColumn             string
	AttentionNameColumn      string
	AddressCountryCodeColumn string

	ColumnAliases map[string]string
}

// DefaultReferenceParserConfig returns the column layout of the system
// address extract.
func DefaultReferenceParserConfig() *ReferenceParserConfig {
	return &ReferenceParserConfig{
		AccountColumn:            "Account Number",
		AddressTypeColumn:        "Address Type",
		AddressLine1Column:       "Address Line 1",
		AddressLine2Column:       "Address Line 2",
		AddressLine3Column:       "Address Line 3",
		CityColumn:               "City",
		PostalCodeColumn:         "Postal_Code",
		CountryCodeColumn:        "Country_Code",
		ACNameColumn:             "AC_Name",
		AttentionNameColumn:      "Attention_Name",
		AddressCountryCodeColumn: "Address_Country_Code",
		ColumnAliases: map[string]string{
			"account":       "Account Number",
			"ac_num":        "Account Number",
			"ac num":        "Account Number",
			"type":          "Address Type",
			"ac_address_type": "Address Type",
			"address_line1": "Address Line 1",
			"address_line2": "Address Line 2",
			"address_line22": "Address Line 3",
			"postal code":   "Postal_Code",
			"country code":  "Country_Code",
			"attention name": "Attention_Name",
			"address country code": "Address_Country_Code",
		},
	}
}

// Validate checks that required column names are configured.
func (c *ReferenceParserConfig) Validate() error {
	for _, column := range c.RequiredColumns() {
		if column == "" {
			return fmt.Errorf("reference parser config has an empty required column name")
		}
	}
	return nil
}

// RequiredColumns lists the reference columns whose absence fails the run.
func (c *ReferenceParserConfig) RequiredColumns() []string {
	return []string{
		c.AccountColumn,
		c.AddressTypeColumn,
		c.AddressLine1Column,
		c.AddressLine2Column,
		c.ACNameColumn,
		c.PostalCodeColumn,
		c.CountryCodeColumn,
		c.AddressCountryCodeColumn,
	}
}
