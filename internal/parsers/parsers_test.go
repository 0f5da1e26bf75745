package parsers

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"vietnam-address-reconciliation/internal/models"
	apperrors "vietnam-address-reconciliation/pkg/errors"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeTempTable writes rows as a proper CSV file, quoting cells that need it
// (the billing-mode question header contains commas).
func writeTempTable(t *testing.T, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadTable_FileNotFound(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.CodeFileNotFound {
		t.Errorf("expected code %s, got %s", apperrors.CodeFileNotFound, appErr.Code)
	}
}

func TestLoadTable_UnsupportedFormat(t *testing.T) {
	path := writeTempCSV(t, "table.txt", "a,b\n1,2\n")
	_, err := LoadTable(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeUnsupportedFormat {
		t.Errorf("expected unsupported-format error, got %v", err)
	}
}

func TestLoadTable_EmptyFile(t *testing.T) {
	path := writeTempCSV(t, "empty.csv", "")
	_, err := LoadTable(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeEmptyTable {
		t.Errorf("expected empty-table error, got %v", err)
	}
}

func TestLoadTable_CSV(t *testing.T) {
	path := writeTempCSV(t, "table.csv",
		" Account Number ,City\n"+
			"V10001,Hà Nội\n"+
			",\n"+ // fully empty row is dropped
			"V10002\n") // ragged row stays

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}

	// Headers come back trimmed
	if table.Headers[0] != "Account Number" {
		t.Errorf("unexpected header: %q", table.Headers[0])
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["City"] != "Hà Nội" {
		t.Errorf("unexpected cell: %q", table.Rows[0]["City"])
	}
	// Missing trailing cell reads empty
	if table.Rows[1]["City"] != "" {
		t.Errorf("expected empty cell for ragged row, got %q", table.Rows[1]["City"])
	}
}

func TestColumnResolver(t *testing.T) {
	headers := []string{"ACCOUNT NUMBER", "Số Điện Thoại", "AC_NUM"}
	aliases := map[string]string{"ac_num": "Account Number"}
	resolver := newColumnResolver(headers, aliases)

	// Tone-free, case-insensitive resolution
	header, ok := resolver.resolve("Account Number")
	if !ok || header != "ACCOUNT NUMBER" {
		t.Errorf("resolve(Account Number) = %q, %v", header, ok)
	}
	header, ok = resolver.resolve("so dien thoai")
	if !ok || header != "Số Điện Thoại" {
		t.Errorf("resolve(so dien thoai) = %q, %v", header, ok)
	}
	if _, ok := resolver.resolve("Postal Code"); ok {
		t.Error("expected unknown column to fail resolution")
	}
}

func TestColumnResolver_Alias(t *testing.T) {
	resolver := newColumnResolver([]string{"AC_NUM"}, map[string]string{"ac_num": "Account Number"})
	header, ok := resolver.resolve("Account Number")
	if !ok || header != "AC_NUM" {
		t.Errorf("expected alias to resolve to AC_NUM, got %q, %v", header, ok)
	}
}

func requestRows() [][]string {
	return [][]string{
		{
			"Account Number",
			"Do you use the same address for billing, delivery and pickup?",
			"Address Line 1", "Address Line 2", "Address Line 3", "City",
			"Billing Address Line 1", "Billing Address Line 2", "Billing Address Line 3", "Billing City",
			"Delivery Address Line 1", "Delivery Address Line 2", "Delivery Address Line 3", "Delivery City",
			"Pickup Address 1 Line 1", "Pickup Address 1 Line 2", "Pickup Address 1 Line 3", "Pickup Address 1 City",
			"Number of pickup addresses",
			"Contact Name",
		},
		{
			"V10001", "Yes",
			"12 Đường Nguyễn Huệ", "Nguyễn Huệ", "Phường Bến Nghé", "Hồ Chí Minh",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"0",
			"Trần Thị Mai",
		},
		{
			"V10002", "No",
			"", "", "", "",
			"45 Lê Lợi", "Lê Lợi", "", "Hồ Chí Minh",
			"78 Hai Bà Trưng", "Hai Bà Trưng", "", "Hồ Chí Minh",
			"90 Điện Biên Phủ", "Điện Biên Phủ", "", "Hồ Chí Minh",
			"1.0",
			"Phạm Văn Hùng",
		},
		{
			"V10003", "Yes",
			"1 Tràng Tiền", "Tràng Tiền", "", "Hà Nội",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"two",
			"Ngô Thu Hà",
		},
		{
			"V10004", "Yes",
			"2 Tràng Thi", "Tràng Thi", "", "Hà Nội",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"9",
			"Đỗ Minh Quân",
		},
	}
}

func TestRequestParser_ParseFile(t *testing.T) {
	parser, err := NewRequestParser(nil)
	if err != nil {
		t.Fatalf("NewRequestParser: %v", err)
	}

	path := writeTempTable(t, "requests.csv", requestRows())
	table, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(table.Records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(table.Records))
	}

	unified := table.Records[0]
	if unified.AccountNumber != "V10001" {
		t.Errorf("unexpected account: %q", unified.AccountNumber)
	}
	if unified.BillingMode != models.BillingModeUnified {
		t.Errorf("expected unified mode, got %s", unified.BillingMode)
	}
	if unified.Unified.Line1 != "12 Đường Nguyễn Huệ" {
		t.Errorf("address cell must stay as written, got %q", unified.Unified.Line1)
	}
	if unified.DeclaredPickupCount != 0 {
		t.Errorf("expected pickup count 0, got %d", unified.DeclaredPickupCount)
	}
	if unified.Raw["Contact Name"] != "Trần Thị Mai" {
		t.Errorf("raw row not preserved: %q", unified.Raw["Contact Name"])
	}

	split := table.Records[1]
	if split.BillingMode != models.BillingModeSplit {
		t.Errorf("expected split mode, got %s", split.BillingMode)
	}
	if split.Billing.Line1 != "45 Lê Lợi" || split.Delivery.Line1 != "78 Hai Bà Trưng" {
		t.Errorf("unexpected billing/delivery: %q / %q", split.Billing.Line1, split.Delivery.Line1)
	}
	// "1.0" parses as 1 (Forms renders numeric answers with a decimal suffix)
	if split.DeclaredPickupCount != 1 {
		t.Errorf("expected pickup count 1, got %d", split.DeclaredPickupCount)
	}
	if len(split.Pickups) != 1 || split.Pickups[0].Line1 != "90 Điện Biên Phủ" {
		t.Errorf("unexpected pickups: %+v", split.Pickups)
	}

	// Unparsable count reads as zero, the record survives
	if table.Records[2].DeclaredPickupCount != 0 {
		t.Errorf("expected unparsable count to read 0, got %d", table.Records[2].DeclaredPickupCount)
	}
	// Out-of-range count clamps to the form's slot maximum
	if table.Records[3].DeclaredPickupCount != models.MaxPickupAddresses {
		t.Errorf("expected clamped count %d, got %d", models.MaxPickupAddresses, table.Records[3].DeclaredPickupCount)
	}
}

func TestRequestParser_MissingRequiredColumn(t *testing.T) {
	parser, err := NewRequestParser(nil)
	if err != nil {
		t.Fatalf("NewRequestParser: %v", err)
	}

	path := writeTempCSV(t, "requests.csv", "Account Number,City\nV10001,Hà Nội\n")
	_, err = parser.ParseFile(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeMissingColumn {
		t.Fatalf("expected missing-column error, got %v", err)
	}
	if appErr.Context["column"] != "Do you use the same address for billing, delivery and pickup?" {
		t.Errorf("unexpected column in context: %v", appErr.Context["column"])
	}
}

const referenceCSV = `Account Number,Address Type,Address Line 1,Address Line 2,Address Line 3,City,AC_Name,Attention_Name,Postal_Code,Country_Code,Address_Country_Code
V10001,1,12 duong nguyen hue,nguyen hue,phuong ben nghe,ho chi minh,CONG TY TNHH MAI ANH,Tran Thi Mai,700000,VN,VN
V10002,03,45 le loi,le loi,,ho chi minh,CONG TY CP HUNG PHAT,Pham Van Hung,700000,VN,VN
,02,90 dien bien phu,dien bien phu,,ho chi minh,CONG TY CP HUNG PHAT,Pham Van Hung,700000,VN,VN
`

func TestReferenceParser_ParseFile(t *testing.T) {
	parser, err := NewReferenceParser(nil)
	if err != nil {
		t.Fatalf("NewReferenceParser: %v", err)
	}

	path := writeTempCSV(t, "reference.csv", referenceCSV)
	records, err := parser.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	// The accountless row is skipped
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Excel stripped the leading zero from "01"; the parser restores it
	if records[0].AddressType != models.AddressTypeAll {
		t.Errorf("expected type 01, got %s", records[0].AddressType)
	}
	if records[1].AddressType != models.AddressTypeBilling {
		t.Errorf("expected type 03, got %s", records[1].AddressType)
	}
	if records[0].ACName != "CONG TY TNHH MAI ANH" {
		t.Errorf("unexpected AC name: %q", records[0].ACName)
	}
	if records[0].PostalCode != "700000" || records[0].CountryCode != "VN" {
		t.Errorf("unexpected postal/country: %q/%q", records[0].PostalCode, records[0].CountryCode)
	}
}

func TestReferenceParser_MissingRequiredColumn(t *testing.T) {
	parser, err := NewReferenceParser(nil)
	if err != nil {
		t.Fatalf("NewReferenceParser: %v", err)
	}

	path := writeTempCSV(t, "reference.csv", "Account Number,Address Type\nV10001,01\n")
	_, err = parser.ParseFile(path)
	appErr, ok := apperrors.AsAppError(err)
	if !ok || appErr.Code != apperrors.CodeMissingColumn {
		t.Fatalf("expected missing-column error, got %v", err)
	}
}

func TestNormalizeTypeCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1", "01"},
		{"2", "02"},
		{"01", "01"},
		{"13", "13"},
		{" 3 ", "03"},
		{"", ""},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := normalizeTypeCode(tt.input); got != tt.expected {
			t.Errorf("normalizeTypeCode(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
