// Command generate produces a pair of sample input workbooks for manual
// testing: a form responses file and a matching reference address extract.
//
// The generated data covers the interesting paths: a unified-mode account, a
// split-mode account with one pickup, an account missing from the reference
// extract, and a pickup-count disagreement.
//
// Usage:
//
//	go run ./testdata/generators -out testdata
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	out := flag.String("out", "testdata", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*out, 0755); err != nil {
		log.Fatalf("create output directory: %v", err)
	}

	formsPath := filepath.Join(*out, "sample_responses.xlsx")
	if err := writeSheet(formsPath, formsRows()); err != nil {
		log.Fatalf("write %s: %v", formsPath, err)
	}

	referencePath := filepath.Join(*out, "sample_reference.xlsx")
	if err := writeSheet(referencePath, referenceRows()); err != nil {
		log.Fatalf("write %s: %v", referencePath, err)
	}

	fmt.Printf("wrote %s and %s\n", formsPath, referencePath)
}

func formsRows() [][]string {
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
		// Unified account, no pickups on file
		{
			"V10001", "Yes",
			"12 Đường Nguyễn Huệ", "Nguyễn Huệ", "Phường Bến Nghé", "Hồ Chí Minh",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"0",
			"Trần Thị Mai",
		},
		// Split account with one pickup
		{
			"V10002", "No",
			"", "", "", "",
			"45 Lê Lợi", "Lê Lợi", "Phường Bến Thành", "Hồ Chí Minh",
			"78 Hai Bà Trưng", "Hai Bà Trưng", "Phường Đa Kao", "Hồ Chí Minh",
			"90 Điện Biên Phủ", "Điện Biên Phủ", "Phường 15", "Hồ Chí Minh",
			"1",
			"Phạm Văn Hùng",
		},
		// Account missing from the reference extract
		{
			"X99999", "Yes",
			"1 Tràng Tiền", "Tràng Tiền", "Hoàn Kiếm", "Hà Nội",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"0",
			"Ngô Thu Hà",
		},
		// Unified account declaring a pickup the reference does not have
		{
			"V10003", "Yes",
			"23 Lý Thường Kiệt", "Lý Thường Kiệt", "Hoàn Kiếm", "Hà Nội",
			"", "", "", "",
			"", "", "", "",
			"", "", "", "",
			"2",
			"Đỗ Minh Quân",
		},
	}
}

func referenceRows() [][]string {
	return [][]string{
		{
			"Account Number", "Address Type", "Address Line 1", "Address Line 2",
			"Address Line 3", "City", "AC_Name", "Attention_Name",
			"Postal_Code", "Country_Code", "Address_Country_Code",
		},
		{"V10001", "01", "12 duong nguyen hue", "nguyen hue", "phuong ben nghe", "ho chi minh", "CONG TY TNHH MAI ANH", "Tran Thi Mai", "700000", "VN", "VN"},
		{"V10002", "03", "45 le loi", "le loi", "phuong ben thanh", "ho chi minh", "CONG TY CP HUNG PHAT", "Pham Van Hung", "700000", "VN", "VN"},
		{"V10002", "13", "78 hai ba trung", "hai ba trung", "phuong da kao", "ho chi minh", "CONG TY CP HUNG PHAT", "Pham Van Hung", "700000", "VN", "VN"},
		{"V10002", "02", "90 dien bien phu", "dien bien phu", "phuong 15", "ho chi minh", "CONG TY CP HUNG PHAT", "Pham Van Hung", "700000", "VN", "VN"},
		{"V10003", "01", "23 ly thuong kiet", "ly thuong kiet", "hoan kiem", "ha noi", "CONG TY TNHH QUAN DO", "Do Minh Quan", "100000", "VN", "VN"},
	}
}

func writeSheet(path string, rows [][]string) error {
	workbook := excelize.NewFile()
	defer workbook.Close()

	sheet := workbook.GetSheetName(0)
	for rowNum, row := range rows {
		for colNum, value := range row {
			cell, err := excelize.CoordinatesToCellName(colNum+1, rowNum+1)
			if err != nil {
				return err
			}
			if err := workbook.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return workbook.SaveAs(path)
}
