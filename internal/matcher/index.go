package matcher

import (
	"vietnam-address-reconciliation/internal/models"
	"vietnam-address-reconciliation/internal/normalize"
)

// AccountIndex groups reference records by normalized account number for
// O(1) lookup of all addresses on file for one account. Built once per run
// from the reference table; read-only afterwards.
type AccountIndex struct {
	groups map[string][]*models.ReferenceRecord
	total  int
}

// NewAccountIndex builds an index over the given reference records. Records
// keep their input order within each group.
func NewAccountIndex(records []*models.ReferenceRecord) *AccountIndex {
	index := &AccountIndex{
		groups: make(map[string][]*models.ReferenceRecord),
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		key := record.AccountKey()
		if key == "" {
			continue
		}
		index.groups[key] = append(index.groups[key], record)
		index.total++
	}

	return index
}

// Lookup returns all reference records for the account number, or nil if the
// account is unknown. The account number is normalized before lookup.
func (idx *AccountIndex) Lookup(accountNumber string) []*models.ReferenceRecord {
	return idx.groups[normalize.Key(accountNumber)]
}

// Accounts returns the number of distinct accounts in the index.
func (idx *AccountIndex) Accounts() int {
	return len(idx.groups)
}

// Size returns the number of indexed reference records.
func (idx *AccountIndex) Size() int {
	return idx.total
}

// CountType counts the records of the given address type within a group.
func CountType(group []*models.ReferenceRecord, addressType models.AddressType) int {
	count := 0
	for _, record := range group {
		if record.AddressType == addressType {
			count++
		}
	}
	return count
}
