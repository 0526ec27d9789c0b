package schedule

import "sort"

// SortPayments returns the records in canonical settlement order: by
// ConfirmedAt when present (else Date) ascending, ties broken by Date
// ascending. The sort is stable, so records with equal keys keep their input
// order. The returned pointers refer to the caller's slice, which is left
// untouched.
func SortPayments(records []PaymentRecord) []*PaymentRecord {
	sorted := make([]*PaymentRecord, len(records))
	for i := range records {
		sorted[i] = &records[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return settlesBefore(sorted[i], sorted[j])
	})
	return sorted
}

func settlesBefore(a, b *PaymentRecord) bool {
	ka, kb := a.settlementKey(), b.settlementKey()
	if !ka.Equal(kb) {
		return ka.Before(kb)
	}
	return a.Date.Before(b.Date)
}
