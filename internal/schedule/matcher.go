package schedule

// Matching assigns settled payments to projected slots.
type Matching struct {
	// Initial is the payment that settles slot 0, if any.
	Initial *PaymentRecord
	// Monthly[i] settles monthly slot i+1.
	Monthly []*PaymentRecord
	// Unmatched are settled records no slot claimed, in settlement order.
	Unmatched []*PaymentRecord
}

// ForSlot returns the payment matched to the obligation, or nil.
func (m Matching) ForSlot(o Obligation) *PaymentRecord {
	if o.IsInitial {
		return m.Initial
	}
	if o.Index >= 1 && o.Index <= len(m.Monthly) {
		return m.Monthly[o.Index-1]
	}
	return nil
}

// Match assigns payments to slots by position, not by date. The first settled
// initial payment settles the initial slot; the i-th settled non-initial
// payment settles the i-th monthly slot. A slot therefore counts as paid when
// at least that many payments have been made, however early or late they were.
//
// sorted must already be in settlement order (see SortPayments).
func Match(obligations []Obligation, sorted []*PaymentRecord) Matching {
	hasInitialSlot := false
	monthlySlots := 0
	for _, o := range obligations {
		if o.IsInitial {
			hasInitialSlot = true
		} else {
			monthlySlots++
		}
	}

	var m Matching
	for _, p := range sorted {
		if !p.Settled() {
			continue
		}
		if p.PaymentType == PaymentTypeInitial {
			if hasInitialSlot && m.Initial == nil {
				m.Initial = p
				continue
			}
			m.Unmatched = append(m.Unmatched, p)
			continue
		}
		if len(m.Monthly) < monthlySlots {
			m.Monthly = append(m.Monthly, p)
			continue
		}
		m.Unmatched = append(m.Unmatched, p)
	}
	return m
}
