package reconciliation

import "sort"

// SortLines orders rows in place: quantity to invoice descending with
// absent quantities last, then document number descending (string order),
// then position ascending.
func SortLines(lines []EnrichedLine) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lessLine(lines[i], lines[j])
	})
}

func lessLine(a, b EnrichedLine) bool {
	switch {
	case a.QuantityToInvoice != nil && b.QuantityToInvoice == nil:
		return true
	case a.QuantityToInvoice == nil && b.QuantityToInvoice != nil:
		return false
	case a.QuantityToInvoice != nil && b.QuantityToInvoice != nil:
		if c := a.QuantityToInvoice.Cmp(*b.QuantityToInvoice); c != 0 {
			return c > 0
		}
	}
	if a.DocumentNumber != b.DocumentNumber {
		return a.DocumentNumber > b.DocumentNumber
	}
	return a.Position < b.Position
}
