package reconciliation

// Variant identifies which duplication rule applies to a document
type Variant string

const (
	VariantCreditDebitNote Variant = "credit_debit_note"
	VariantStandard        Variant = "standard"
)

// VariantFor maps the document classification to a rule variant
func VariantFor(isCreditDebitNote bool) Variant {
	if isCreditDebitNote {
		return VariantCreditDebitNote
	}
	return VariantStandard
}

// Transform applies the rule set of the given variant and sorts the result.
// It never fails; an empty input yields an empty, non-nil result.
func Transform(lines []PurchaseOrderLine, variant Variant) []EnrichedLine {
	var out []EnrichedLine
	if variant == VariantCreditDebitNote {
		out = ApplyCreditDebitNoteRules(lines)
	} else {
		out = ApplyStandardRules(lines)
	}
	SortLines(out)
	return out
}

// ApplyCreditDebitNoteRules emits, for the first line of each document
// number that has both a reception code and a quantity to invoice, a
// placeholder row with no reception code, no quantity to invoice and no
// total ahead of the line itself. Later lines of the same document number
// never get a placeholder.
func ApplyCreditDebitNoteRules(lines []PurchaseOrderLine) []EnrichedLine {
	out := make([]EnrichedLine, 0, len(lines))
	processed := make(map[string]struct{})

	for _, l := range lines {
		e := Enrich(l)
		if l.HasReceptionCode() && l.QuantityToInvoice != nil {
			if _, seen := processed[l.DocumentNumber]; !seen {
				out = append(out, e.placeholder(false))
				processed[l.DocumentNumber] = struct{}{}
			}
		}
		out = append(out, e)
	}
	return out
}

// ApplyStandardRules emits a placeholder row ahead of any line with a
// reception code, unless the rows produced so far already hold a row of the
// same document number with an empty reception code. The placeholder keeps
// the total computed from the original line.
func ApplyStandardRules(lines []PurchaseOrderLine) []EnrichedLine {
	out := make([]EnrichedLine, 0, len(lines))

	for _, l := range lines {
		e := Enrich(l)
		if l.HasReceptionCode() && !hasEmptyReceptionRow(out, l.DocumentNumber) {
			out = append(out, e.placeholder(true))
		}
		out = append(out, e)
	}
	return out
}

func hasEmptyReceptionRow(rows []EnrichedLine, documentNumber string) bool {
	for _, r := range rows {
		if r.DocumentNumber == documentNumber && r.ReceptionCode == "" {
			return true
		}
	}
	return false
}
