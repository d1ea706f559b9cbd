package reconciliation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func line(doc string, pos int, recv, inv string, toInv *decimal.Decimal, reception *string, amount string) PurchaseOrderLine {
	return PurchaseOrderLine{
		OrderID:            "4500000001",
		DocumentNumber:     doc,
		Position:           pos,
		ProductDescription: "Servicio de mantenimiento",
		UnitOfMeasure:      "UN",
		EmissionDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		QuantityOrdered:    dec("10"),
		QuantityReceived:   dec(recv),
		QuantityInvoiced:   dec(inv),
		QuantityToInvoice:  toInv,
		ReceptionCode:      reception,
		OriginalAmount:     dec(amount),
		SocietyCode:        "1000",
		ProviderCode:       "0000100234",
	}
}

func countPlaceholders(rows []EnrichedLine) int {
	n := 0
	for _, r := range rows {
		if r.ReceptionCode == "" && r.QuantityToInvoice == nil {
			n++
		}
	}
	return n
}

func TestEnrich(t *testing.T) {
	t.Run("derives still-to-invoice and total", func(t *testing.T) {
		e := Enrich(line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"))
		assert.True(t, e.QuantityStillToInvoice.Equal(dec("6")))
		require.NotNil(t, e.TotalAmount)
		assert.True(t, e.TotalAmount.Equal(dec("600")))
		assert.Equal(t, "R1", e.ReceptionCode)
	})

	t.Run("still-to-invoice is not clamped", func(t *testing.T) {
		e := Enrich(line("A1", 1, "2", "5", nil, nil, "100"))
		assert.True(t, e.QuantityStillToInvoice.Equal(dec("-3")))
	})

	t.Run("absent quantity to invoice has no total", func(t *testing.T) {
		e := Enrich(line("A1", 1, "10", "4", nil, strPtr("R1"), "100"))
		assert.Nil(t, e.QuantityToInvoice)
		assert.Nil(t, e.TotalAmount)
	})

	t.Run("absent reception code becomes empty", func(t *testing.T) {
		e := Enrich(line("A1", 1, "10", "4", nil, nil, "100"))
		assert.Equal(t, "", e.ReceptionCode)
	})

	t.Run("decimal amounts keep precision", func(t *testing.T) {
		e := Enrich(line("A1", 1, "10", "4", decPtr("2.5"), nil, "10.10"))
		require.NotNil(t, e.TotalAmount)
		assert.Equal(t, "25.25", e.TotalAmount.StringFixed(2))
	})
}

func TestDerivedFieldsHoldForEveryRow(t *testing.T) {
	input := []PurchaseOrderLine{
		line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
		line("A1", 2, "3", "3", decPtr("1"), strPtr("R1"), "50"),
		line("B7", 1, "0", "2", nil, nil, "12.5"),
		line("C3", 4, "8", "0", decPtr("8"), strPtr("  "), "7"),
	}

	for _, variant := range []Variant{VariantCreditDebitNote, VariantStandard} {
		t.Run(string(variant), func(t *testing.T) {
			for _, r := range Transform(input, variant) {
				assert.True(t, r.QuantityStillToInvoice.Equal(r.QuantityReceived.Sub(r.QuantityInvoiced)))
				if r.QuantityToInvoice == nil {
					if variant == VariantCreditDebitNote {
						assert.Nil(t, r.TotalAmount)
					}
					continue
				}
				require.NotNil(t, r.TotalAmount)
				assert.True(t, r.TotalAmount.Equal(r.QuantityToInvoice.Mul(r.OriginalAmount)))
			}
		})
	}
}

func TestApplyCreditDebitNoteRules(t *testing.T) {
	t.Run("single line produces placeholder then normal row", func(t *testing.T) {
		rows := ApplyCreditDebitNoteRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
		})
		require.Len(t, rows, 2)

		ph := rows[0]
		assert.Equal(t, "A1", ph.DocumentNumber)
		assert.Equal(t, "", ph.ReceptionCode)
		assert.Nil(t, ph.QuantityToInvoice)
		assert.Nil(t, ph.TotalAmount)
		assert.True(t, ph.QuantityStillToInvoice.Equal(dec("6")))

		normal := rows[1]
		assert.Equal(t, "R1", normal.ReceptionCode)
		require.NotNil(t, normal.QuantityToInvoice)
		assert.True(t, normal.QuantityToInvoice.Equal(dec("6")))
		require.NotNil(t, normal.TotalAmount)
		assert.True(t, normal.TotalAmount.Equal(dec("600")))
	})

	t.Run("one placeholder per document number", func(t *testing.T) {
		rows := ApplyCreditDebitNoteRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
			line("A1", 2, "5", "0", decPtr("5"), strPtr("R2"), "20"),
		})
		assert.Len(t, rows, 3)
		assert.Equal(t, 1, countPlaceholders(rows))
	})

	t.Run("distinct document numbers each get one", func(t *testing.T) {
		rows := ApplyCreditDebitNoteRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
			line("A2", 1, "5", "0", decPtr("5"), strPtr("R1"), "20"),
		})
		assert.Len(t, rows, 4)
		assert.Equal(t, 2, countPlaceholders(rows))
	})

	t.Run("reception code without quantity does not trigger", func(t *testing.T) {
		rows := ApplyCreditDebitNoteRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", nil, strPtr("R1"), "100"),
		})
		require.Len(t, rows, 1)
		assert.Equal(t, "R1", rows[0].ReceptionCode)
	})

	t.Run("earlier empty-reception row does not suppress placeholder", func(t *testing.T) {
		rows := ApplyCreditDebitNoteRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", nil, nil, "100"),
			line("A1", 2, "10", "4", decPtr("3"), strPtr("R1"), "100"),
		})
		assert.Len(t, rows, 3)
	})
}

func TestApplyStandardRules(t *testing.T) {
	t.Run("placeholder keeps the original total", func(t *testing.T) {
		rows := ApplyStandardRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
		})
		require.Len(t, rows, 2)

		ph := rows[0]
		assert.Equal(t, "", ph.ReceptionCode)
		assert.Nil(t, ph.QuantityToInvoice)
		require.NotNil(t, ph.TotalAmount)
		assert.True(t, ph.TotalAmount.Equal(dec("600")))
	})

	t.Run("reception code without quantity still triggers", func(t *testing.T) {
		rows := ApplyStandardRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", nil, strPtr("R1"), "100"),
		})
		require.Len(t, rows, 2)
		assert.Nil(t, rows[0].TotalAmount)
	})

	t.Run("existing empty-reception row of same document suppresses placeholder", func(t *testing.T) {
		rows := ApplyStandardRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", nil, nil, "100"),
			line("A1", 2, "10", "4", decPtr("3"), strPtr("R1"), "100"),
		})
		assert.Len(t, rows, 2)
	})

	t.Run("empty-reception row of another document does not suppress", func(t *testing.T) {
		rows := ApplyStandardRules([]PurchaseOrderLine{
			line("B1", 1, "10", "4", nil, nil, "100"),
			line("A1", 1, "10", "4", decPtr("3"), strPtr("R1"), "100"),
		})
		assert.Len(t, rows, 3)
	})

	t.Run("second line of same document reuses first placeholder", func(t *testing.T) {
		rows := ApplyStandardRules([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
			line("A1", 2, "5", "0", decPtr("5"), strPtr("R2"), "20"),
		})
		assert.Len(t, rows, 3)
	})
}

func TestNoReceptionCodeNeverDuplicates(t *testing.T) {
	input := []PurchaseOrderLine{
		line("A1", 1, "10", "4", decPtr("6"), nil, "100"),
		line("A1", 2, "10", "4", decPtr("6"), strPtr(""), "100"),
		line("A2", 1, "10", "4", decPtr("6"), strPtr("   "), "100"),
	}
	for _, variant := range []Variant{VariantCreditDebitNote, VariantStandard} {
		t.Run(string(variant), func(t *testing.T) {
			rows := Transform(input, variant)
			assert.Len(t, rows, len(input))
		})
	}
}

func TestTransform(t *testing.T) {
	a1 := []PurchaseOrderLine{line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100")}

	t.Run("credit note orders normal row before placeholder", func(t *testing.T) {
		rows := Transform(a1, VariantCreditDebitNote)
		require.Len(t, rows, 2)
		assert.Equal(t, "R1", rows[0].ReceptionCode)
		assert.True(t, rows[0].TotalAmount.Equal(dec("600")))
		assert.Equal(t, "", rows[1].ReceptionCode)
		assert.Nil(t, rows[1].TotalAmount)
	})

	t.Run("standard document placeholder total is 600", func(t *testing.T) {
		rows := Transform(a1, VariantStandard)
		require.Len(t, rows, 2)
		assert.Equal(t, "R1", rows[0].ReceptionCode)
		require.NotNil(t, rows[1].TotalAmount)
		assert.True(t, rows[1].TotalAmount.Equal(dec("600")))
	})

	t.Run("empty input", func(t *testing.T) {
		rows := Transform(nil, VariantStandard)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("placeholders do not cascade", func(t *testing.T) {
		rows := Transform([]PurchaseOrderLine{
			line("A1", 1, "10", "4", decPtr("6"), strPtr("R1"), "100"),
			line("A1", 2, "10", "4", decPtr("6"), strPtr("R1"), "100"),
			line("A1", 3, "10", "4", decPtr("6"), strPtr("R1"), "100"),
		}, VariantCreditDebitNote)
		assert.Equal(t, 1, countPlaceholders(rows))
		assert.Len(t, rows, 4)
	})
}

func TestVariantFor(t *testing.T) {
	assert.Equal(t, VariantCreditDebitNote, VariantFor(true))
	assert.Equal(t, VariantStandard, VariantFor(false))
}
