package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/preload/backend/internal/infrastructure/persistence/models"
)

// Purchase-order extract columns
const (
	ColOrderID                 = "order_id"
	ColDocumentNumber          = "document_number"
	ColPosition                = "position"
	ColProductDescription      = "product_description"
	ColUnitOfMeasure           = "unit_of_measure"
	ColEmissionDate            = "emission_date"
	ColQuantityOrdered         = "quantity_ordered"
	ColQuantityReceived        = "quantity_received"
	ColQuantityInvoiced        = "quantity_invoiced"
	ColOriginalAmount          = "original_amount"
	ColSocietyCode             = "society_code"
	ColProviderAccount         = "provider_account"
	ColContact                 = "contact"
	ColAdvancePaymentNetAmount = "advance_payment_net_amount"
)

// sapAliases maps EKKO/EKPO technical field names to extract columns
var sapAliases = map[string]string{
	"ebeln": ColDocumentNumber,
	"ebelp": ColPosition,
	"txz01": ColProductDescription,
	"meins": ColUnitOfMeasure,
	"bedat": ColEmissionDate,
	"menge": ColQuantityOrdered,
	"netwr": ColOriginalAmount,
	"bukrs": ColSocietyCode,
	"lifnr": ColProviderAccount,
}

var requiredColumns = []string{
	ColDocumentNumber, ColPosition, ColSocietyCode, ColProviderAccount,
	ColQuantityReceived, ColQuantityInvoiced,
}

var purchaseOrderLineRules = []FieldRule{
	Field(ColOrderID).MaxLength(20).Build(),
	Field(ColDocumentNumber).Required().MaxLength(20).Build(),
	Field(ColPosition).Required().Int().NonNegative().Build(),
	Field(ColProductDescription).MaxLength(255).Build(),
	Field(ColUnitOfMeasure).MaxLength(10).Build(),
	Field(ColEmissionDate).Date().Build(),
	Field(ColQuantityOrdered).Decimal().NonNegative().Build(),
	Field(ColQuantityReceived).Required().Decimal().NonNegative().Build(),
	Field(ColQuantityInvoiced).Required().Decimal().NonNegative().Build(),
	Field(ColOriginalAmount).Decimal().Build(),
	Field(ColSocietyCode).Required().MaxLength(10).Build(),
	Field(ColProviderAccount).Required().MaxLength(20).Build(),
	Field(ColContact).MaxLength(200).Build(),
	Field(ColAdvancePaymentNetAmount).Decimal().Build(),
}

// LoaderConfig tunes how an extract is read
type LoaderConfig struct {
	Delimiter    rune
	DecimalComma bool
	MaxErrors    int
	// AccountWidth left-pads numeric provider accounts with zeros, as SAP
	// stores LIFNR. Zero disables padding.
	AccountWidth int
}

// DefaultLoaderConfig matches a SAP GUI spreadsheet export with Argentine
// number formatting
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{Delimiter: ';', DecimalComma: true, MaxErrors: 100, AccountWidth: 10}
}

// LoadResult is the outcome of reading an extract
type LoadResult struct {
	Lines  []models.PurchaseOrderLineModel
	Rows   int
	Latin1 bool
	Errors *ErrorCollection
}

// ReadPurchaseOrderLines parses an extract. Rows that fail validation are
// reported in Errors and left out of Lines; a later duplicate of a
// (document number, position) pair is rejected.
func ReadPurchaseOrderLines(r io.Reader, cfg LoaderConfig) (*LoadResult, error) {
	opts := []ParserOption{WithHeaderAliases(sapAliases)}
	if cfg.Delimiter != 0 {
		opts = append(opts, WithDelimiter(cfg.Delimiter))
	}
	parser, err := NewCSVParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders(requiredColumns); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	result := &LoadResult{Latin1: parser.Latin1(), Errors: NewErrorCollection(cfg.MaxErrors)}
	validator := NewFieldValidator(purchaseOrderLineRules, cfg.DecimalComma, result.Errors)
	seen := make(map[string]int)

	for {
		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				result.Errors.Add(RowError{Row: pe.Line, Code: ErrCodeMalformedRow, Message: pe.Err.Error()})
				continue
			}
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		result.Rows++
		if !validator.ValidateRow(row) {
			continue
		}

		line := toModel(row, validator, cfg.AccountWidth)
		key := line.DocumentNumber + "/" + strconv.Itoa(line.Position)
		if first, dup := seen[key]; dup {
			result.Errors.Add(RowError{Row: row.LineNumber, Column: ColPosition, Code: ErrCodeDuplicate,
				Message: fmt.Sprintf("position already listed on row %d", first), Value: key})
			continue
		}
		seen[key] = row.LineNumber
		result.Lines = append(result.Lines, line)
	}
	return result, nil
}

func toModel(row *Row, v *FieldValidator, accountWidth int) models.PurchaseOrderLineModel {
	position, _ := strconv.Atoi(row.Get(ColPosition))
	emission, _ := ParseDate(row.Get(ColEmissionDate))

	line := models.PurchaseOrderLineModel{
		OrderID:                 row.Get(ColOrderID),
		DocumentNumber:          row.Get(ColDocumentNumber),
		Position:                position,
		ProductDescription:      row.Get(ColProductDescription),
		UnitOfMeasure:           row.Get(ColUnitOfMeasure),
		EmissionDate:            emission,
		QuantityOrdered:         v.Decimal(row, ColQuantityOrdered),
		QuantityReceived:        v.Decimal(row, ColQuantityReceived),
		QuantityInvoiced:        v.Decimal(row, ColQuantityInvoiced),
		OriginalAmount:          v.Decimal(row, ColOriginalAmount),
		SocietyCode:             row.Get(ColSocietyCode),
		ProviderAccount:         padAccount(row.Get(ColProviderAccount), accountWidth),
		Contact:                 row.Get(ColContact),
		AdvancePaymentNetAmount: v.Decimal(row, ColAdvancePaymentNetAmount),
	}
	if line.OrderID == "" {
		line.OrderID = line.DocumentNumber
	}
	return line
}

// padAccount applies SAP's ALPHA conversion to purely numeric accounts
func padAccount(account string, width int) string {
	if width <= 0 || len(account) >= width {
		return account
	}
	for _, r := range account {
		if r < '0' || r > '9' {
			return account
		}
	}
	return strings.Repeat("0", width-len(account)) + account
}
