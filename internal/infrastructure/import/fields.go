package csvimport

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a column
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeDate    FieldType = "date"
)

// dateLayouts are tried in order. SAP writes dd.mm.yyyy or yyyymmdd
// depending on user settings.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006", "20060102"}

// FieldRule describes one column
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	NonNegative bool
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a string rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

func (b *FieldRuleBuilder) Date() *FieldRuleBuilder {
	b.rule.Type = TypeDate
	return b
}

func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// NonNegative rejects values below zero for numeric columns
func (b *FieldRuleBuilder) NonNegative() *FieldRuleBuilder {
	b.rule.NonNegative = true
	return b
}

func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator checks rows against rules and records failures
type FieldValidator struct {
	rules        []FieldRule
	decimalComma bool
	errors       *ErrorCollection
}

// NewFieldValidator creates a FieldValidator. With decimalComma, numbers
// are read as 1.234,56 instead of 1,234.56.
func NewFieldValidator(rules []FieldRule, decimalComma bool, errors *ErrorCollection) *FieldValidator {
	return &FieldValidator{rules: rules, decimalComma: decimalComma, errors: errors}
}

// ValidateRow reports whether every rule holds for row
func (v *FieldValidator) ValidateRow(row *Row) bool {
	valid := true
	for _, rule := range v.rules {
		value := row.Get(rule.Column)
		if value == "" {
			if rule.Required {
				v.errors.AddRequired(row.LineNumber, rule.Column)
				valid = false
			}
			continue
		}
		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			v.errors.Add(RowError{Row: row.LineNumber, Column: rule.Column, Code: ErrCodeInvalidLength,
				Message: fmt.Sprintf("at most %d characters", rule.MaxLength), Value: value})
			valid = false
			continue
		}
		if !v.validateType(row.LineNumber, rule, value) {
			valid = false
		}
	}
	return valid
}

func (v *FieldValidator) validateType(line int, rule FieldRule, value string) bool {
	switch rule.Type {
	case TypeInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			v.errors.AddFormat(line, rule.Column, "an integer", value)
			return false
		}
		if rule.NonNegative && n < 0 {
			v.errors.Add(RowError{Row: line, Column: rule.Column, Code: ErrCodeInvalidRange, Message: "must not be negative", Value: value})
			return false
		}
	case TypeDecimal:
		d, err := ParseDecimal(value, v.decimalComma)
		if err != nil {
			v.errors.AddFormat(line, rule.Column, "a number", value)
			return false
		}
		if rule.NonNegative && d.IsNegative() {
			v.errors.Add(RowError{Row: line, Column: rule.Column, Code: ErrCodeInvalidRange, Message: "must not be negative", Value: value})
			return false
		}
	case TypeDate:
		if _, err := ParseDate(value); err != nil {
			v.errors.AddFormat(line, rule.Column, "a date", value)
			return false
		}
	}
	return true
}

// Decimal returns the parsed value of a column that passed validation
func (v *FieldValidator) Decimal(row *Row, column string) decimal.Decimal {
	d, _ := ParseDecimal(row.Get(column), v.decimalComma)
	return d
}

// ParseDecimal parses a number written with either separator convention.
// A trailing minus, as SAP prints negatives, is accepted. Blank is zero.
func ParseDecimal(s string, decimalComma bool) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	negative := false
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}
	if decimalComma {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseDate parses the date layouts SAP exports. Blank and the SAP initial
// date 00000000 yield the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "00000000" || s == "00.00.0000" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
