package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSVParser reads header-labelled statement exports. Column names are
// matched case-insensitively against common English and Spanish labels.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02-01-2006", "2006/01/02"}

type columnIndex struct {
	date         int
	valueDate    int
	amount       int
	direction    int
	description  int
	counterparty int
	reference    int
	balance      int
}

func (p *CSVParser) Parse(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return Result{}, nil
	}

	cols, meta := parseHeader(records[0])
	if cols.date < 0 || cols.amount < 0 || cols.description < 0 {
		return Result{}, fmt.Errorf("csv header is missing date, amount or description columns")
	}

	result := Result{Metadata: meta}
	for _, record := range records[1:] {
		row, err := parseRecord(record, cols)
		if err != nil {
			result.Failed++
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func parseHeader(header []string) (columnIndex, Metadata) {
	cols := columnIndex{date: -1, valueDate: -1, amount: -1, direction: -1, description: -1, counterparty: -1, reference: -1, balance: -1}
	meta := Metadata{}

	for i, name := range header {
		switch normalizeHeader(name) {
		case "date", "fecha", "operationdate", "fechaoperacion":
			cols.date = i
		case "valuedate", "fechavalor":
			cols.valueDate = i
		case "amount", "importe", "cantidad":
			cols.amount = i
		case "type", "tipo", "direction":
			cols.direction = i
		case "description", "concepto", "narration":
			cols.description = i
		case "counterparty", "contraparte", "proveedor", "payee":
			cols.counterparty = i
		case "reference", "referencia":
			cols.reference = i
		case "balance", "saldo":
			cols.balance = i
		}
	}

	return cols, meta
}

func parseRecord(record []string, cols columnIndex) (Row, error) {
	get := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(get(cols.date))
	if err != nil {
		return Row{}, err
	}

	amount, err := parseAmount(get(cols.amount))
	if err != nil {
		return Row{}, err
	}

	description := get(cols.description)
	if description == "" {
		return Row{}, fmt.Errorf("empty description")
	}

	row := Row{
		Date:        date,
		Amount:      amount,
		Description: description,
		Direction:   parseDirection(get(cols.direction)),
	}

	if raw := get(cols.valueDate); raw != "" {
		if valueDate, err := parseDate(raw); err == nil {
			row.ValueDate = &valueDate
		}
	}
	if raw := get(cols.counterparty); raw != "" {
		row.Counterparty = &raw
	}
	if raw := get(cols.reference); raw != "" {
		row.Reference = &raw
	}
	if raw := get(cols.balance); raw != "" {
		if balance, err := parseAmount(raw); err == nil {
			row.Balance = &balance
		}
	}

	return row, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// parseAmount accepts both "1,234.56" and "1.234,56" style values.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, " ", "")
	cleaned = strings.TrimSuffix(cleaned, "€")
	cleaned = strings.TrimPrefix(cleaned, "€")

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	if lastComma > lastDot {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if lastComma >= 0 {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	return decimal.NewFromString(cleaned)
}

func parseDirection(raw string) Direction {
	switch strings.ToUpper(raw) {
	case "DEBIT", "CARGO", "D":
		return DirectionDebit
	case "CREDIT", "ABONO", "C":
		return DirectionCredit
	default:
		return DirectionUnknown
	}
}

func normalizeHeader(name string) string {
	cleaned := strings.ToLower(strings.TrimSpace(name))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")
	return strings.TrimPrefix(cleaned, "\uFEFF")
}
