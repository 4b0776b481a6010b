package statement

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCSVParserSpanishHeaders(t *testing.T) {
	input := `Fecha,Fecha Valor,Importe,Tipo,Concepto,Proveedor,Saldo
10/03/2026,11/03/2026,"1.234,56",CARGO,Alquiler oficina,Inmobiliaria Sur,"-114,56"
12/03/2026,,120.00,ABONO,Cobro cliente,,
`

	result, err := NewCSVParser().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}

	rent := result.Rows[0]
	if !rent.Amount.Equal(decimal.RequireFromString("1234.56")) {
		t.Fatalf("expected 1234.56, got %s", rent.Amount)
	}
	if rent.Direction != DirectionDebit {
		t.Fatalf("expected DEBIT for CARGO, got %q", rent.Direction)
	}
	if rent.ValueDate == nil || rent.ValueDate.Day() != 11 {
		t.Fatal("expected value date parsed")
	}
	if rent.Counterparty == nil || *rent.Counterparty != "Inmobiliaria Sur" {
		t.Fatal("expected counterparty parsed")
	}
	if rent.Balance == nil || !rent.Balance.Equal(decimal.RequireFromString("-114.56")) {
		t.Fatal("expected balance parsed")
	}

	income := result.Rows[1]
	if income.Direction != DirectionCredit {
		t.Fatalf("expected CREDIT for ABONO, got %q", income.Direction)
	}
	if income.ValueDate != nil {
		t.Fatal("expected no value date on second row")
	}
}

func TestCSVParserStripsByteOrderMark(t *testing.T) {
	input := "\uFEFFDate,Amount,Description\n2026-03-10,120.00,Cobro cliente\n"

	result, err := NewCSVParser().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 row from a BOM-prefixed export, got %d", len(result.Rows))
	}
}

func TestCSVParserCountsBadRowsAsFailed(t *testing.T) {
	input := `Date,Amount,Description
2026-03-10,120.00,Valid row
not-a-date,50.00,Broken row
2026-03-11,garbage,Broken amount
2026-03-12,30.00,
`

	result, err := NewCSVParser().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("expected 1 good row, got %d", len(result.Rows))
	}
	if result.Failed != 3 {
		t.Fatalf("expected 3 failed rows, got %d", result.Failed)
	}
}

func TestCSVParserRequiresCoreColumns(t *testing.T) {
	input := `Foo,Bar
1,2
`
	if _, err := NewCSVParser().Parse(strings.NewReader(input)); err == nil {
		t.Fatal("expected an error for a header without date, amount and description")
	}
}

func TestParseAmountFormats(t *testing.T) {
	cases := map[string]string{
		"1,234.56":  "1234.56",
		"1.234,56":  "1234.56",
		"-1.234,56": "-1234.56",
		"120":       "120",
		"120,50":    "120.50",
		"1 234,50€": "1234.50",
	}
	for raw, want := range cases {
		got, err := parseAmount(raw)
		if err != nil {
			t.Errorf("parseAmount(%q): %v", raw, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("parseAmount(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestRegistryResolvesByExtension(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.ForFilename("export.CSV"); err != nil {
		t.Fatalf("expected csv resolved case-insensitively: %v", err)
	}
	if _, err := registry.ForFilename("export.pdf"); err == nil {
		t.Fatal("expected unsupported format error for pdf")
	}

	registry.Register(".xlsx", NewCSVParser())
	if _, err := registry.ForFilename("export.xlsx"); err != nil {
		t.Fatalf("expected registered parser resolved: %v", err)
	}
}
