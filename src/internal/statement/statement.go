// Package statement defines the boundary with bank-statement file parsers.
// The engine only requires that a parser turn a byte stream into normalized
// rows; bank-specific layouts stay behind the Parser interface.
package statement

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/treasury-engine/src/internal/domain"
)

type Direction string

const (
	DirectionUnknown Direction = ""
	DirectionDebit   Direction = "DEBIT"
	DirectionCredit  Direction = "CREDIT"
)

type Row struct {
	Date         time.Time
	ValueDate    *time.Time
	Amount       decimal.Decimal
	Direction    Direction
	Description  string
	Counterparty *string
	Reference    *string
	Balance      *decimal.Decimal
}

type Metadata struct {
	DetectedBankKey *string
	DetectedIBAN    *string
}

type Result struct {
	Rows     []Row
	Metadata Metadata
	Failed   int
}

type Parser interface {
	Parse(r io.Reader) (Result, error)
}

// Registry maps lower-case file extensions to parsers. CSV is built in;
// XLS/XLSX parsers are registered by the embedding application.
type Registry struct {
	parsers map[string]Parser
}

func NewRegistry() *Registry {
	return &Registry{
		parsers: map[string]Parser{
			".csv": NewCSVParser(),
		},
	}
}

func (r *Registry) Register(extension string, parser Parser) {
	r.parsers[strings.ToLower(strings.TrimSpace(extension))] = parser
}

// ForFilename resolves the parser for a file by extension.
func (r *Registry) ForFilename(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	parser, ok := r.parsers[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	return parser, nil
}
