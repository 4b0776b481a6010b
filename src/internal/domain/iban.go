package domain

import "strings"

// NormalizeIBAN strips spaces and upper-cases the value.
func NormalizeIBAN(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// ValidIBAN reports whether the value passes the ISO 13616 mod-97 check.
func ValidIBAN(raw string) bool {
	iban := NormalizeIBAN(raw)
	if len(iban) < 15 || len(iban) > 34 {
		return false
	}
	if !isLetter(iban[0]) || !isLetter(iban[1]) || !isDigit(iban[2]) || !isDigit(iban[3]) {
		return false
	}

	rearranged := iban[4:] + iban[:4]
	remainder := 0
	for i := 0; i < len(rearranged); i++ {
		ch := rearranged[i]
		switch {
		case isDigit(ch):
			remainder = (remainder*10 + int(ch-'0')) % 97
		case isLetter(ch):
			v := int(ch-'A') + 10
			remainder = (remainder*100 + v) % 97
		default:
			return false
		}
	}

	return remainder == 1
}

func isDigit(ch byte) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch byte) bool { return ch >= 'A' && ch <= 'Z' }
