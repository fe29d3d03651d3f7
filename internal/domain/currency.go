package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeCurrency is the ledger's base currency ticker.
const NativeCurrency = "XRP"

// DropsPerXRP is the fixed minor-to-major unit divisor for the base currency.
const DropsPerXRP = 1_000_000

// DefaultCurrencyMaxLength bounds the length of decoded currency tickers.
const DefaultCurrencyMaxLength = 20

// rippleEpochOffset is the Unix timestamp of the ledger epoch (2000-01-01T00:00:00Z).
const rippleEpochOffset = 946684800

// demurrageYearSeconds is the fixed year length used for annualized
// demurrage interest, with no leap adjustment.
const demurrageYearSeconds = 31536000.0

var (
	hexCurrencyPattern = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)
	trailingZeroPairs  = regexp.MustCompile(`(00)+$`)
	tickerPattern      = regexp.MustCompile(`^[A-Za-z0-9]{3,}$`)
)

// ParseDrops converts a wire-level drops string into a major-unit XRP value.
func ParseDrops(drops string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(drops)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid drops amount %q: %w", drops, err)
	}
	return DropsToXRP(d), nil
}

// DropsToXRP converts a minor-unit drops value into major-unit XRP.
func DropsToXRP(drops decimal.Decimal) decimal.Decimal {
	return drops.Shift(-6)
}

// DecodeCurrencyCode converts a raw on-ledger currency identifier into a
// display string. Decoding is pure and total: every input maps to exactly
// one of a standard 3-letter code, a decoded UTF-8 ticker, a demurrage
// descriptor, or the empty string for undecodable input. Callers must treat
// an empty result as "unknown currency", not as an error.
//
// A 3-character code equal to the base ticker is rejected on both the
// standard and the hex-encoded path: a valid issued asset never names the
// native currency (native amounts carry no currency field at all).
func DecodeCurrencyCode(raw string, maxLen int) string {
	if len(raw) == 3 {
		code := strings.TrimSpace(raw)
		if strings.EqualFold(code, NativeCurrency) {
			return ""
		}
		return code
	}

	if !hexCurrencyPattern.MatchString(raw) {
		return ""
	}
	full, err := hex.DecodeString(raw)
	if err != nil {
		return ""
	}

	// Trailing null padding carries no information on any variant.
	stripped := trailingZeroPairs.ReplaceAllString(strings.ToLower(raw), "")
	if stripped == "" {
		return ""
	}

	if strings.HasPrefix(stripped, "01") {
		return decodeDemurrage(full)
	}
	payload, err := hex.DecodeString(stripped)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(stripped, "02") && len(payload) > 8 {
		// XLS-15d concise identifier: the ticker starts at byte 8.
		if code := decodeTicker(payload[8:], maxLen); code != "" {
			return code
		}
	}
	return decodeTicker(payload, maxLen)
}

// decodeTicker interprets raw bytes as a UTF-8 ticker, truncated to maxLen
// runes. The candidate is accepted only if it is at least three alphanumeric
// characters and not the base ticker.
func decodeTicker(payload []byte, maxLen int) string {
	candidate := string(payload)
	if runes := []rune(candidate); len(runes) > maxLen {
		candidate = string(runes[:maxLen])
	}
	candidate = strings.TrimSpace(strings.Trim(candidate, "\x00"))
	if !tickerPattern.MatchString(candidate) {
		return ""
	}
	if strings.EqualFold(candidate, NativeCurrency) {
		return ""
	}
	return candidate
}

// decodeDemurrage renders a legacy interest-bearing currency code. The
// 20-byte value holds a marker byte, three ASCII code bytes, a 4-byte
// big-endian interest-start epoch and an 8-byte big-endian IEEE double
// interest period in seconds.
func decodeDemurrage(full []byte) string {
	if len(full) < 16 {
		return ""
	}
	code := string(full[1:4])
	interestPeriod := math.Float64frombits(binary.BigEndian.Uint64(full[8:16]))
	rate := math.Exp(demurrageYearSeconds/interestPeriod)*100 - 100
	return fmt.Sprintf("%s (%s%% pa)", code, strconv.FormatFloat(rate, 'f', -1, 64))
}
