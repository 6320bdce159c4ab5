package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/theplant/luhn"
)

const (
	referencePrefixTransaction   = "TXN"
	referencePrefixDisbursement  = "DISB"
	referencePrefixInterest      = "INT"
	referencePrefixStandingOrder = "SO"
	referencePrefixLoanPayment   = "LPM"
	referencePrefixBillPayment   = "BILL"
	loanNumberPrefix             = "LN"

	createAttempts = 5
)

var referenceCounter uint32

// newReference is prefix, a UTC timestamp, nanos and a process-wide counter.
func newReference(prefix string) string {
	now := time.Now().UTC()
	counter := atomic.AddUint32(&referenceCounter, 1) % 10000
	return fmt.Sprintf("%s%s%09d%04d", prefix, now.Format("20060102150405"), now.Nanosecond(), counter)
}

func newLoanNumber() string {
	return loanNumberPrefix + randomDigits(10)
}

// newAccountNumber is nine random digits followed by their Luhn check digit.
func newAccountNumber() string {
	base := randomDigits(9)
	n := 0
	for _, ch := range base {
		n = n*10 + int(ch-'0')
	}
	return fmt.Sprintf("%s%d", base, luhn.CalculateLuhn(n))
}

// isValidAccountNumber reports whether number is ten digits with a valid
// Luhn check digit.
func isValidAccountNumber(number string) bool {
	if len(number) != 10 {
		return false
	}
	n := 0
	for _, ch := range number {
		if ch < '0' || ch > '9' {
			return false
		}
		n = n*10 + int(ch-'0')
	}
	return luhn.Valid(n)
}

func randomDigits(count int) string {
	var b strings.Builder
	b.Grow(count)
	ten := big.NewInt(10)
	for i := 0; i < count; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			d = big.NewInt(time.Now().UnixNano() % 10)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String()
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrConflict)
}

func stringPtr(value string) *string {
	v := strings.TrimSpace(value)
	return &v
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
