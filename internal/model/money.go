package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Money is a fixed-point currency amount stored in paise (1/100 rupee).
// It maps to DECIMAL(10,2) / DECIMAL(12,2) columns and always renders
// with exactly two fractional digits, so arithmetic never goes through
// float64.
type Money int64

// Rupees builds a Money value from a whole rupee amount.
func Rupees(r int64) Money { return Money(r * 100) }

// MaxMoney is the largest amount a DECIMAL(12,2) column holds,
// 9,999,999,999.99.
const MaxMoney Money = 999_999_999_999

// ParseMoney parses a decimal string such as "200", "200.5" or "200.00".
// One optional sign is allowed; everything else must be ASCII digits.
// More than two fractional digits is rejected rather than rounded, and
// so is anything beyond MaxMoney.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}
	raw := s
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("money: invalid amount %q", raw)
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("money: invalid amount %q", raw)
	}
	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("money: invalid amount %q", raw)
	}
	var v int64
	for _, c := range whole {
		v = v*10 + int64(c-'0')
		if v > int64(MaxMoney)/100 {
			return 0, fmt.Errorf("money: amount %q out of range", raw)
		}
	}
	for len(frac) < 2 {
		frac += "0"
	}
	v = v*100 + int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	if v > int64(MaxMoney) {
		return 0, fmt.Errorf("money: amount %q out of range", raw)
	}
	if neg {
		v = -v
	}
	return Money(v), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Mul multiplies the amount by an integer quantity.
func (m Money) Mul(n int) Money { return m * Money(n) }

// Add returns m + o.
func (m Money) Add(o Money) Money { return m + o }

// String renders the amount as "1234.50".
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Display renders the amount for receipts: "Free" for zero, otherwise
// "INR 1,234.50" with thousands separators.
func (m Money) Display() string {
	if m == 0 {
		return "Free"
	}
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	var b strings.Builder
	for i, c := range whole {
		if i != 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%sINR %s.%02d", sign, b.String(), v%100)
}

// Value implements driver.Valuer; DECIMAL columns accept the string form.
func (m Money) Value() (driver.Value, error) { return m.String(), nil }

// Scan implements sql.Scanner for DECIMAL columns, which the MySQL driver
// returns as []byte.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = 0
		return nil
	case []byte:
		p, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = p
		return nil
	case string:
		p, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = p
		return nil
	case int64:
		*m = Rupees(v)
		return nil
	case float64:
		p, err := ParseMoney(strconv.FormatFloat(v, 'f', 2, 64))
		if err != nil {
			return err
		}
		*m = p
		return nil
	}
	return fmt.Errorf("money: cannot scan %T", src)
}

// MarshalJSON emits a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}
	p, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = p
	return nil
}
