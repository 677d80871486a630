package money

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Amount is a monetary value in minor units (paise).
type Amount int64

// DefaultSymbol is prepended by String.
const DefaultSymbol = "₹"

var (
	ErrEmpty    = errors.New("price is empty")
	ErrInvalid  = errors.New("price is not a number")
	ErrTooLarge = errors.New("price is too large")
)

// maxWholeDigits keeps whole*100 inside int64.
const maxWholeDigits = 16

// Parse reads a display price such as "₹1,299", "Rs. 500" or "499.50".
// Currency symbols, letters, spaces and thousands separators are ignored;
// at most two fractional digits are kept.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}

	var whole, frac strings.Builder
	seenDot := false
	var prev rune
	for _, r := range s {
		last := prev
		prev = r
		switch {
		case unicode.IsDigit(r):
			if seenDot {
				if frac.Len() < 2 {
					frac.WriteRune(r)
				}
				continue
			}
			whole.WriteRune(r)
		case r == '.':
			// the dot in "Rs." follows a letter
			if unicode.IsLetter(last) {
				continue
			}
			if seenDot {
				return 0, ErrInvalid
			}
			seenDot = true
		case r == '-':
			return 0, ErrInvalid
		}
	}
	if whole.Len() == 0 && frac.Len() == 0 {
		return 0, ErrInvalid
	}

	units := int64(0)
	if w := strings.TrimLeft(whole.String(), "0"); w != "" {
		if len(w) > maxWholeDigits {
			return 0, ErrTooLarge
		}
		v, err := strconv.ParseInt(w, 10, 64)
		if err != nil {
			return 0, ErrInvalid
		}
		units = v * 100
	}
	if frac.Len() > 0 {
		f := frac.String()
		if len(f) == 1 {
			f += "0"
		}
		v, _ := strconv.ParseInt(f, 10, 64)
		units += v
	}
	return Amount(units), nil
}

// MustParse is Parse for static data.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic("money: " + s + ": " + err.Error())
	}
	return a
}

// FromMajor converts whole currency units.
func FromMajor(v int64) Amount { return Amount(v * 100) }

// Mul multiplies by a quantity.
func (a Amount) Mul(qty int) Amount { return a * Amount(qty) }

// String formats the amount with DefaultSymbol, omitting ".00".
func (a Amount) String() string { return a.Format(DefaultSymbol) }

func (a Amount) Format(symbol string) string {
	neg := a < 0
	if neg {
		a = -a
	}
	out := symbol + strconv.FormatInt(int64(a)/100, 10)
	if rem := int64(a) % 100; rem != 0 {
		out += "." + leftPad(strconv.FormatInt(rem, 10))
	}
	if neg {
		return "-" + out
	}
	return out
}

func leftPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
