// Package mask normalizes keystroke input for the check-in form. Every function
// drops non-digits, truncates to the field's digit budget and inserts separators
// only once a digit follows the group they close, so partial input degrades to
// the longest valid prefix.
package mask

import "strings"

const (
	NationalIDDigits = 11
	PhoneDigits      = 11
	DateDigits       = 8
	PostalCodeDigits = 8
)

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NationalID formats a CPF as ###.###.###-##.
func NationalID(s string) string {
	return group(s, NationalIDDigits, map[int]string{3: ".", 6: ".", 9: "-"})
}

// Phone formats a Brazilian mobile number as (##) #####-####.
func Phone(s string) string {
	d := limit(Digits(s), PhoneDigits)
	if len(d) <= 2 {
		return d
	}
	return "(" + d[:2] + ") " + group(d[2:], PhoneDigits-2, map[int]string{5: "-"})
}

// Date formats DD/MM/YYYY.
func Date(s string) string {
	return group(s, DateDigits, map[int]string{2: "/", 4: "/"})
}

// PostalCode formats a CEP as #####-###.
func PostalCode(s string) string {
	return group(s, PostalCodeDigits, map[int]string{5: "-"})
}

// group writes seps[i] before the digit at index i.
func group(s string, max int, seps map[int]string) string {
	d := limit(Digits(s), max)
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		if sep, ok := seps[i]; ok {
			b.WriteString(sep)
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

func limit(d string, max int) string {
	if len(d) > max {
		return d[:max]
	}
	return d
}
