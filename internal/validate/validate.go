package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reCategory = regexp.MustCompile(`^[A-Za-z0-9 _'&-]{1,50}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{1,50}$`)
)

const maxQueryLen = 100

// Q normalizes a search query: trims, drops control characters and caps the
// length. Any printable text is a valid query.
func Q(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if len(s) > maxQueryLen {
		s = s[:maxQueryLen]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
	}
	return s
}

// Qty parses a quantity from a form field. Anything that is not a positive
// integer is rejected.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	if n > 99 {
		n = 99 // clamp to avoid abuse
	}
	return n, true
}

// ID validates a catalog product id.
func ID(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil && n > 0
}

// Page parses a page number; missing or bad input means page 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func Category(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reCategory.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password only enforces the login form's minimum length; the remote API
// decides whether it is right.
func Password(s string) bool {
	return len(s) >= 4 && len(s) <= 100
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}

func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 5 || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Size and Color accept only the variants the detail page offers.
func Size(s string) string {
	switch s = strings.ToUpper(strings.TrimSpace(s)); s {
	case "L", "XL", "XS":
		return s
	}
	return ""
}

func Color(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "purple", "black", "gold":
		return s
	}
	return ""
}
