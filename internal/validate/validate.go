package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gymsite/internal/payments"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ     = regexp.MustCompile(`^[A-Za-z0-9 _'\\-]{1,50}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSize  = regexp.MustCompile(`^[A-Za-z0-9]{1,8}$`)
	// cart ids are "<productId>-<size>"
	reCartID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}-[A-Za-z0-9]{1,8}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 100 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (product/testimonial ids, categories).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Size validates a product size label such as M, XL or OS.
func Size(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reSize.MatchString(s)
}

func CartID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reCartID.MatchString(s)
}

// Delta checks a quantity change; zero and anything beyond ±50 are rejected.
func Delta(n int) bool { return n != 0 && n <= 50 && n >= -50 }

// Featured parses the featured query flag.
func Featured(s string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && b
}

// Stock validates an inventory count.
func Stock(n int) bool { return n >= 0 && n <= 100000 }

// Price accepts non-negative finite amounts below a sanity cap.
func Price(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p < 100000
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 80 {
		return "", false
	}
	return s, true
}

// Text trims free text and enforces a max length.
func Text(s string, max int) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= max
}

// Membership normalizes a membership type; empty means none.
func Membership(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = payments.MembershipNone
	}
	return s, payments.ValidMembership(s)
}

// Password enforces a length window for login checks. bcrypt ignores bytes
// past 72.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72
}
