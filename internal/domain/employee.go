package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EmployeeID is a department letter plus a number allowed for that department
type EmployeeID struct {
	Department byte
	Number     int
}

// String returns the canonical form (no leading zeros), e.g. "A5"
func (id EmployeeID) String() string {
	if id.Department == 0 {
		return ""
	}
	return string(id.Department) + strconv.Itoa(id.Number)
}

// IsZero reports whether the identifier is empty
func (id EmployeeID) IsZero() bool {
	return id.Department == 0
}

// NormalizeEmployeeID parses raw kiosk input into an EmployeeID.
// "A05", "a5" and "A5" all normalize to A5.
func NormalizeEmployeeID(raw string) (EmployeeID, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) < 2 || len(s) > 3 {
		return EmployeeID{}, fmt.Errorf("%w: %q must be 2-3 characters", ErrInvalidFormat, raw)
	}

	letter := s[0]
	if letter < 'A' || letter > 'Z' {
		return EmployeeID{}, fmt.Errorf("%w: %q must start with a department letter", ErrInvalidFormat, raw)
	}

	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return EmployeeID{}, fmt.Errorf("%w: %q has a non-numeric part", ErrInvalidFormat, raw)
		}
	}

	// at most two digits, cannot overflow
	n, _ := strconv.Atoi(digits)

	return EmployeeID{Department: letter, Number: n}, nil
}

// ParseCanonicalEmployeeID parses a stored canonical identifier
func ParseCanonicalEmployeeID(s string) (EmployeeID, error) {
	id, err := NormalizeEmployeeID(s)
	if err != nil {
		return EmployeeID{}, err
	}
	if id.String() != s {
		return EmployeeID{}, fmt.Errorf("%w: %q is not canonical", ErrInvalidFormat, s)
	}
	return id, nil
}

// Validity is the outcome of checking an EmployeeID against the department table
type Validity string

const (
	Valid             Validity = "valid"
	UnknownDepartment Validity = "unknown_department"
	NumberOutOfRange  Validity = "number_out_of_range"
)

// DepartmentTable maps a department letter to its allowed employee numbers
type DepartmentTable struct {
	numbers       map[byte]map[int]struct{}
	locales       map[byte]string
	defaultLocale string
}

// NewDepartmentTable builds a table from allow-lists and locale hints.
// Departments without a locale hint use defaultLocale.
func NewDepartmentTable(allowed map[byte][]int, locales map[byte]string, defaultLocale string) *DepartmentTable {
	t := &DepartmentTable{
		numbers:       make(map[byte]map[int]struct{}, len(allowed)),
		locales:       make(map[byte]string, len(locales)),
		defaultLocale: defaultLocale,
	}
	for letter, nums := range allowed {
		set := make(map[int]struct{}, len(nums))
		for _, n := range nums {
			set[n] = struct{}{}
		}
		t.numbers[letter] = set
	}
	for letter, locale := range locales {
		t.locales[letter] = locale
	}
	return t
}

// Validate checks id against the allow-lists
func (t *DepartmentTable) Validate(id EmployeeID) Validity {
	set, ok := t.numbers[id.Department]
	if !ok {
		return UnknownDepartment
	}
	if _, ok := set[id.Number]; !ok {
		return NumberOutOfRange
	}
	return Valid
}

// Err converts a non-valid Validity into its sentinel error
func (v Validity) Err() error {
	switch v {
	case Valid:
		return nil
	case UnknownDepartment:
		return ErrUnknownDepartment
	default:
		return ErrNumberOutOfRange
	}
}

// LocaleFor returns the display locale hint for a department letter
func (t *DepartmentTable) LocaleFor(department byte) string {
	if locale, ok := t.locales[department]; ok {
		return locale
	}
	return t.defaultLocale
}

// DefaultLocale returns the locale used when no identity is active
func (t *DepartmentTable) DefaultLocale() string {
	return t.defaultLocale
}
