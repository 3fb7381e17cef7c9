package schedule

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)

// Directory indexes people by id.
type Directory map[string]Person

func NewDirectory(people []Person) Directory {
	dir := make(Directory, len(people))
	for _, p := range people {
		dir[p.ID] = p
	}
	return dir
}

func SplitByRole(people []Person) (patients, caretakers []Person) {
	for _, p := range people {
		if p.Role() == RolePatient {
			patients = append(patients, p)
		} else {
			caretakers = append(caretakers, p)
		}
	}
	return patients, caretakers
}

// SearchByName is a case-insensitive substring match. An empty query
// matches everyone.
func SearchByName(people []Person, query string) []Person {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Person, 0, len(people))
	for _, p := range people {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// FormatPhoneNumber reshapes free typing into xxx-xxx-xxxx, keeping at most
// ten digits and emitting dashes only once the next group has started.
func FormatPhoneNumber(value string) string {
	digits := make([]byte, 0, 10)
	for i := 0; i < len(value) && len(digits) < 10; i++ {
		if c := value[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	d := string(digits)
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "-" + d[3:]
	default:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	}
}

func IsPhoneNumberFormatted(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidatePerson checks the profile form: every contact field present and a
// formatted phone number.
func ValidatePerson(p Person) error {
	fields := []struct {
		name, value string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"phone_number", p.PhoneNumber},
		{"address", p.Address},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return formatErr(f.name, "", "is required")
		}
	}
	if !IsPhoneNumberFormatted(p.PhoneNumber) {
		return formatErr("phone_number", p.PhoneNumber, "must look like 555-123-4567")
	}
	switch p.Status {
	case StatusPatient, StatusDoctor, StatusCaretaker:
	default:
		return formatErr("status", p.Status, "must be patient, doctor or caretaker")
	}
	return nil
}
