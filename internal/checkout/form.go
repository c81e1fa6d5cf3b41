package checkout

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Form is the shipping and contact data posted from the checkout page.
type Form struct {
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

func FormFromValues(v url.Values) Form {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	return Form{
		FirstName: get("fname"),
		LastName:  get("lname"),
		Email:     get("email"),
		Phone:     get("phone"),
		Street:    get("street"),
		City:      get("city"),
		State:     get("state"),
		Zip:       get("zip"),
	}
}

// ValidationError lists each failing form field with a reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "invalid checkout form: " + strings.Join(names, ", ")
}

func (f Form) Validate() error {
	bad := map[string]string{}

	required := map[string]string{
		"fname":  f.FirstName,
		"lname":  f.LastName,
		"street": f.Street,
		"city":   f.City,
		"state":  f.State,
		"zip":    f.Zip,
	}
	for k, v := range required {
		if v == "" {
			bad[k] = "required"
		}
	}

	if !ValidEmail(f.Email) {
		bad["email"] = "must be a valid email address"
	}
	if !ValidPhone(f.Phone) {
		bad["phone"] = "must be 10 digits"
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}

func ValidEmail(s string) bool { return emailPattern.MatchString(s) }

func ValidPhone(s string) bool { return phonePattern.MatchString(s) }
