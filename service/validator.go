package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"loan-desk/domain"
)

var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]?[0-9]{10,15}$`)
	phoneStrip   = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// Rule checks one raw field value and returns a message, or "" when the
// value is acceptable.
type Rule func(value string) string

var rules = map[string]Rule{
	domain.FieldFirstName:   nameRule("First name"),
	domain.FieldLastName:    nameRule("Last name"),
	domain.FieldEmail:       validateEmail,
	domain.FieldPhone:       validatePhone,
	domain.FieldLoanAmount:  validateLoanAmount,
	domain.FieldLoanType:    requiredRule("Please select a loan type"),
	domain.FieldInstallment: validateInstallment,
	domain.FieldEMI:         validateEMI,
	domain.FieldStatus:      requiredRule("Please select a loan status"),
}

// ValidateField runs the rule registered for field. Unknown fields are
// reported as invalid.
func ValidateField(field, value string) string {
	rule, ok := rules[field]
	if !ok {
		return fmt.Sprintf("Unknown field %q", field)
	}
	return rule(value)
}

// ValidateAll runs every rule and returns the messages of failing fields only.
func ValidateAll(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, field := range domain.Fields {
		if msg := rules[field](values[field]); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

func nameRule(label string) Rule {
	return func(value string) string {
		v := strings.TrimSpace(value)
		if len(v) < MinNameLength || !namePattern.MatchString(v) {
			return label + " must be at least 2 letters and contain only letters and spaces"
		}
		return ""
	}
}

func requiredRule(msg string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return msg
		}
		return ""
	}
}

func validateEmail(value string) string {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		return "Please enter a valid email address"
	}
	return ""
}

func validatePhone(value string) string {
	digits := phoneStrip.Replace(strings.TrimSpace(value))
	if !phonePattern.MatchString(digits) {
		return "Please enter a valid phone number (10-15 digits)"
	}
	return ""
}

func validateLoanAmount(value string) string {
	amount, err := parseNumber(value)
	if err != nil || amount < MinLoanAmount || amount > MaxLoanAmount {
		return "Loan amount must be between $1,000 and $1,000,000"
	}
	return ""
}

func validateInstallment(value string) string {
	months, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || months < MinInstallments || months > MaxInstallments {
		return "Installment must be a whole number of months between 1 and 360"
	}
	return ""
}

func validateEMI(value string) string {
	emi, err := parseNumber(value)
	if err != nil || emi <= 0 || emi > MaxEMI {
		return "EMI must be a positive amount up to $1,000,000"
	}
	return ""
}

func parseNumber(value string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %q", value)
	}
	return n, nil
}
