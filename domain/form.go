package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Form field names, shared by the HTML inputs and the JSON API.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldLoanAmount  = "loanAmount"
	FieldLoanType    = "loanType"
	FieldInstallment = "installment"
	FieldEMI         = "emi"
	FieldStatus      = "status"
)

// Fields lists every form field in display order.
var Fields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldPhone,
	FieldLoanAmount,
	FieldLoanType,
	FieldInstallment,
	FieldEMI,
	FieldStatus,
}

// IsField reports whether name is one of the form fields.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

type FormPhase string

const (
	PhaseEditing          FormPhase = "editing"
	PhaseSubmittedValid   FormPhase = "submitted-valid"
	PhaseSubmittedInvalid FormPhase = "submitted-invalid"
)

// FormState is everything the application form shows: raw values, the
// error map and which dialog is open. It is stored as JSON between requests.
type FormState struct {
	RecordID          string            `json:"recordId,omitempty"`
	Modal             bool              `json:"modal"`
	Values            map[string]string `json:"values"`
	Errors            map[string]string `json:"errors"`
	Submitted         bool              `json:"submitted"`
	Phase             FormPhase         `json:"phase"`
	RejectConfirmOpen bool              `json:"rejectConfirmOpen"`
	UploadOpen        bool              `json:"uploadOpen"`
	Documents         []Document        `json:"documents"`
}

// NewFormState builds an editing form, pre-filled from initial when it is
// not nil.
func NewFormState(initial *Record, modal bool) *FormState {
	f := &FormState{
		Modal:     modal,
		Values:    make(map[string]string, len(Fields)),
		Errors:    map[string]string{},
		Phase:     PhaseEditing,
		Documents: []Document{},
	}
	for _, name := range Fields {
		f.Values[name] = ""
	}
	if initial != nil {
		f.RecordID = initial.ID
		for k, v := range initial.Values() {
			f.Values[k] = v
		}
	}
	return f
}

func (f *FormState) Value(field string) string {
	return f.Values[field]
}

func (f *FormState) Error(field string) string {
	return f.Errors[field]
}

// HasErrors reports whether any field currently shows an error.
func (f *FormState) HasErrors() bool {
	return len(f.Errors) > 0
}

// Record converts the form values into a record. Values must already have
// passed validation.
func (f *FormState) Record() (Record, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Values[FieldLoanAmount]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("loan amount: %w", err)
	}
	installment, err := strconv.Atoi(strings.TrimSpace(f.Values[FieldInstallment]))
	if err != nil {
		return Record{}, fmt.Errorf("installment: %w", err)
	}
	emi, err := strconv.ParseFloat(strings.TrimSpace(f.Values[FieldEMI]), 64)
	if err != nil {
		return Record{}, fmt.Errorf("emi: %w", err)
	}

	return Record{
		ID:          f.RecordID,
		FirstName:   strings.TrimSpace(f.Values[FieldFirstName]),
		LastName:    strings.TrimSpace(f.Values[FieldLastName]),
		Email:       strings.TrimSpace(f.Values[FieldEmail]),
		Phone:       strings.TrimSpace(f.Values[FieldPhone]),
		LoanAmount:  amount,
		LoanType:    f.Values[FieldLoanType],
		Installment: installment,
		EMI:         emi,
		Status:      f.Values[FieldStatus],
	}, nil
}
