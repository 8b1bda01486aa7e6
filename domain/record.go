package domain

import "strconv"

// Loan types offered by the application form.
const (
	LoanTypeHome      = "home"
	LoanTypeCar       = "car"
	LoanTypeBusiness  = "business"
	LoanTypePersonal  = "personal"
	LoanTypeEducation = "education"
)

// Loan statuses shown in the records table.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Option is a value/label pair rendered as a select option.
type Option struct {
	Value string
	Label string
}

var LoanTypeOptions = []Option{
	{LoanTypeHome, "Home Purchase"},
	{LoanTypeCar, "Car Purchase"},
	{LoanTypeBusiness, "Business"},
	{LoanTypePersonal, "Personal"},
	{LoanTypeEducation, "Education"},
}

var StatusOptions = []Option{
	{StatusApproved, "Approved"},
	{StatusPending, "Pending"},
	{StatusRejected, "Rejected"},
}

// Record is a single loan application as listed in the records table.
type Record struct {
	ID          string  `json:"id" yaml:"id" validate:"required,startswith=LN-"`
	FirstName   string  `json:"firstName" yaml:"firstName" validate:"required"`
	LastName    string  `json:"lastName" yaml:"lastName" validate:"required"`
	Email       string  `json:"email" yaml:"email" validate:"required,email"`
	Phone       string  `json:"phone" yaml:"phone" validate:"required"`
	LoanAmount  float64 `json:"loanAmount" yaml:"loanAmount" validate:"gt=0"`
	LoanType    string  `json:"loanType" yaml:"loanType" validate:"oneof=home car business personal education"`
	Installment int     `json:"installment" yaml:"installment" validate:"gte=1"`
	EMI         float64 `json:"emi" yaml:"emi" validate:"gt=0"`
	Status      string  `json:"status" yaml:"status" validate:"oneof=approved pending rejected"`
}

// FullName joins first and last name the way the table shows it.
func (r Record) FullName() string {
	return r.FirstName + " " + r.LastName
}

// Values flattens the record into raw form values.
func (r Record) Values() map[string]string {
	return map[string]string{
		FieldFirstName:   r.FirstName,
		FieldLastName:    r.LastName,
		FieldEmail:       r.Email,
		FieldPhone:       r.Phone,
		FieldLoanAmount:  strconv.FormatFloat(r.LoanAmount, 'f', -1, 64),
		FieldLoanType:    r.LoanType,
		FieldInstallment: strconv.Itoa(r.Installment),
		FieldEMI:         strconv.FormatFloat(r.EMI, 'f', -1, 64),
		FieldStatus:      r.Status,
	}
}

// OptionLabel returns the label for value, or value itself when unknown.
func OptionLabel(options []Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}
