package domain

// LoanInput carries the terms used to suggest an EMI for an application.
type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"annualRate"`
	TermMonths   int     `json:"months"`
}

type LoanResult struct {
	MonthlyPayment float64 `json:"emi"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
}
