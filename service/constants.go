package service

const (
	MinLoanAmount   = 1_000.0
	MaxLoanAmount   = 1_000_000.0
	MinInstallments = 1
	MaxInstallments = 360 // 30 years
	MaxEMI          = 1_000_000.0
	MinNameLength   = 2
	MaxInterestRate = 100.0 // annual %, only for EMI suggestions
)
