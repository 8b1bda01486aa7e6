package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/repository"
)

const emiCacheTTL = 24 * time.Hour

// roundTo2Decimals rounds to cents.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// LoanService suggests an EMI for the loan terms typed into the form.
type LoanService struct {
	cache repository.CacheRepository
	log   *logrus.Logger
}

func NewLoanService(cache repository.CacheRepository, log *logrus.Logger) *LoanService {
	return &LoanService{cache: cache, log: log}
}

// CalculateLoan returns the amortised monthly payment for the input terms.
func (s *LoanService) CalculateLoan(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {

	if input.Amount < MinLoanAmount || input.Amount > MaxLoanAmount {
		return domain.LoanResult{}, fmt.Errorf("amount must be between %.0f and %.0f", MinLoanAmount, MaxLoanAmount)
	}
	if input.InterestRate < 0 {
		return domain.LoanResult{}, errors.New("interest rate cannot be negative")
	}
	if input.InterestRate > MaxInterestRate {
		return domain.LoanResult{}, fmt.Errorf("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	if input.TermMonths < MinInstallments || input.TermMonths > MaxInstallments {
		return domain.LoanResult{}, fmt.Errorf("term must be between %d and %d months", MinInstallments, MaxInstallments)
	}

	key := fmt.Sprintf("emi:%.2f:%.4f:%d", input.Amount, input.InterestRate, input.TermMonths)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.LoanResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return result, nil
		}
	}

	var payment float64

	if input.InterestRate == 0 {
		payment = input.Amount / float64(input.TermMonths)
	} else {
		monthlyRate := (input.InterestRate / 100) / 12
		n := float64(input.TermMonths)

		payment = input.Amount * (monthlyRate /
			(1 - math.Pow(1+monthlyRate, -n)))
	}

	total := payment * float64(input.TermMonths)
	interest := total - input.Amount

	result := domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(interest),
	}

	// Caching is best effort.
	if data, err := json.Marshal(result); err == nil {
		if err := s.cache.Set(ctx, key, string(data), emiCacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache emi calculation")
		}
	}

	return result, nil
}
