package dto

import (
	"time"

	"github.com/SscSPs/general_ledger/internal/core/domain"
)

// DateLayout is the wire format of civil dates.
const DateLayout = "2006-01-02"

// CreateFiscalPeriodRequest defines the data needed to open a new fiscal period.
type CreateFiscalPeriodRequest struct {
	Label     string `json:"label" binding:"required"`
	Year      int    `json:"year" binding:"omitempty,min=1900,max=9999"` // Defaults to the start date's year
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
}

// FiscalPeriodResponse defines the data returned for a fiscal period.
type FiscalPeriodResponse struct {
	PeriodID      string              `json:"periodID"`
	Label         string              `json:"label"`
	Year          int                 `json:"year"`
	StartDate     string              `json:"startDate"`
	EndDate       string              `json:"endDate"`
	Status        domain.PeriodStatus `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy string              `json:"lastUpdatedBy"`
}

// ToFiscalPeriodResponse converts a domain.FiscalPeriod to its DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		PeriodID:      p.PeriodID,
		Label:         p.Label,
		Year:          p.Year,
		StartDate:     p.StartDate.Format(DateLayout),
		EndDate:       p.EndDate.Format(DateLayout),
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
}

// ListFiscalPeriodsResponse wraps the list of periods.
type ListFiscalPeriodsResponse struct {
	Periods []FiscalPeriodResponse `json:"periods"`
}

// ToListFiscalPeriodsResponse converts periods to their DTOs.
func ToListFiscalPeriodsResponse(periods []domain.FiscalPeriod) ListFiscalPeriodsResponse {
	res := make([]FiscalPeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToFiscalPeriodResponse(&periods[i])
	}
	return ListFiscalPeriodsResponse{Periods: res}
}

// ParseDate parses a civil date in DateLayout into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
