package domain

import (
	"github.com/shopspring/decimal"
)

// Verdict summarizes whether the company is profitable in the current period.
type Verdict string

const (
	VerdictProfit  Verdict = "profit"
	VerdictLoss    Verdict = "loss"
	VerdictUnknown Verdict = "unknown"
)

// ResolutionTier records which tier of the field resolver produced the values.
type ResolutionTier string

const (
	TierKeyword ResolutionTier = "keyword"
	TierModel   ResolutionTier = "model"
	TierNone    ResolutionTier = "none"
)

// FinancialRecord is the per-period output of the extraction pipeline.
// Numeric fields are pointers because a value the document (or the model)
// does not provide stays absent; absence is a valid terminal state.
type FinancialRecord struct {
	Period          string           `json:"period"`
	Revenue         *decimal.Decimal `json:"revenue,omitempty"`
	OperatingProfit *decimal.Decimal `json:"operating_profit,omitempty"`
	NetProfit       *decimal.Decimal `json:"net_profit,omitempty"`
	Unit            string           `json:"unit,omitempty"`
	SourcePage      int              `json:"source_page"`
	Annual          bool             `json:"annual,omitempty"`
}

// Empty reports whether no financial value was resolved for the period.
func (r *FinancialRecord) Empty() bool {
	return r.Revenue == nil && r.OperatingProfit == nil && r.NetProfit == nil
}

// ExtractionResult is the resolved output for one uploaded document.
type ExtractionResult struct {
	CompanyName string            `json:"company_name"`
	Unit        string            `json:"unit"`
	Records     []FinancialRecord `json:"records"`
	PageCount   int               `json:"page_count"`
	OCRPages    int               `json:"ocr_pages"`
	Verdict     Verdict           `json:"verdict"`
	ResolvedBy  ResolutionTier    `json:"resolved_by"`
}

// CurrentRecord returns the first non-annual record, if any.
func (r *ExtractionResult) CurrentRecord() *FinancialRecord {
	for i := range r.Records {
		if !r.Records[i].Annual {
			return &r.Records[i]
		}
	}
	return nil
}

// AnnualRecord returns the first annual record, if any.
func (r *ExtractionResult) AnnualRecord() *FinancialRecord {
	for i := range r.Records {
		if r.Records[i].Annual {
			return &r.Records[i]
		}
	}
	return nil
}

// ComparisonSeries is chart-ready data for the current-vs-annual comparison.
// Absent values are reported as zero, matching how the charts treat them.
type ComparisonSeries struct {
	Metrics       []string  `json:"metrics"`
	Current       []float64 `json:"current"`
	Annual        []float64 `json:"annual"`
	CurrentPeriod string    `json:"current_period,omitempty"`
	AnnualPeriod  string    `json:"annual_period,omitempty"`
	Unit          string    `json:"unit,omitempty"`
}
