package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"fin-statement-analyzer/internal/domain"
	apperrors "fin-statement-analyzer/pkg/errors"

	"github.com/shopspring/decimal"
)

var reAmount = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// Resolver turns merged document text into per-period financial records.
// Tier one scans statement rows against the term dictionaries; when that
// finds no current-period value the model tier asks the generative API to
// read the text instead.
type Resolver struct {
	model  domain.ModelClient // nil disables the model tier
	logger domain.Logger
}

// NewResolver creates a field resolver.
func NewResolver(model domain.ModelClient, logger domain.Logger) *Resolver {
	return &Resolver{model: model, logger: logger}
}

// Resolve implements domain.FieldResolver.
func (r *Resolver) Resolve(ctx context.Context, doc *domain.DocumentContent) (*domain.ExtractionResult, error) {
	result := &domain.ExtractionResult{
		PageCount:  doc.PageCount,
		OCRPages:   doc.OCRPageCount(),
		Verdict:    domain.VerdictUnknown,
		ResolvedBy: domain.TierNone,
	}

	text := doc.MergedText()
	if strings.TrimSpace(text) == "" {
		// zero pages or no recoverable text: zero records, not an error
		return result, nil
	}

	result.Unit = detectUnit(text)
	result.CompanyName = detectCompanyName(text)

	currentLabel, _ := quarterLabelsFromDates(text)

	records := r.scanKeywords(doc, currentLabel, annualYear(text))
	if hasValues(records) {
		result.ResolvedBy = domain.TierKeyword
		result.Records = records
	} else if r.model != nil {
		modelRecords, reply, err := r.resolveWithModel(ctx, text, currentLabel)
		if err != nil {
			return nil, err
		}
		result.Records = modelRecords
		if hasValues(modelRecords) {
			result.ResolvedBy = domain.TierModel
		}
		if reply != nil {
			if reply.CompanyName != "" {
				result.CompanyName = reply.CompanyName
			}
			if reply.Unit != "" {
				result.Unit = reply.Unit
			}
		}
	} else {
		result.Records = records
	}

	for i := range result.Records {
		if result.Records[i].Unit == "" {
			result.Records[i].Unit = result.Unit
		}
	}

	result.Verdict = verdictFor(result.CurrentRecord())
	return result, nil
}

// scanKeywords walks the document line by line. A period marker switches the
// record subsequent rows attach to; a metric label captures the first value
// to its right. When the statement has a "year ended" column, the last value
// on the row is treated as the annual figure.
func (r *Resolver) scanKeywords(doc *domain.DocumentContent, currentLabel, year string) []domain.FinancialRecord {
	hasAnnualColumn := strings.Contains(strings.ToLower(doc.MergedText()), "year ended")

	annualLabel := "Annual"
	if year != "" {
		annualLabel = "FY " + year
	}
	defaultLabel := currentLabel
	if defaultLabel == "" {
		defaultLabel = "Current Quarter"
	}

	builder := newRecordSet()
	period := ""

	for _, page := range doc.Pages {
		for _, line := range splitLines(page.Text) {
			if label, ok := periodMarker(line); ok {
				period = label
			}

			label := period
			if label == "" {
				label = defaultLabel
			}

			r.captureMetric(builder, revenueTerms, line, label, annualLabel, page.Number, hasAnnualColumn, setRevenue)
			r.captureMetric(builder, operatingProfitTerms, line, label, annualLabel, page.Number, hasAnnualColumn, setOperatingProfit)
			r.captureMetric(builder, netProfitTerms, line, label, annualLabel, page.Number, hasAnnualColumn, setNetProfit)
		}
	}

	return builder.records()
}

func (r *Resolver) captureMetric(
	set *recordSet,
	terms map[string]int,
	line, period, annualLabel string,
	page int,
	hasAnnualColumn bool,
	assign func(*domain.FinancialRecord, *decimal.Decimal),
) {
	fragment, ok := matchTerm(terms, line)
	if !ok {
		return
	}
	// period markers and dates to the right of the label would otherwise
	// parse as bogus amounts
	fragment = rePeriod.ReplaceAllString(fragment, "")
	fragment = reDate.ReplaceAllString(fragment, "")
	amounts := parseAmounts(fragment)
	if len(amounts) == 0 {
		return
	}

	assign(set.get(period, page, false), &amounts[0])
	if hasAnnualColumn && len(amounts) > 1 {
		last := amounts[len(amounts)-1]
		assign(set.get(annualLabel, page, true), &last)
	}
}

func setRevenue(rec *domain.FinancialRecord, v *decimal.Decimal) {
	if rec.Revenue == nil {
		rec.Revenue = v
	}
}

func setOperatingProfit(rec *domain.FinancialRecord, v *decimal.Decimal) {
	if rec.OperatingProfit == nil {
		rec.OperatingProfit = v
	}
}

func setNetProfit(rec *domain.FinancialRecord, v *decimal.Decimal) {
	if rec.NetProfit == nil {
		rec.NetProfit = v
	}
}

// parseAmounts extracts all decimal values from a statement row fragment.
func parseAmounts(s string) []decimal.Decimal {
	var amounts []decimal.Decimal
	for _, m := range reAmount.FindAllString(s, -1) {
		m = strings.ReplaceAll(m, ",", "")
		if d, err := decimal.NewFromString(m); err == nil {
			amounts = append(amounts, d)
		}
	}
	return amounts
}

func hasValues(records []domain.FinancialRecord) bool {
	for i := range records {
		if !records[i].Empty() {
			return true
		}
	}
	return false
}

func verdictFor(rec *domain.FinancialRecord) domain.Verdict {
	if rec == nil || rec.NetProfit == nil {
		return domain.VerdictUnknown
	}
	if rec.NetProfit.Sign() < 0 {
		return domain.VerdictLoss
	}
	return domain.VerdictProfit
}

// recordSet keeps insertion order while records accumulate per period.
type recordSet struct {
	order []string
	byKey map[string]*domain.FinancialRecord
}

func newRecordSet() *recordSet {
	return &recordSet{byKey: make(map[string]*domain.FinancialRecord)}
}

func (s *recordSet) get(period string, page int, annual bool) *domain.FinancialRecord {
	key := period
	if annual {
		key = "annual:" + period
	}
	if rec, ok := s.byKey[key]; ok {
		return rec
	}
	rec := &domain.FinancialRecord{Period: period, SourcePage: page, Annual: annual}
	s.byKey[key] = rec
	s.order = append(s.order, key)
	return rec
}

func (s *recordSet) records() []domain.FinancialRecord {
	out := make([]domain.FinancialRecord, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.byKey[key])
	}
	return out
}

// --- model tier ---

const modelPromptHeader = `You are a financial statement reader. Identify the latest quarter's financial data and the annual ("year ended") data in the text below and extract:
1. Revenue
2. Operating Profit
3. Net Profit
4. Financial unit (Crores, Lakhs, Millions, Billions)
5. Company name
Look for a "Statement of" heading; the financial unit is usually mentioned above the table.
Return ONLY JSON in exactly this shape, no code fences, no commentary:
{
  "company_name": "Detected company name",
  "unit": "Detected financial unit",
  "current_quarter": {"period": "Q1 FY24", "revenue": 0, "operating_profit": 0, "net_profit": 0},
  "annual": {"year": "2024", "revenue": 0, "operating_profit": 0, "net_profit": 0}
}
Omit any value the text does not contain.

Text to analyze:
`

type modelPeriod struct {
	Period          string `json:"period"`
	Year            string `json:"year"`
	Revenue         any    `json:"revenue"`
	OperatingProfit any    `json:"operating_profit"`
	NetProfit       any    `json:"net_profit"`
}

type modelReply struct {
	CompanyName    string       `json:"company_name"`
	Unit           string       `json:"unit"`
	CurrentQuarter *modelPeriod `json:"current_quarter"`
	Annual         *modelPeriod `json:"annual"`
}

// resolveWithModel asks the generative API to read the statement. An API
// failure is surfaced to the caller; an unparseable reply degrades to a
// record with all fields absent.
func (r *Resolver) resolveWithModel(ctx context.Context, text, currentLabel string) ([]domain.FinancialRecord, *modelReply, error) {
	out, err := r.model.GenerateText(ctx, modelPromptHeader+text)
	if err != nil {
		return nil, nil, apperrors.NewUpstreamError("financial model request failed", err)
	}

	fallbackLabel := currentLabel
	if fallbackLabel == "" {
		fallbackLabel = "Current Quarter"
	}

	reply, ok := parseModelReply(out)
	if !ok {
		r.logger.Warn("Model reply could not be parsed; leaving fields absent", "reply_bytes", len(out))
		return []domain.FinancialRecord{{Period: fallbackLabel}}, nil, nil
	}

	var records []domain.FinancialRecord
	if p := reply.CurrentQuarter; p != nil {
		label := strings.TrimSpace(p.Period)
		if label == "" {
			label = fallbackLabel
		}
		records = append(records, domain.FinancialRecord{
			Period:          label,
			Revenue:         coerceDecimal(p.Revenue),
			OperatingProfit: coerceDecimal(p.OperatingProfit),
			NetProfit:       coerceDecimal(p.NetProfit),
		})
	}
	if p := reply.Annual; p != nil {
		label := "Annual"
		if y := strings.TrimSpace(p.Year); y != "" {
			label = "FY " + y
		}
		records = append(records, domain.FinancialRecord{
			Period:          label,
			Revenue:         coerceDecimal(p.Revenue),
			OperatingProfit: coerceDecimal(p.OperatingProfit),
			NetProfit:       coerceDecimal(p.NetProfit),
			Annual:          true,
		})
	}
	if len(records) == 0 {
		records = append(records, domain.FinancialRecord{Period: fallbackLabel})
	}

	return records, reply, nil
}

// parseModelReply unmarshals the reply, tolerating code fences and leading
// or trailing prose around the JSON object.
func parseModelReply(out string) (*modelReply, bool) {
	js := stripCodeFences(out)
	var reply modelReply
	if err := json.Unmarshal([]byte(js), &reply); err != nil {
		js = firstJSONObject(js)
		if js == "" {
			return nil, false
		}
		if err := json.Unmarshal([]byte(js), &reply); err != nil {
			return nil, false
		}
	}
	if reply.CurrentQuarter == nil && reply.Annual == nil {
		return nil, false
	}
	return &reply, true
}

// coerceDecimal accepts the number forms models actually emit: JSON numbers,
// numeric strings (possibly with thousands separators), or nothing.
func coerceDecimal(v any) *decimal.Decimal {
	switch n := v.(type) {
	case float64:
		d := decimal.NewFromFloat(n)
		return &d
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return nil
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return &d
		}
	case json.Number:
		if d, err := decimal.NewFromString(n.String()); err == nil {
			return &d
		}
	}
	return nil
}

// stripCodeFences removes a surrounding ```json ... ``` block if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// firstJSONObject returns the first balanced {...} in s, or "".
func firstJSONObject(s string) string {
	start := -1
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
