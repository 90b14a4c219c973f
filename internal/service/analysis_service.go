package service

import (
	"context"
	"time"

	"fin-statement-analyzer/internal/domain"

	"github.com/google/uuid"
)

// AnalysisService runs the extraction pipeline for one uploaded document:
// loader -> {text | OCR} -> merge -> field resolver -> session.
type AnalysisService struct {
	loader   domain.DocumentLoader
	resolver domain.FieldResolver
	store    domain.SessionStore
	logger   domain.Logger
}

// NewAnalysisService creates the pipeline orchestrator.
func NewAnalysisService(
	loader domain.DocumentLoader,
	resolver domain.FieldResolver,
	store domain.SessionStore,
	logger domain.Logger,
) *AnalysisService {
	return &AnalysisService{
		loader:   loader,
		resolver: resolver,
		store:    store,
		logger:   logger,
	}
}

// Extract implements domain.ExtractionService. One synchronous pass, no
// retries; errors from the loader or resolver abort the pipeline.
func (s *AnalysisService) Extract(ctx context.Context, filename string, pdfBytes []byte) (*domain.AnalysisSession, error) {
	doc, err := s.loader.Load(ctx, filename, pdfBytes)
	if err != nil {
		return nil, err
	}

	result, err := s.resolver.Resolve(ctx, doc)
	if err != nil {
		return nil, err
	}

	session := &domain.AnalysisSession{
		ID:        uuid.NewString(),
		Filename:  filename,
		Result:    result,
		FullText:  doc.MergedText(),
		CreatedAt: time.Now(),
	}
	s.store.Put(session)

	s.logger.Info("Document analyzed",
		"session_id", session.ID,
		"filename", filename,
		"pages", result.PageCount,
		"ocr_pages", result.OCRPages,
		"records", len(result.Records),
		"resolved_by", result.ResolvedBy,
	)

	return session, nil
}

// GetSession returns the analysis state for a session ID.
func (s *AnalysisService) GetSession(id string) (*domain.AnalysisSession, error) {
	return s.store.Get(id)
}

// Comparison builds chart-ready current-vs-annual series for a session.
// Absent values are reported as zero.
func (s *AnalysisService) Comparison(id string) (*domain.ComparisonSeries, error) {
	session, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	series := &domain.ComparisonSeries{
		Metrics: []string{"Revenue", "Operating Profit", "Net Profit"},
		Current: make([]float64, 3),
		Annual:  make([]float64, 3),
		Unit:    session.Result.Unit,
	}

	if cur := session.Result.CurrentRecord(); cur != nil {
		series.CurrentPeriod = cur.Period
		series.Current = metricValues(cur)
	}
	if ann := session.Result.AnnualRecord(); ann != nil {
		series.AnnualPeriod = ann.Period
		series.Annual = metricValues(ann)
	}

	return series, nil
}

func metricValues(rec *domain.FinancialRecord) []float64 {
	values := make([]float64, 3)
	if rec.Revenue != nil {
		values[0], _ = rec.Revenue.Float64()
	}
	if rec.OperatingProfit != nil {
		values[1], _ = rec.OperatingProfit.Float64()
	}
	if rec.NetProfit != nil {
		values[2], _ = rec.NetProfit.Float64()
	}
	return values
}
