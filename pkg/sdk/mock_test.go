package regalo

import (
	"context"

	domanalytics "github.com/kailas-cloud/regalo/internal/domain/analytics"
	domintent "github.com/kailas-cloud/regalo/internal/domain/intent"
	analyticsuc "github.com/kailas-cloud/regalo/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/regalo/internal/usecase/health"
	searchuc "github.com/kailas-cloud/regalo/internal/usecase/search"
)

// --- intentUseCase mock ---

type mockIntentUC struct {
	parseFn func(ctx context.Context, query string) (domintent.Intent, error)
}

func (m *mockIntentUC) Parse(ctx context.Context, query string) (domintent.Intent, error) {
	return m.parseFn(ctx, query)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req searchuc.Request) (searchuc.Response, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req searchuc.Request) (searchuc.Response, error) {
	return m.searchFn(ctx, req)
}

// --- clickUseCase mock ---

type mockClickUC struct {
	recordFn func(ctx context.Context, in analyticsuc.ClickInput) (domanalytics.LeadAttribution, error)
}

func (m *mockClickUC) RecordClick(
	ctx context.Context, in analyticsuc.ClickInput,
) (domanalytics.LeadAttribution, error) {
	return m.recordFn(ctx, in)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthUC) Check(ctx context.Context) healthuc.Report {
	return m.checkFn(ctx)
}

// newTestClient builds a Client around mocks, bypassing New.
func newTestClient() (*Client, *mockIntentUC, *mockSearchUC, *mockClickUC, *mockHealthUC) {
	intents := &mockIntentUC{}
	search := &mockSearchUC{}
	clicks := &mockClickUC{}
	health := &mockHealthUC{}
	return &Client{
		intentSvc: intents,
		searchSvc: search,
		clickSvc:  clicks,
		healthSvc: health,
	}, intents, search, clicks, health
}
