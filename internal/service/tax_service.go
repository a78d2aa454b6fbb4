package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/taxengine"
)

func parseRentPolicy(s string) (taxengine.RentPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keyword":
		return taxengine.RentPolicyKeyword, nil
	case "classifier":
		return taxengine.RentPolicyClassifier, nil
	default:
		return 0, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown rent policy %q", s))
	}
}

// CalculateTax computes and stores a tax summary for the caller's period.
func (s *TaxService) CalculateTax(ctx context.Context, req *connect.Request[CalculateTaxRequest]) (*connect.Response[CalculateTaxResponse], error) {
	claims, err := auth.RequireUserAccess(ctx, req.Msg.UserID)
	if err != nil {
		return nil, err
	}
	policy, err := parseRentPolicy(req.Msg.RentPolicy)
	if err != nil {
		return nil, err
	}
	period, start, end, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, err
	}

	txs, err := s.loadTransactions(ctx, claims.UID, start, end)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("no transactions found for period %s", period))
	}

	summary, err := taxengine.GenerateSummaryWith(claims.UID, period, txs, taxengine.Options{RentPolicy: policy})
	if err != nil {
		return nil, toConnectError("calculate tax", err)
	}
	summary.ID = uuid.New().String()
	summary.CreatedAt = s.now().UTC()

	if err := s.store.PutTaxSummary(ctx, summary); err != nil {
		return nil, toConnectError("save tax summary", err)
	}
	log.Printf("[TaxService] summary %s for user %s period %s: taxable=%s tax=%s", summary.ID, claims.UID, period, summary.TaxableIncome, summary.EstimatedTax)

	return connect.NewResponse(&CalculateTaxResponse{Summary: summary}), nil
}

// findSummary loads a summary by ID, or the latest for a period, and checks
// ownership.
func (s *TaxService) findSummary(ctx context.Context, claims *auth.UserClaims, summaryID, period string) (*model.TaxSummary, error) {
	if summaryID == "" && period == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("summaryId or period is required"))
	}

	var summary *model.TaxSummary
	var err error
	if summaryID != "" {
		summary, err = s.store.GetTaxSummary(ctx, summaryID)
	} else {
		summary, err = s.store.GetLatestTaxSummary(ctx, claims.UID, period)
	}
	if err != nil {
		return nil, toConnectError("get tax summary", err)
	}
	if err := auth.RequireOwner(claims, summary.UserID, "tax summary"); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetTaxSummary returns a stored summary.
func (s *TaxService) GetTaxSummary(ctx context.Context, req *connect.Request[GetTaxSummaryRequest]) (*connect.Response[GetTaxSummaryResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.findSummary(ctx, claims, req.Msg.SummaryID, req.Msg.Period)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetTaxSummaryResponse{Summary: summary}), nil
}

// ListTaxSummaries lists the caller's summaries, newest first.
func (s *TaxService) ListTaxSummaries(ctx context.Context, req *connect.Request[ListTaxSummariesRequest]) (*connect.Response[ListTaxSummariesResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	summaries, next, err := s.store.ListTaxSummaries(ctx, claims.UID, auth.NormalizePageSize(req.Msg.PageSize), req.Msg.PageToken)
	if err != nil {
		return nil, toConnectError("list tax summaries", err)
	}
	return connect.NewResponse(&ListTaxSummariesResponse{
		Summaries:     summaries,
		NextPageToken: next,
	}), nil
}

// GetBracketInfo returns the bracket table and, optionally, how an income
// falls across it. No caller identity is needed.
func (s *TaxService) GetBracketInfo(ctx context.Context, req *connect.Request[GetBracketInfoRequest]) (*connect.Response[GetBracketInfoResponse], error) {
	if req.Msg.TaxableIncome < 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("taxable income must not be negative"))
	}
	resp := &GetBracketInfoResponse{
		Brackets:      taxengine.Brackets2026,
		RentReliefCap: taxengine.RentReliefCap,
	}
	if req.Msg.TaxableIncome > 0 {
		resp.Breakdown = taxengine.BracketBreakdown(req.Msg.TaxableIncome)
		resp.EstimatedTax = taxengine.CalculateTax(req.Msg.TaxableIncome)
		resp.MarginalRateBps = taxengine.MarginalRate(req.Msg.TaxableIncome)
	}
	return connect.NewResponse(resp), nil
}

// GetDashboard returns headline figures for a period without storing
// anything.
func (s *TaxService) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	period, start, end, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadTransactions(ctx, claims.UID, start, end)
	if err != nil {
		return nil, err
	}
	dashboard, err := taxengine.Dashboard(txs)
	if err != nil {
		return nil, toConnectError("dashboard", err)
	}
	return connect.NewResponse(&GetDashboardResponse{Period: period, Dashboard: dashboard}), nil
}

// GetDeductionRecommendations suggests unclaimed deductions and lists claims
// that still need paperwork.
func (s *TaxService) GetDeductionRecommendations(ctx context.Context, req *connect.Request[GetDeductionRecommendationsRequest]) (*connect.Response[GetDeductionRecommendationsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	period, start, end, err := s.resolvePeriod(req.Msg.Period)
	if err != nil {
		return nil, err
	}
	txs, err := s.loadTransactions(ctx, claims.UID, start, end)
	if err != nil {
		return nil, err
	}
	rec, err := taxengine.Recommend(txs)
	if err != nil {
		return nil, toConnectError("recommend deductions", err)
	}
	return connect.NewResponse(&GetDeductionRecommendationsResponse{Period: period, Recommendations: rec}), nil
}
