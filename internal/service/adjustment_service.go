package service

import (
	"context"
	"fmt"
	"log"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/model"
	"github.com/naijatax/backend/internal/taxengine"
)

// CreateTaxAdjustment raises a PENDING adjustment against a stored summary
// from newly supplied transactions or supporting documents.
func (s *TaxService) CreateTaxAdjustment(ctx context.Context, req *connect.Request[CreateTaxAdjustmentRequest]) (*connect.Response[CreateTaxAdjustmentResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SummaryID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("summaryId is required"))
	}
	summary, err := s.findSummary(ctx, claims, req.Msg.SummaryID, "")
	if err != nil {
		return nil, err
	}

	taxengine.CanonicalizeDeductionTypes(req.Msg.Transactions)
	adj, err := taxengine.ProcessRefund(summary, req.Msg.Transactions, req.Msg.SupportingDocuments, s.now().UTC())
	if err != nil {
		return nil, toConnectError("process tax refund", err)
	}
	delta, err := taxengine.ComputeAdjustmentDelta(summary, req.Msg.Transactions)
	if err != nil {
		return nil, toConnectError("compute adjustment", err)
	}

	adj.ID = uuid.New().String()
	if err := s.store.CreateTaxAdjustment(ctx, adj); err != nil {
		return nil, toConnectError("create tax adjustment", err)
	}
	log.Printf("[TaxService] adjustment %s (%s %s) raised against summary %s", adj.ID, adj.AdjustmentType, adj.Amount, summary.ID)

	return connect.NewResponse(&CreateTaxAdjustmentResponse{Adjustment: adj, Delta: delta}), nil
}

// ResolveTaxAdjustment moves a PENDING adjustment to APPROVED or REJECTED.
// Only reviewers may call it, and a reviewer cannot resolve their own.
func (s *TaxService) ResolveTaxAdjustment(ctx context.Context, req *connect.Request[ResolveTaxAdjustmentRequest]) (*connect.Response[ResolveTaxAdjustmentResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireReviewer(claims); err != nil {
		return nil, err
	}
	if req.Msg.AdjustmentID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("adjustmentId is required"))
	}

	adj, err := s.store.GetTaxAdjustment(ctx, req.Msg.AdjustmentID)
	if err != nil {
		return nil, toConnectError("get tax adjustment", err)
	}
	if adj.UserID == claims.UID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("cannot resolve your own tax adjustment"))
	}

	resolved, err := taxengine.Resolve(adj, req.Msg.Status, req.Msg.Note, s.now().UTC())
	if err != nil {
		return nil, toConnectError("resolve tax adjustment", err)
	}
	if err := s.store.UpdateTaxAdjustment(ctx, resolved); err != nil {
		return nil, toConnectError("update tax adjustment", err)
	}
	log.Printf("[TaxService] adjustment %s %s by reviewer %s", resolved.ID, resolved.Status, claims.UID)
	return connect.NewResponse(&ResolveTaxAdjustmentResponse{Adjustment: resolved}), nil
}

// ListTaxAdjustments lists the caller's adjustments, optionally for one
// summary.
func (s *TaxService) ListTaxAdjustments(ctx context.Context, req *connect.Request[ListTaxAdjustmentsRequest]) (*connect.Response[ListTaxAdjustmentsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.store.ListTaxAdjustments(ctx, claims.UID, req.Msg.SummaryID)
	if err != nil {
		return nil, toConnectError("list tax adjustments", err)
	}
	if adjustments == nil {
		adjustments = []*model.TaxAdjustment{}
	}
	return connect.NewResponse(&ListTaxAdjustmentsResponse{Adjustments: adjustments}), nil
}
