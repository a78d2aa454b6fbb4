package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/naijatax/backend/internal/auth"
	"github.com/naijatax/backend/internal/model"
)

// ExportTaxSummary exports a stored summary as CSV or JSON.
func (s *TaxService) ExportTaxSummary(ctx context.Context, req *connect.Request[ExportTaxSummaryRequest]) (*connect.Response[ExportTaxSummaryResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.findSummary(ctx, claims, req.Msg.SummaryID, req.Msg.Period)
	if err != nil {
		return nil, err
	}

	var data []byte
	var contentType, filename string

	switch strings.ToLower(req.Msg.Format) {
	case "json":
		data, err = json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("marshal JSON: %w", err))
		}
		contentType = "application/json"
		filename = fmt.Sprintf("tax-summary-%s.json", summary.Period)

	case "", "csv":
		data = summaryCSV(summary)
		contentType = "text/csv"
		filename = fmt.Sprintf("tax-summary-%s.csv", summary.Period)

	default:
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unsupported export format %q", req.Msg.Format))
	}

	return connect.NewResponse(&ExportTaxSummaryResponse{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
	}), nil
}

func summaryCSV(summary *model.TaxSummary) []byte {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	row := func(field string, k model.Kobo) {
		_ = w.Write([]string{field, k.String(), fmt.Sprintf("%d", k)})
	}

	_ = w.Write([]string{"Field", "Amount (NGN)", "Amount (kobo)"})
	_ = w.Write([]string{"Period", summary.Period, ""})
	row("Total Income", summary.TotalIncome)
	row("Total Expenses", summary.TotalExpenses)
	for _, dt := range model.DeductionTypes {
		if amount, ok := summary.DeductionBreakdown[dt]; ok {
			row(fmt.Sprintf("Deduction: %s", dt), amount)
		}
	}
	row("Deductible Expenses", summary.DeductibleExpenses)
	row("Rent Paid", summary.RentReliefDetail.TotalRentPaid)
	row("Rent Relief", summary.RentRelief)
	row("Taxable Income", summary.TaxableIncome)
	for _, b := range summary.Brackets {
		if b.Applicable {
			row(fmt.Sprintf("Tax: %s", b.Description), b.TaxInBracket)
		}
	}
	row("Estimated Tax", summary.EstimatedTax)
	row("AI Verified Deductions", summary.AIVerifiedDeductions)
	row("Documented Deductions", summary.DocumentationVerifiedDeductions)
	row("Pending Verification", summary.PendingVerificationDeductions)
	_ = w.Write([]string{"Transactions", fmt.Sprintf("%d", summary.TransactionCount), ""})
	w.Flush()
	return []byte(buf.String())
}
