package model

import "time"

// TaxBracket is one band of the progressive table. Max is zero for the
// open-ended top band.
type TaxBracket struct {
	Min         Kobo   `json:"min" firestore:"min"`
	Max         Kobo   `json:"max" firestore:"max"`
	RateBps     int64  `json:"rateBps" firestore:"rateBps"`
	Description string `json:"description" firestore:"description"`
}

// Unbounded reports whether the band has no ceiling.
func (b TaxBracket) Unbounded() bool { return b.Max == 0 && b.Min > 0 }

// Width is the size of the band, or -1 when unbounded.
func (b TaxBracket) Width() Kobo {
	if b.Unbounded() {
		return -1
	}
	return b.Max - b.Min
}

// BracketInfo is the per-band slice of a taxable income.
type BracketInfo struct {
	TaxBracket
	AmountInBracket Kobo `json:"amountInBracket" firestore:"amountInBracket"`
	TaxInBracket    Kobo `json:"taxInBracket" firestore:"taxInBracket"`
	Applicable      bool `json:"applicable" firestore:"applicable"`
}

// RentReliefDetail explains how a rent relief figure was reached.
type RentReliefDetail struct {
	TotalRentPaid Kobo `json:"totalRentPaid" firestore:"totalRentPaid"`
	TwentyPercent Kobo `json:"twentyPercent" firestore:"twentyPercent"`
	Cap           Kobo `json:"cap" firestore:"cap"`
	FinalRelief   Kobo `json:"finalRelief" firestore:"finalRelief"`
}

// TaxSummary is an immutable snapshot computed from a transaction set.
type TaxSummary struct {
	ID                              string                 `json:"id" firestore:"id"`
	UserID                          string                 `json:"userId" firestore:"userId"`
	Period                          string                 `json:"period" firestore:"period"`
	TotalIncome                     Kobo                   `json:"totalIncome" firestore:"totalIncome"`
	TotalExpenses                   Kobo                   `json:"totalExpenses" firestore:"totalExpenses"`
	DeductibleExpenses              Kobo                   `json:"deductibleExpenses" firestore:"deductibleExpenses"`
	RentRelief                      Kobo                   `json:"rentRelief" firestore:"rentRelief"`
	RentReliefDetail                RentReliefDetail       `json:"rentReliefDetail" firestore:"rentReliefDetail"`
	TaxableIncome                   Kobo                   `json:"taxableIncome" firestore:"taxableIncome"`
	EstimatedTax                    Kobo                   `json:"estimatedTax" firestore:"estimatedTax"`
	AIVerifiedDeductions            Kobo                   `json:"aiVerifiedDeductions" firestore:"aiVerifiedDeductions"`
	DocumentationVerifiedDeductions Kobo                   `json:"documentationVerifiedDeductions" firestore:"documentationVerifiedDeductions"`
	PendingVerificationDeductions   Kobo                   `json:"pendingVerificationDeductions" firestore:"pendingVerificationDeductions"`
	DeductionBreakdown              map[DeductionType]Kobo `json:"deductionBreakdown" firestore:"deductionBreakdown"`
	Brackets                        []BracketInfo          `json:"brackets" firestore:"brackets"`
	TransactionCount                int                    `json:"transactionCount" firestore:"transactionCount"`
	CreatedAt                       time.Time              `json:"createdAt" firestore:"createdAt"`
}

// DashboardSummary is the headline view of a user's period.
type DashboardSummary struct {
	TotalIncome   Kobo `json:"totalIncome"`
	TotalExpenses Kobo `json:"totalExpenses"`
	EstimatedTax  Kobo `json:"estimatedTax"`
	NetIncome     Kobo `json:"netIncome"`
}

// AdjustmentType classifies a retroactive correction.
type AdjustmentType string

const (
	AdjustmentRefund          AdjustmentType = "REFUND"
	AdjustmentAdditionalTax   AdjustmentType = "ADDITIONAL_TAX"
	AdjustmentDeductionUpdate AdjustmentType = "DEDUCTION_UPDATE"
)

// AdjustmentStatus is the review state of an adjustment.
type AdjustmentStatus string

const (
	AdjustmentPending  AdjustmentStatus = "PENDING"
	AdjustmentApproved AdjustmentStatus = "APPROVED"
	AdjustmentRejected AdjustmentStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed.
func (s AdjustmentStatus) Terminal() bool {
	return s == AdjustmentApproved || s == AdjustmentRejected
}

// TaxAdjustment is a retroactive correction against a stored summary.
type TaxAdjustment struct {
	ID                   string           `json:"id" firestore:"id"`
	UserID               string           `json:"userId" firestore:"userId"`
	OriginalTaxSummaryID string           `json:"originalTaxSummaryId" firestore:"originalTaxSummaryId"`
	AdjustmentType       AdjustmentType   `json:"adjustmentType" firestore:"adjustmentType"`
	Amount               Kobo             `json:"amount" firestore:"amount"`
	Reason               string           `json:"reason" firestore:"reason"`
	SupportingDocuments  []string         `json:"supportingDocuments" firestore:"supportingDocuments"`
	Status               AdjustmentStatus `json:"status" firestore:"status"`
	ReviewerNote         string           `json:"reviewerNote,omitempty" firestore:"reviewerNote"`
	CreatedAt            time.Time        `json:"createdAt" firestore:"createdAt"`
	ProcessedAt          *time.Time       `json:"processedAt,omitempty" firestore:"processedAt"`
}

// UploadStatus tracks a statement upload through ingestion.
type UploadStatus string

const (
	UploadProcessing UploadStatus = "processing"
	UploadCompleted  UploadStatus = "completed"
	UploadFailed     UploadStatus = "failed"
)

// Upload is the record of an uploaded statement file.
type Upload struct {
	ID               string       `json:"id" firestore:"id"`
	UserID           string       `json:"userId" firestore:"userId"`
	FileName         string       `json:"fileName" firestore:"fileName"`
	ObjectPath       string       `json:"objectPath" firestore:"objectPath"`
	ContentType      string       `json:"contentType" firestore:"contentType"`
	Status           UploadStatus `json:"status" firestore:"status"`
	TransactionCount int          `json:"transactionCount" firestore:"transactionCount"`
	Error            string       `json:"error,omitempty" firestore:"error"`
	UploadedAt       time.Time    `json:"uploadedAt" firestore:"uploadedAt"`
	CompletedAt      *time.Time   `json:"completedAt,omitempty" firestore:"completedAt"`
}
