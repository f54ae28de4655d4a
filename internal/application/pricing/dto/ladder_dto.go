package dto

import (
	"fmt"
	"time"

	"github.com/dropship/backend/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// FormulaResponse is a pricing formula in API responses
type FormulaResponse struct {
	Operator string `json:"operator"`
	Operand  string `json:"operand"`
	Display  string `json:"display"`
}

// BandResponse is one price band with its derived UI state
type BandResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Position             int             `json:"position"`
	Label                string          `json:"label"`
	RangeStart           string          `json:"range_start"`
	RangeEnd             *string         `json:"range_end"`
	IsOpen               bool            `json:"is_open"`
	PriceFormula         FormulaResponse `json:"price_formula"`
	ComparedPriceFormula FormulaResponse `json:"compared_price_formula"`
	ComparedPriceEnabled bool            `json:"compared_price_enabled"`
	ComparedPriceLocked  bool            `json:"compared_price_locked"`
	Deletable            bool            `json:"deletable"`
	HasError             bool            `json:"has_error"`
}

// OrderErrorResponse reports a band whose start is not below its end
type OrderErrorResponse struct {
	BandID   uuid.UUID `json:"band_id"`
	Position int       `json:"position"`
	Message  string    `json:"message"`
}

// OverlapErrorResponse reports two adjacent bands whose ranges touch or overlap
type OverlapErrorResponse struct {
	EarlierID       uuid.UUID `json:"earlier_id"`
	LaterID         uuid.UUID `json:"later_id"`
	EarlierPosition int       `json:"earlier_position"`
	Message         string    `json:"message"`
}

// ValidationResponse mirrors the ladder's validation report
type ValidationResponse struct {
	Valid             bool                   `json:"valid"`
	Range1Error       bool                   `json:"range1_error"`
	Range2Error       bool                   `json:"range2_error"`
	RangeOverlapError bool                   `json:"range_overlap_error"`
	DynamicRowError   bool                   `json:"dynamic_row_error"`
	TerminalMissing   bool                   `json:"terminal_missing"`
	OrderErrors       []OrderErrorResponse   `json:"order_errors"`
	OverlapErrors     []OverlapErrorResponse `json:"overlap_errors"`
}

// LadderResponse is the full state of a tenant's pricing settings
type LadderResponse struct {
	ID                uuid.UUID          `json:"id"`
	Stage             string             `json:"stage"`
	HasUnsavedChanges bool               `json:"has_unsaved_changes"`
	Currency          string             `json:"currency"`
	MinGap            string             `json:"min_gap"`
	Precision         int32              `json:"precision"`
	Version           int                `json:"version"`
	Bands             []BandResponse     `json:"bands"`
	Validation        ValidationResponse `json:"validation"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ToLadderResponse converts a domain ladder to its API representation
func ToLadderResponse(l *pricing.PriceLadder) *LadderResponse {
	report := l.Validate()
	stepper := pricing.NewBoundStepper(l)

	bands := lo.Map(l.Bands(), func(b pricing.PriceBand, i int) BandResponse {
		resp := BandResponse{
			ID:                   b.ID,
			Position:             i,
			Label:                BandLabel(i),
			RangeStart:           stepper.Format(b.RangeStart),
			IsOpen:               b.IsOpen(),
			PriceFormula:         toFormulaResponse(b.PriceFormula),
			ComparedPriceFormula: toFormulaResponse(b.ComparedPriceFormula),
			ComparedPriceEnabled: l.ComparedPriceActive(b.ID),
			ComparedPriceLocked:  l.IsComparedPriceLocked(b.ID),
			Deletable:            l.IsDeletable(b.ID),
			HasError:             report.BandHasError(b.ID),
		}
		if b.IsClosed() {
			resp.RangeEnd = lo.ToPtr(stepper.Format(*b.RangeEnd))
		}
		return resp
	})

	return &LadderResponse{
		ID:                l.ID,
		Stage:             string(l.Stage),
		HasUnsavedChanges: l.Stage == pricing.StageDraft,
		Currency:          l.Currency,
		MinGap:            l.MinGap.String(),
		Precision:         l.Precision(),
		Version:           l.Version,
		Bands:             bands,
		Validation:        ToValidationResponse(report),
		UpdatedAt:         l.UpdatedAt,
	}
}

// ToValidationResponse converts a validation report
func ToValidationResponse(r pricing.ValidationReport) ValidationResponse {
	return ValidationResponse{
		Valid:             r.Valid(),
		Range1Error:       r.Range1Error,
		Range2Error:       r.Range2Error,
		RangeOverlapError: r.RangeOverlapError,
		DynamicRowError:   r.DynamicRowError,
		TerminalMissing:   r.TerminalMissing,
		OrderErrors: lo.Map(r.OrderErrors, func(e *pricing.RangeOrderError, _ int) OrderErrorResponse {
			return OrderErrorResponse{BandID: e.BandID, Position: e.Position, Message: e.Error()}
		}),
		OverlapErrors: lo.Map(r.OverlapErrors, func(e *pricing.RangeOverlapError, _ int) OverlapErrorResponse {
			return OverlapErrorResponse{
				EarlierID:       e.EarlierID,
				LaterID:         e.LaterID,
				EarlierPosition: e.EarlierPosition,
				Message:         e.Error(),
			}
		}),
	}
}

// BandLabel returns the display name of the band at a position, e.g. "Range 1"
func BandLabel(position int) string {
	return fmt.Sprintf("Range %d", position+1)
}

func toFormulaResponse(f pricing.Formula) FormulaResponse {
	return FormulaResponse{
		Operator: string(f.Operator),
		Operand:  f.Operand.String(),
		Display:  f.String(),
	}
}
