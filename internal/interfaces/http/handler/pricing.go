package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	pricingapp "github.com/dropship/backend/internal/application/pricing"
	"github.com/dropship/backend/internal/application/pricing/dto"
	"github.com/dropship/backend/internal/domain/pricing"
	httpdto "github.com/dropship/backend/internal/interfaces/http/dto"
	"github.com/dropship/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LadderService is the application service behind the pricing endpoints
type LadderService interface {
	GetLadder(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error)
	Validate(ctx context.Context, tenantID uuid.UUID) (*dto.ValidationResponse, error)
	SetBandStart(ctx context.Context, tenantID, bandID uuid.UUID, start decimal.Decimal) (*dto.LadderResponse, error)
	SetBandEnd(ctx context.Context, tenantID, bandID uuid.UUID, end *decimal.Decimal) (*dto.LadderResponse, error)
	SetFormula(ctx context.Context, tenantID, bandID uuid.UUID, kind pricingapp.FormulaKind, formula pricing.Formula) (*dto.LadderResponse, error)
	SetComparedPriceEnabled(ctx context.Context, tenantID, bandID uuid.UUID, enabled bool) (*dto.LadderResponse, error)
	ToggleComparedPriceForAll(ctx context.Context, tenantID uuid.UUID, enabled bool) (*dto.LadderResponse, error)
	DeleteBand(ctx context.Context, tenantID, bandID uuid.UUID) (*dto.LadderResponse, error)
	Save(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error)
	Discard(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error)
	Reset(ctx context.Context, tenantID uuid.UUID) (*dto.LadderResponse, error)
	Quote(ctx context.Context, tenantID uuid.UUID, req dto.QuoteRequest) (*dto.QuoteResponse, error)
}

// PricingHandler handles price ladder HTTP requests
type PricingHandler struct {
	BaseHandler
	service LadderService
	bounds  pricing.Stepper
	operand pricing.Stepper
}

// NewPricingHandler creates a new PricingHandler. Bounds sent by clients step by
// minGap; both bounds and operands are rounded to the precision of minGap.
func NewPricingHandler(service LadderService, minGap decimal.Decimal) *PricingHandler {
	bounds := pricing.NewGapStepper(minGap)
	return &PricingHandler{
		service: service,
		bounds:  bounds,
		operand: pricing.NewOperandStepper(bounds.Precision),
	}
}

// ============================================================================
// Request DTOs for HTTP layer
// ============================================================================

// BandValueRequest carries a bound as a JSON number or a display string such as "$1,200.50".
// For band ends, null clears the end.
type BandValueRequest struct {
	Value json.RawMessage `json:"value"`
}

// FormulaRequest sets the price or compared-at formula of a band
type FormulaRequest struct {
	Kind     string          `json:"kind" binding:"required,oneof=price compared"`
	Operator string          `json:"operator" binding:"required"`
	Operand  json.RawMessage `json:"operand" binding:"required"`
}

// ComparedPriceRequest sets a compared-at checkbox
type ComparedPriceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// QuoteItemRequest is one product cost to price
type QuoteItemRequest struct {
	ProductID string          `json:"product_id" binding:"max=100"`
	Cost      decimal.Decimal `json:"cost"`
}

// QuoteHTTPRequest prices a batch of product costs
type QuoteHTTPRequest struct {
	Currency string             `json:"currency" binding:"omitempty,len=3"`
	Items    []QuoteItemRequest `json:"items" binding:"required,min=1,max=500,dive"`
}

// GetLadder returns the tenant's ladder: the draft when there are unsaved edits, else the published one
func (h *PricingHandler) GetLadder(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.GetLadder(c.Request.Context(), tenantID))
}

// Validate returns the validation report of the current ladder
func (h *PricingHandler) Validate(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	report, err := h.service.Validate(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// SetBandStart sets the lower bound of a band
func (h *PricingHandler) SetBandStart(c *gin.Context) {
	tenantID, bandID, ok := h.tenantAndBand(c)
	if !ok {
		return
	}

	var req BandValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	start, isNull, err := h.parseValue(h.bounds, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if isNull {
		h.Error(c, http.StatusBadRequest, httpdto.ErrCodeValidation, "Range start is required")
		return
	}

	h.respond(c)(h.service.SetBandStart(c.Request.Context(), tenantID, bandID, start))
}

// SetBandEnd sets the upper bound of a band. A null value clears it, which only
// the last band accepts.
func (h *PricingHandler) SetBandEnd(c *gin.Context) {
	tenantID, bandID, ok := h.tenantAndBand(c)
	if !ok {
		return
	}

	var req BandValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	end, isNull, err := h.parseValue(h.bounds, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var endPtr *decimal.Decimal
	if !isNull {
		endPtr = lo.ToPtr(end)
	}
	h.respond(c)(h.service.SetBandEnd(c.Request.Context(), tenantID, bandID, endPtr))
}

// SetFormula sets the price or compared-at formula of a band
func (h *PricingHandler) SetFormula(c *gin.Context) {
	tenantID, bandID, ok := h.tenantAndBand(c)
	if !ok {
		return
	}

	var req FormulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	operator, err := pricing.ParseOperator(req.Operator)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	operand, isNull, err := h.parseValue(h.operand, req.Operand)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if isNull {
		h.Error(c, http.StatusBadRequest, httpdto.ErrCodeValidation, "Formula operand is required")
		return
	}
	formula, err := pricing.NewFormula(operator, operand)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.respond(c)(h.service.SetFormula(c.Request.Context(), tenantID, bandID, pricingapp.FormulaKind(req.Kind), formula))
}

// SetComparedPriceEnabled sets the compared-at checkbox of one band
func (h *PricingHandler) SetComparedPriceEnabled(c *gin.Context) {
	tenantID, bandID, ok := h.tenantAndBand(c)
	if !ok {
		return
	}

	var req ComparedPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	h.respond(c)(h.service.SetComparedPriceEnabled(c.Request.Context(), tenantID, bandID, *req.Enabled))
}

// ToggleComparedPriceForAll sets the compared-at checkbox of every unlocked band
func (h *PricingHandler) ToggleComparedPriceForAll(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req ComparedPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	h.respond(c)(h.service.ToggleComparedPriceForAll(c.Request.Context(), tenantID, *req.Enabled))
}

// DeleteBand deletes a band. Deleting Range 2 promotes the band after it.
func (h *PricingHandler) DeleteBand(c *gin.Context) {
	tenantID, bandID, ok := h.tenantAndBand(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.DeleteBand(c.Request.Context(), tenantID, bandID))
}

// Save publishes the draft
func (h *PricingHandler) Save(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.Save(c.Request.Context(), tenantID))
}

// Discard drops the draft
func (h *PricingHandler) Discard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.Discard(c.Request.Context(), tenantID))
}

// Reset replaces the draft with the default ladder
func (h *PricingHandler) Reset(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	h.respond(c)(h.service.Reset(c.Request.Context(), tenantID))
}

// Quote prices product costs with the published ladder
func (h *PricingHandler) Quote(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req QuoteHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.Quote(c.Request.Context(), tenantID, dto.QuoteRequest{
		Currency: req.Currency,
		Items: lo.Map(req.Items, func(item QuoteItemRequest, _ int) dto.QuoteItem {
			return dto.QuoteItem{ProductID: item.ProductID, Cost: item.Cost}
		}),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *PricingHandler) respond(c *gin.Context) func(*dto.LadderResponse, error) {
	return func(ladder *dto.LadderResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, ladder)
	}
}

func (h *PricingHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return tenantID, true
}

func (h *PricingHandler) tenantAndBand(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	var uri httpdto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, uuid.MustParse(uri.ID), true
}

// parseValue reads a JSON number or string through the stepper. A missing value or null reports isNull.
func (h *PricingHandler) parseValue(s pricing.Stepper, raw json.RawMessage) (value decimal.Decimal, isNull bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, true, nil
	}

	var input any = string(raw)
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, false, pricing.ErrInvalidNumber
		}
		input = text
	}

	value, err = s.Parse(input)
	return value, false, err
}
