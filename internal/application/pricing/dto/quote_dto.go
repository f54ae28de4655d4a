package dto

import "github.com/shopspring/decimal"

// QuoteItem is one product cost to price
type QuoteItem struct {
	ProductID string
	Cost      decimal.Decimal
}

// QuoteRequest prices a batch of product costs with the tenant's published ladder
type QuoteRequest struct {
	Items    []QuoteItem
	Currency string
}

// QuoteItemResponse is the price of one product cost. Error is set when the cost could not be priced.
type QuoteItemResponse struct {
	ProductID       string   `json:"product_id,omitempty"`
	Cost            string   `json:"cost"`
	Price           string   `json:"price,omitempty"`
	ComparedAtPrice *string  `json:"compared_at_price,omitempty"`
	Markup          string   `json:"markup,omitempty"`
	AppliedRules    []string `json:"applied_rules,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// QuoteResponse is the result of a quote request
type QuoteResponse struct {
	Strategy string              `json:"strategy"`
	Currency string              `json:"currency"`
	Items    []QuoteItemResponse `json:"items"`
}
