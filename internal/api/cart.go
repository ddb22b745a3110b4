package api

import (
	"context"
	"net/http"
	"strconv"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// DiscountKind selects how the server interprets a discount magnitude.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "PERCENTAGE"
	DiscountFixed      DiscountKind = "FIXED"
)

type DiscountRequest struct {
	Type  DiscountKind `json:"type"`
	Value float64      `json:"value"`
}

// Show returns the cart as the server stores it: a flat list with one
// Product entry per unit, no quantity field.
func (cc *CartClient) Show(ctx context.Context, cartID string) ([]Product, error) {
	var out []Product
	if err := cc.c.do(ctx, http.MethodGet, "/api/cart/showCart/"+cartID, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (cc *CartClient) Add(ctx context.Context, cartID string, productID int64) error {
	return cc.c.do(ctx, http.MethodPost, "/api/cart/addToCart/"+cartID+"/"+strconv.FormatInt(productID, 10), "", nil, nil)
}

func (cc *CartClient) Remove(ctx context.Context, cartID string, productID int64) error {
	return cc.c.do(ctx, http.MethodDelete, "/api/cart/removeFromCart/"+cartID+"/"+strconv.FormatInt(productID, 10), "", nil, nil)
}

func (cc *CartClient) Clear(ctx context.Context, cartID string) error {
	return cc.c.do(ctx, http.MethodDelete, "/api/cart/clearCart/"+cartID, "", nil, nil)
}

func (cc *CartClient) Calculate(ctx context.Context, cartID string) (*PriceSummary, error) {
	var out PriceSummary
	if err := cc.c.do(ctx, http.MethodGet, "/api/cart/calculate/"+cartID, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (cc *CartClient) ApplyDiscount(ctx context.Context, cartID string, req DiscountRequest) (*PriceSummary, error) {
	var out PriceSummary
	if err := cc.c.do(ctx, http.MethodPost, "/api/cart/applyDiscount/"+cartID, "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
