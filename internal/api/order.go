package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

func (o *OrderClient) Save(ctx context.Context, order Order) (*Order, error) {
	var out Order
	if err := o.c.do(ctx, http.MethodPost, "/api/order/save", "", order, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *OrderClient) FindByID(ctx context.Context, id int64) (*Order, error) {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	var out Order
	if err := o.c.do(ctx, http.MethodGet, "/api/order/findById", q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (o *OrderClient) FindAll(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := o.c.do(ctx, http.MethodGet, "/api/order/findAll", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
