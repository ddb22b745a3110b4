package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ProductClient struct{ c *Client }

func NewProductClient(c *Client) *ProductClient { return &ProductClient{c: c} }

func (p *ProductClient) All(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := p.c.do(ctx, http.MethodGet, "/api/product/allProducts", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *ProductClient) ByID(ctx context.Context, id int64) (*Product, error) {
	var out Product
	if err := p.c.do(ctx, http.MethodGet, "/api/product/product/"+strconv.FormatInt(id, 10), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProductClient) Add(ctx context.Context, product Product) (*Product, error) {
	var out Product
	if err := p.c.do(ctx, http.MethodPost, "/api/product/addProduct", "", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProductClient) Update(ctx context.Context, product Product) (*Product, error) {
	var out Product
	if err := p.c.do(ctx, http.MethodPut, "/api/product/updateProduct", "", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProductClient) Delete(ctx context.Context, id int64) error {
	q := url.Values{"id": {strconv.FormatInt(id, 10)}}
	return p.c.do(ctx, http.MethodDelete, "/api/product/deleteProduct", q.Encode(), nil, nil)
}

func (p *ProductClient) CreateCustom(ctx context.Context, product Product) (*Product, error) {
	var out Product
	if err := p.c.do(ctx, http.MethodPost, "/api/product/createCustom", "", product, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
