package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// execute translates a validated plan into one HTTP request.
func (c *Client) execute(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	query := url.Values{}
	for _, f := range p.Filters {
		query.Add(f.Column, filterValue(f.Value))
	}

	var (
		method string
		body   any
		prefer []string
	)
	switch p.Action {
	case backend.ActionSelect:
		method = http.MethodGet
		if p.Head {
			method = http.MethodHead
		}
	case backend.ActionInsert:
		method, body = http.MethodPost, p.Rows
		prefer = append(prefer, "return=representation")
	case backend.ActionUpdate:
		method, body = http.MethodPatch, p.Patch
		prefer = append(prefer, "return=representation")
	case backend.ActionDelete:
		method = http.MethodDelete
		prefer = append(prefer, "return=representation")
	default:
		return nil, errors.NewInvalidArgument("action", "unsupported action", p.Action.String())
	}

	if cols := p.SelectColumns(); len(cols) > 0 {
		query.Set("select", strings.Join(cols, ","))
	} else if p.Action == backend.ActionSelect || len(prefer) > 0 {
		query.Set("select", "*")
	}
	if len(p.Orders) > 0 {
		terms := make([]string, 0, len(p.Orders))
		for _, o := range p.Orders {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			terms = append(terms, o.Column+"."+dir)
		}
		query.Set("order", strings.Join(terms, ","))
	}
	if p.Limit > 0 {
		query.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Count != backend.CountNone {
		prefer = append(prefer, "count="+string(p.Count))
	}

	req, err := c.newRequest(ctx, method, "/rest/v1/"+p.Table, query, body)
	if err != nil {
		return nil, err
	}
	if len(prefer) > 0 {
		req.Header.Set("Prefer", strings.Join(prefer, ","))
	}
	if p.HasRange {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", p.From, p.To))
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &backend.Response{Data: []backend.Record{}}
	if method != http.MethodHead {
		if err := decodeJSON(resp.Body, &out.Data); err != nil {
			return nil, err
		}
		if out.Data == nil {
			out.Data = []backend.Record{}
		}
	}
	if p.Count != backend.CountNone {
		out.Count = parseContentRangeTotal(resp.Header.Get("Content-Range"))
	}
	return out, nil
}

// filterValue renders an equality filter operand.
func filterValue(v any) string {
	if v == nil {
		return "is.null"
	}
	return "eq." + fmt.Sprint(v)
}

// parseContentRangeTotal reads the total from "0-19/45" or "*/45". An unknown
// total ("*") yields nil.
func parseContentRangeTotal(h string) *int64 {
	i := strings.LastIndexByte(h, '/')
	if i < 0 {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(h[i+1:]), 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
