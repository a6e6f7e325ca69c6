package backend

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// Row is one record of a list screen as the backend returns it.
type Row map[string]any

// ListResult is a decoded list response.
type ListResult struct {
	Rows  []Row
	Total int64
}

// listObject covers the paginated shapes the backend emits.
type listObject struct {
	Items     []Row  `json:"items"`
	Docs      []Row  `json:"docs"`
	Rows      []Row  `json:"rows"`
	Total     *int64 `json:"total"`
	TotalDocs *int64 `json:"totalDocs"`
	Count     *int64 `json:"count"`
}

// List fetches a list endpoint. The data field may be a bare array or an
// object carrying the rows and a total.
func (c *Client) List(ctx context.Context, path, token string, query url.Values) (*ListResult, error) {
	var raw json.RawMessage
	err := c.Do(ctx, Request{Method: fiber.MethodGet, Path: path, Token: token, Query: query}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeList(raw)
}

func decodeList(raw json.RawMessage) (*ListResult, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &ListResult{Rows: []Row{}}, nil
	}

	if raw[0] == '[' {
		var rows []Row
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
		return &ListResult{Rows: rows, Total: int64(len(rows))}, nil
	}

	var obj listObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	res := &ListResult{Rows: obj.Items}
	if res.Rows == nil {
		res.Rows = obj.Docs
	}
	if res.Rows == nil {
		res.Rows = obj.Rows
	}
	if res.Rows == nil {
		res.Rows = []Row{}
	}

	switch {
	case obj.Total != nil:
		res.Total = *obj.Total
	case obj.TotalDocs != nil:
		res.Total = *obj.TotalDocs
	case obj.Count != nil:
		res.Total = *obj.Count
	default:
		res.Total = int64(len(res.Rows))
	}
	return res, nil
}
