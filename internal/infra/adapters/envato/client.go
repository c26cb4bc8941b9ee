// File: internal/infra/adapters/envato/client.go
package envato

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"purchase-registry/internal/domain"
	"purchase-registry/internal/domain/model"
	"purchase-registry/internal/domain/ports/adapter"
	"purchase-registry/internal/infra/logging"
	"purchase-registry/internal/infra/metrics"
)

var _ adapter.Marketplace = (*Client)(nil)

const maxBodyBytes = 1 << 20

// Client implements adapter.Marketplace against the Envato REST API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
	log     *zerolog.Logger
	dev     bool
}

// NewClient builds a client. timeout bounds every outbound call.
func NewClient(token, baseURL string, timeout time.Duration, logger *zerolog.Logger, dev bool) (*Client, error) {
	if token == "" {
		return nil, errors.New("envato token empty")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid envato base url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
		dev:     dev,
	}, nil
}

// VerifyPurchase calls /v1/market/private/user/verify-purchase:{code}.json.
func (c *Client) VerifyPurchase(ctx context.Context, code string) (rec *model.PurchaseRecord, err error) {
	started := time.Now()
	defer func() {
		metrics.ObserveVerify(failReason(err), started)
		l := logging.With(ctx, c.log)
		if err != nil {
			l.Debug().Err(err).Str("code", logging.Redact(code, c.dev)).Msg("verify purchase failed")
			return
		}
		l.Debug().Str("code", logging.Redact(code, c.dev)).Str("item_id", rec.ItemID).Msg("purchase verified")
	}()

	if code == "" {
		return nil, domain.ErrEmptyCode
	}

	status, body, err := c.get(ctx, "/v1/market/private/user/verify-purchase:"+url.PathEscape(code)+".json")
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: verify-purchase http %d", domain.ErrTransportFailure, status)
	}

	doc, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode verify-purchase: %w", domain.ErrTransportFailure, err)
	}
	top, _ := doc.(map[string]any)
	fields, _ := top["verify-purchase"].(map[string]any)
	if fields == nil || fields["item_id"] == nil {
		return nil, domain.ErrInvalidCode
	}
	return purchaseFromFields(fields), nil
}

// ItemInfo calls /v4/market/catalog/item?id={id}.
func (c *Client) ItemInfo(ctx context.Context, itemID string) (item *model.Item, err error) {
	defer func() { metrics.IncLookup("item", err == nil) }()

	if strings.TrimSpace(itemID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	status, body, err := c.get(ctx, "/v4/market/catalog/item?id="+url.QueryEscape(itemID))
	if err != nil {
		return nil, err
	}
	if err := statusErr("catalog item", status); err != nil {
		return nil, err
	}
	doc, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode catalog item: %w", domain.ErrTransportFailure, err)
	}
	fields, _ := doc.(map[string]any)
	if fields == nil || fields["id"] == nil {
		return nil, domain.ErrNotFound
	}
	return itemFromFields(fields), nil
}

// UserInfo calls /v1/market/user:{username}.json and returns its "user" object.
func (c *Client) UserInfo(ctx context.Context, username string) (u *model.MarketUser, err error) {
	defer func() { metrics.IncLookup("user", err == nil) }()

	if strings.TrimSpace(username) == "" {
		return nil, domain.ErrInvalidArgument
	}
	status, body, err := c.get(ctx, "/v1/market/user:"+url.PathEscape(username)+".json")
	if err != nil {
		return nil, err
	}
	if err := statusErr("market user", status); err != nil {
		return nil, err
	}
	doc, err := decodeJSON(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode market user: %w", domain.ErrTransportFailure, err)
	}
	top, _ := doc.(map[string]any)
	fields, _ := top["user"].(map[string]any)
	if fields == nil {
		return nil, domain.ErrNotFound
	}
	return &model.MarketUser{
		Username:  str(fields, "username"),
		Country:   str(fields, "country"),
		Sales:     str(fields, "sales"),
		Followers: str(fields, "followers"),
		Image:     str(fields, "image"),
		Location:  str(fields, "location"),
		Raw:       fields,
	}, nil
}

// get performs one authenticated GET. Only failures to complete the exchange
// are returned as errors; status handling is left to the caller.
func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: build request: %w", domain.ErrTransportFailure, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %w", domain.ErrTransportFailure, err)
	}
	return resp.StatusCode, body, nil
}

func statusErr(what string, status int) error {
	switch {
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case status < 200 || status >= 300:
		return fmt.Errorf("%w: %s http %d", domain.ErrTransportFailure, what, status)
	}
	return nil
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func purchaseFromFields(f map[string]any) *model.PurchaseRecord {
	rec := &model.PurchaseRecord{
		ItemID:   str(f, "item_id"),
		ItemName: str(f, "item_name"),
		Buyer:    str(f, "buyer"),
		Licence:  str(f, "licence"),
		Raw:      f,
	}
	// A purchase without a support window keeps the zero date and reads as expired.
	if t, err := model.ParseMarketDate(str(f, "supported_until")); err == nil {
		rec.SupportedUntil = t
	}
	if t, err := model.ParseMarketDate(str(f, "created_at")); err == nil {
		rec.CreatedAt = &t
	}
	return rec
}

func itemFromFields(f map[string]any) *model.Item {
	item := &model.Item{
		ID:        integer(f["id"]),
		Name:      str(f, "name"),
		Author:    str(f, "author_username"),
		URL:       str(f, "url"),
		Sales:     integer(f["number_of_sales"]),
		UpdatedAt: str(f, "updated_at"),
		Raw:       f,
	}
	switch r := f["rating"].(type) {
	case map[string]any:
		item.Rating = float(r["rating"])
	default:
		item.Rating = float(r)
	}
	return item
}

// str renders scalar JSON values as strings; ids arrive as numbers or strings.
func str(f map[string]any, key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func integer(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if fl, err := n.Float64(); err == nil {
			return int64(fl)
		}
	case string:
		i, _ := strconv.ParseInt(n, 10, 64)
		return i
	}
	return 0
}

func float(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func failReason(err error) string {
	if err == nil {
		return ""
	}
	return domain.Kind(err)
}
