package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/pkg/retry"
)

var _ port.CatalogSource = (*Client)(nil)
var _ port.OrderSink = (*Client)(nil)

const (
	requestTimeout    = 10 * time.Second
	fetchAttempts     = 3
	fetchRetryDelay   = 200 * time.Millisecond
	notFoundIndicator = "NotFound"
)

// A Client talks to the shop backend: product catalog and order
// intake. Image paths are rewritten onto the CDN with the raster
// variant. Catalog fetches retry with backoff; order submission is
// attempted exactly once, the core decides what to do with a failure.
type Client struct {
	baseURL string
	cdnURL  string
	httpCl  *http.Client
}

func New(baseURL, cdnURL string) Client {
	return Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		cdnURL:  strings.TrimRight(cdnURL, "/"),
		httpCl:  &http.Client{Timeout: requestTimeout},
	}
}

func (c Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.FetchProducts"
	log := slog.With("op", op)

	retryCfg := retry.RetryConfig{
		MaxAttempts: fetchAttempts,
		Backoff:     retry.ExponentialBackoff(fetchRetryDelay),
	}

	list, err := retry.DoWithResult(ctx, retryCfg,
		func() (productList, error) {
			var v productList
			err := c.getJSON(ctx, "/product", &v)
			return v, err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps := make([]domain.Product, 0, len(list.Items))
	for _, item := range list.Items {
		ps = append(ps, c.toDomain(item))
	}

	log.Info("products fetched", "nProducts", len(ps))
	return ps, nil
}

func (c Client) FetchProductByID(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "Client.FetchProductByID"

	var raw json.RawMessage
	err := c.getJSON(ctx, "/product/"+id, &raw)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
		if apiErr.Error == notFoundIndicator {
			return domain.Product{}, fmt.Errorf(
				"%s: %w", op, domain.ErrProductNotFound,
			)
		}
		return domain.Product{}, fmt.Errorf("%s: %s", op, apiErr.Error)
	}

	var v product
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return c.toDomain(v), nil
}

func (c Client) SubmitOrder(
	ctx context.Context, order domain.Order,
) (domain.OrderReceipt, error) {
	const op = "Client.SubmitOrder"
	log := slog.With("op", op)

	body := orderRequest{
		Payment: string(order.Payment),
		Email:   order.Email,
		Phone:   order.Phone,
		Address: order.Address,
		Total:   order.Total,
		Items:   order.Items,
	}

	var raw json.RawMessage
	if err := c.postJSON(ctx, "/order", body, &raw); err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
		return domain.OrderReceipt{}, fmt.Errorf("%s: %s", op, apiErr.Error)
	}

	var v orderSuccess
	if err := json.Unmarshal(raw, &v); err != nil {
		return domain.OrderReceipt{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("order accepted", "orderId", v.ID, "total", v.Total)
	return domain.OrderReceipt{ID: v.ID, Total: v.Total}, nil
}

func (c Client) toDomain(v product) domain.Product {
	return domain.Product{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Category:    v.Category,
		Image:       c.cdnImageURL(v.Image),
		Price:       v.Price,
	}
}

func (c Client) cdnImageURL(path string) string {
	if strings.HasSuffix(path, ".svg") {
		path = strings.TrimSuffix(path, ".svg") + ".png"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.cdnURL + path
}

func (c Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c Client) postJSON(ctx context.Context, path string, body, v any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, v)
}

func (c Client) do(req *http.Request, v any) error {
	res, err := c.httpCl.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()

	if res.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend unavailable: %s", res.Status)
	}
	if res.StatusCode >= http.StatusBadRequest {
		var apiErr apiError
		if json.NewDecoder(res.Body).Decode(&apiErr) == nil &&
			apiErr.Error != "" {
			if apiErr.Error == notFoundIndicator {
				return domain.ErrProductNotFound
			}
			return errors.New(apiErr.Error)
		}
		return fmt.Errorf("request rejected: %s", res.Status)
	}

	return json.NewDecoder(res.Body).Decode(v)
}
