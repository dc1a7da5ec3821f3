package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/younsl/pricenexus/internal/logger"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/internal/version"
	"github.com/younsl/pricenexus/pkg/stats"
	"go.uber.org/zap"
)

const (
	pricesPath    = "/api/azureretailjune/prices"
	specsPath     = "/api/azurevminfojune"
	familyPath    = "/api/azurevminfojune/by-family"
	filteredPath  = "/api/azurevminfojune/filtered"
	comparePath   = "/api/azurevminfojune/compare"
	recommendPath = "/api/azurevminfojune/compare-vms-ai"

	applicationJSON = "application/json"
	requestIDHeader = "X-Request-ID"

	// StatsService is the service name under which backend calls are counted
	StatsService = "Backend"
)

// ErrTransport marks failures where no usable HTTP response came back
var ErrTransport = errors.New("backend unreachable")

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ErrorMessage returns the human-readable reason of a backend error:
// the server's message when it sent one, the error text otherwise.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// Options configures a Client
type Options struct {
	BaseURL  string
	Timeout  time.Duration
	RetryMax int
	Logger   *zap.Logger
	Stats    *stats.Recorder
}

// Client talks to the pricing backend REST API
type Client struct {
	baseURL string
	http    *retryablehttp.Client
	logger  *zap.Logger
	stats   *stats.Recorder
}

// NewClient creates a backend client
func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", opts.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", opts.BaseURL)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = opts.RetryMax
	httpClient.RetryWaitMin = 200 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.Logger = logger.NewLeveled(log)
	// Hand every final response back so status codes and error bodies are inspected here
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.Timeout > 0 {
		httpClient.HTTPClient.Timeout = opts.Timeout
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    httpClient,
		logger:  log,
		stats:   opts.Stats,
	}, nil
}

// BaseURL returns the backend root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListPrices fetches price list rows
func (c *Client) ListPrices(ctx context.Context, f models.PriceFilter) ([]models.PricingRecord, error) {
	return getList[models.PricingRecord](ctx, c, pricesPath, f.Values())
}

// ListSpecs fetches instance specifications
func (c *Client) ListSpecs(ctx context.Context, f models.SpecFilter) ([]models.InstanceSpec, error) {
	return getList[models.InstanceSpec](ctx, c, specsPath, f.Values())
}

// ListFamily fetches every size of an instance family
func (c *Client) ListFamily(ctx context.Context, f models.FamilyFilter) ([]models.InstanceSpec, error) {
	return getList[models.InstanceSpec](ctx, c, familyPath, f.Values())
}

// ListVariants fetches the rows behind the variants selector
func (c *Client) ListVariants(ctx context.Context, f models.VariantFilter) ([]models.InstanceSpec, error) {
	return getList[models.InstanceSpec](ctx, c, filteredPath, f.Values())
}

type vmsRequest struct {
	VMs []models.VMRef `json:"vms"`
}

// Compare posts the selected VMs and returns the comparison payload
func (c *Client) Compare(ctx context.Context, refs []models.VMRef) (*models.ComparisonPayload, error) {
	resp, err := c.do(ctx, http.MethodPost, comparePath, nil, vmsRequest{VMs: refs})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload models.ComparisonPayload
	if err := c.decode(resp, comparePath, &payload); err != nil {
		return nil, err
	}
	if payload.Data == nil {
		payload.Data = []models.InstanceSpec{}
	}
	return &payload, nil
}

type recommendResponse struct {
	Recommendation string `json:"recommendation"`
}

// Recommend asks the backend for an AI-generated recommendation over the given VMs
func (c *Client) Recommend(ctx context.Context, refs []models.VMRef) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, recommendPath, nil, vmsRequest{VMs: refs})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out recommendResponse
	if err := c.decode(resp, recommendPath, &out); err != nil {
		return "", err
	}
	return out.Recommendation, nil
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env listEnvelope[T]
	if err := c.decode(resp, path, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

type errorBody struct {
	Message string `json:"message"`
}

// decode checks the status code and decodes a JSON body into out, recording the outcome
func (c *Client) decode(resp *http.Response, path string, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.Record(StatsService, path, stats.Failure)

		apiErr := &APIError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Message = eb.Message
		}
		c.logger.Warn("backend request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.stats.Record(StatsService, path, stats.Failure)
		return fmt.Errorf("error decoding %s response: %w", path, err)
	}

	c.stats.Record(StatsService, path, stats.Success)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", applicationJSON)
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(requestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", applicationJSON)
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.stats.Record(StatsService, path, stats.Failure)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return resp, nil
}
