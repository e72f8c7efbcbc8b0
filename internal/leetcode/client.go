package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/conlit/backend/internal/domain"
	"github.com/conlit/backend/internal/infrastructure"
)

const leetcodeOrigin = "https://leetcode.com"

// Client talks to the LeetCode GraphQL API. It implements
// domain.LeetCodeSource and domain.CorpusSource.
type Client struct {
	http        *http.Client
	config      *infrastructure.LeetCodeConfig
	limiter     *rate.Limiter
	backoffBase time.Duration
	tracer      trace.Tracer
	metrics     *infrastructure.TelemetryMetrics
	logger      *zap.Logger
}

var (
	_ domain.LeetCodeSource = (*Client)(nil)
	_ domain.CorpusSource   = (*Client)(nil)
)

// NewClient creates a LeetCode client. Corpus queries share a token bucket
// of config.CrawlRate requests per second.
func NewClient(
	config *infrastructure.LeetCodeConfig,
	tracer trace.Tracer,
	metrics *infrastructure.TelemetryMetrics,
	logger *zap.Logger,
) *Client {
	limit := rate.Inf
	if config.CrawlRate > 0 {
		limit = rate.Limit(config.CrawlRate)
	}
	burst := config.CrawlBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		http:        &http.Client{},
		config:      config,
		limiter:     rate.NewLimiter(limit, burst),
		backoffBase: defaultBackoff,
		tracer:      tracer,
		metrics:     metrics,
		logger:      logger.Named("leetcode"),
	}
}

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// GraphQLError carries the error messages of a GraphQL response
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// userMissing reports whether LeetCode said the user does not exist
func (e *GraphQLError) userMissing() bool {
	for _, m := range e.Messages {
		if strings.Contains(strings.ToLower(m), "does not exist") {
			return true
		}
	}
	return false
}

// query runs one GraphQL operation, retrying transient failures, and decodes data into out.
// A response carrying errors is returned as *GraphQLError after data is decoded.
func (c *Client) query(ctx context.Context, op, query string, vars map[string]any, auth *domain.AuthContext, out any) error {
	ctx, span := c.tracer.Start(ctx, "LeetCode."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, err := json.Marshal(graphQLRequest{OperationName: op, Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode %s: %w", op, err)
	}

	var resp *graphQLResponse
	attempts := c.config.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		resp, err = c.post(ctx, body, auth)
		if err == nil || !isRetryable(ctx, err) || attempt == attempts-1 {
			break
		}

		wait := backoff(c.backoffBase, attempt, err)
		c.logger.Debug("Retrying LeetCode request",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if sleepErr := sleepCtx(ctx, wait); sleepErr != nil {
			err = sleepErr
			break
		}
	}

	span.SetAttributes(attribute.String("leetcode.operation", op))
	if c.metrics != nil {
		infrastructure.RecordOutcome(ctx, c.metrics.LeetCodeRequests, op, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("LeetCode request failed", zap.String("operation", op), zap.Error(err))
		return err
	}

	if len(resp.Data) > 0 && string(resp.Data) != "null" && out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("%w: decode %s: %v", domain.ErrSourceMalformed, op, err)
		}
	}
	if len(resp.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, e := range resp.Errors {
			gqlErr.Messages = append(gqlErr.Messages, e.Message)
		}
		return gqlErr
	}
	return nil
}

func (c *Client) post(ctx context.Context, body []byte, auth *domain.AuthContext) (*graphQLResponse, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Referer", leetcodeOrigin)
	req.Header.Set("Origin", leetcodeOrigin)
	if auth != nil && auth.HasSession() {
		req.AddCookie(&http.Cookie{Name: domain.SessionCookieName, Value: auth.Session})
		if auth.CSRFToken != "" {
			req.AddCookie(&http.Cookie{Name: domain.CSRFCookieName, Value: auth.CSRFToken})
			req.Header.Set(domain.CSRFHeaderName, auth.CSRFToken)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 32<<20))
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet := string(raw)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{
			StatusCode: res.StatusCode,
			Body:       snippet,
			retryAfter: retryAfter(res, maxBackoff),
		}
	}

	var out graphQLResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceMalformed, err)
	}
	return &out, nil
}
