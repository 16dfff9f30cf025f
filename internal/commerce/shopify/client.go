// Package shopify talks to the Shopify Storefront GraphQL API.
package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"matcha-storefront/internal/commerce"
	"matcha-storefront/internal/config"

	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

var _ commerce.Client = (*Client)(nil)

// Client issues queries and mutations against one storefront. It never retries:
// a failed cart mutation must surface to the shopper as-is.
type Client struct {
	http     *resty.Client
	rl       ratelimit.Limiter
	endpoint string
	logger   logrus.FieldLogger
}

func New(cfg config.ShopifyConfig, logger logrus.FieldLogger) (*Client, error) {
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errors.New("shopify store domain required")
	}
	if err := validateDocuments(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.StorefrontToken != "" {
		httpClient.SetHeader(tokenHeader, cfg.StorefrontToken)
	}

	rl := ratelimit.NewUnlimited()
	if cfg.RequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.RequestsPerSecond)
	}

	return &Client{
		http:     httpClient,
		rl:       rl,
		endpoint: endpointFor(cfg.StoreDomain, cfg.APIVersion),
		logger:   logger,
	}, nil
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.http.Close()
}

func endpointFor(domain, version string) string {
	base := strings.TrimRight(strings.TrimSpace(domain), "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	if version == "" {
		version = "2024-10"
	}
	return fmt.Sprintf("%s/api/%s/graphql.json", base, version)
}

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// GraphQLError is returned when the API answers with top-level errors.
type GraphQLError struct {
	Operation string
	Messages  []string
}

func (e *GraphQLError) Error() string {
	return fmt.Sprintf("shopify %s: %s", e.Operation, strings.Join(e.Messages, "; "))
}

func execute[T any](ctx context.Context, c *Client, op string, vars map[string]any) (*T, error) {
	doc, ok := documents[op]
	if !ok {
		return nil, fmt.Errorf("shopify: unknown operation %q", op)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("shopify %s cancelled: %w", op, err)
	}
	c.rl.Take()
	// The caller may have given up while waiting for a slot.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("shopify %s cancelled: %w", op, err)
	}
	start := time.Now()

	var out graphQLResponse[T]
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: doc, OperationName: op, Variables: vars}).
		SetResult(&out).
		Post(c.endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("shopify %s cancelled: %w", op, ctx.Err())
		}
		c.logger.WithField("operation", op).Warnf("shopify request failed: %v", err)
		return nil, fmt.Errorf("shopify %s: %w", op, err)
	}
	if resp.IsError() {
		c.logger.WithFields(logrus.Fields{"operation": op, "status": resp.StatusCode()}).Warn("shopify returned an error status")
		return nil, fmt.Errorf("shopify %s: HTTP %d", op, resp.StatusCode())
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &GraphQLError{Operation: op, Messages: msgs}
	}
	if out.Data == nil {
		return nil, fmt.Errorf("shopify %s: empty response", op)
	}

	c.logger.WithFields(logrus.Fields{"operation": op, "took": time.Since(start).Round(time.Millisecond)}).Debug("shopify request done")
	return out.Data, nil
}
