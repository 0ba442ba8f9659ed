// Package gateway is the HTTP client for the PheWAS backend API. It turns
// explorer intents into GET requests and decodes the responses into the
// node and edge records the graph store expects.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dd0wney/phewas-explorer/pkg/logging"
	"github.com/dd0wney/phewas-explorer/pkg/metrics"
	"github.com/google/uuid"
)

// Endpoint names, used in logs, metrics and errors
const (
	EndpointGraphData    = "graph-data"
	EndpointDiseases     = "get-diseases"
	EndpointInfo         = "get-info"
	EndpointPath         = "get-path-to-node"
	EndpointAssociations = "get_combined_associations"
	EndpointExport       = "export-query"
)

var paths = map[string]string{
	EndpointGraphData:    "/api/graph-data/",
	EndpointDiseases:     "/api/get-diseases/",
	EndpointInfo:         "/api/get-info/",
	EndpointPath:         "/api/get-path-to-node/",
	EndpointAssociations: "/api/get_combined_associations",
	EndpointExport:       "/api/export-query/",
}

// maxBody bounds how much of an error body is kept for the log
const maxBody = 512

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout of 0 means requests wait until their context ends.
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
	Metrics    *metrics.Registry
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	logger  logging.Logger
	metrics *metrics.Registry
}

// New creates a client for the backend at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &Client{
		base:    base,
		http:    hc,
		logger:  logger.With(logging.Component("gateway")),
		metrics: opts.Metrics,
	}, nil
}

// endpointURL builds the request URL for an endpoint.
func (c *Client) endpointURL(endpoint string, params url.Values) string {
	u := *c.base
	u.Path = c.base.Path + paths[endpoint]
	u.RawQuery = params.Encode()
	return u.String()
}

// do issues a GET and returns the response for a 2xx status. The caller
// closes the body.
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) (*http.Response, *logging.TimedOperation, error) {
	requestID := uuid.NewString()
	op := logging.StartTimer(c.logger, "fetch",
		logging.Endpoint(endpoint), logging.RequestID(requestID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, params), nil)
	if err != nil {
		err = &FetchError{Endpoint: endpoint, Cause: err}
		op.EndError(err)
		return nil, op, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	if c.metrics != nil {
		c.metrics.GatewayRequestsInFlight.Inc()
		defer c.metrics.GatewayRequestsInFlight.Dec()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.record(endpoint, 0, op, -1)
		op.EndError(err)
		return nil, op, &FetchError{Endpoint: endpoint, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		resp.Body.Close()
		c.record(endpoint, resp.StatusCode, op, int64(len(body)))
		err := &FetchError{Endpoint: endpoint, Status: resp.StatusCode, Cause: ErrHTTPStatus}
		op.EndError(err, logging.Status(resp.StatusCode), logging.String("body", string(body)))
		return nil, op, err
	}
	return resp, op, nil
}

// getJSON issues a GET and decodes a JSON body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, op, err := c.do(ctx, endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	counter := &countingReader{r: resp.Body}
	if err := json.NewDecoder(counter).Decode(out); err != nil {
		c.record(endpoint, resp.StatusCode, op, counter.n)
		err = &FetchError{Endpoint: endpoint, Status: resp.StatusCode, Cause: fmt.Errorf("%w: %v", ErrDecode, err)}
		op.EndError(err)
		return err
	}
	c.record(endpoint, resp.StatusCode, op, counter.n)
	op.End(logging.Status(resp.StatusCode), logging.Int("bytes", int(counter.n)))
	return nil
}

func (c *Client) record(endpoint string, status int, op *logging.TimedOperation, size int64) {
	if c.metrics != nil {
		c.metrics.RecordGatewayRequest(endpoint, status, op.Elapsed(), size)
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
