package httpx

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	DefaultTimeout             = 30 * time.Second
	DefaultMaxConnsPerHost     = 64
	DefaultMaxIdleConnDuration = 10 * time.Second
	DefaultMaxResponseBodySize = 4 * 1024 * 1024 // 4MB
)

// Options tune the outbound client. Zero fields fall back to the package
// defaults above.
type Options struct {
	Timeout             time.Duration
	InsecureSkipVerify  bool
	MaxConnsPerHost     int
	MaxResponseBodySize int
	UserAgent           string
}

type Option func(*Options)

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithInsecureSkipVerify disables certificate verification, for alert
// receivers behind self-signed TLS.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *Options) {
		o.InsecureSkipVerify = skip
	}
}

func WithMaxConnsPerHost(n int) Option {
	return func(o *Options) {
		o.MaxConnsPerHost = n
	}
}

// WithUserAgent sets the User-Agent sent when the request carries none.
func WithUserAgent(agent string) Option {
	return func(o *Options) {
		o.UserAgent = agent
	}
}

type fastHTTPClient struct {
	client    *fasthttp.Client
	userAgent string
}

// NewFastHTTPClient builds the pooled client behind outbound alert delivery.
// Connections to alert endpoints stay warm between events, so a burst of
// trap hits does not pay a handshake per webhook.
func NewFastHTTPClient(opts ...Option) Client {
	options := Options{
		Timeout:             DefaultTimeout,
		MaxConnsPerHost:     DefaultMaxConnsPerHost,
		MaxResponseBodySize: DefaultMaxResponseBodySize,
	}
	for _, opt := range opts {
		opt(&options)
	}

	client := &fasthttp.Client{
		MaxConnsPerHost:     options.MaxConnsPerHost,
		MaxIdleConnDuration: DefaultMaxIdleConnDuration,
		MaxResponseBodySize: options.MaxResponseBodySize,
		ReadTimeout:         options.Timeout,
		WriteTimeout:        options.Timeout,
	}
	if options.InsecureSkipVerify {
		client.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // intentionally configurable
		}
	}

	return &fastHTTPClient{
		client:    client,
		userAgent: options.UserAgent,
	}
}

func (c *fastHTTPClient) Do(req *http.Request) (*http.Response, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	if err := c.fillRequest(fastReq, req); err != nil {
		return nil, err
	}
	if err := c.client.Do(fastReq, fastResp); err != nil {
		return nil, err
	}
	return toHTTPResponse(fastResp, req), nil
}

func (c *fastHTTPClient) fillRequest(fastReq *fasthttp.Request, req *http.Request) error {
	if req.URL != nil {
		fastReq.SetRequestURI(req.URL.String())
	}
	fastReq.Header.SetMethod(req.Method)

	if req.Host != "" {
		fastReq.Header.SetHost(req.Host)
	} else if req.URL != nil && req.URL.Host != "" {
		fastReq.Header.SetHost(req.URL.Host)
	}

	// Set replaces fasthttp's special headers correctly; Add is only needed
	// for genuine repeats of the same key.
	for key, values := range req.Header {
		if len(values) == 0 {
			continue
		}
		fastReq.Header.Set(key, values[0])
		for _, value := range values[1:] {
			fastReq.Header.Add(key, value)
		}
	}
	if c.userAgent != "" && req.Header.Get(fasthttp.HeaderUserAgent) == "" {
		fastReq.Header.SetUserAgent(c.userAgent)
	}

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("failed to read request body: %w", err)
		}
		_ = req.Body.Close()
		fastReq.SetBodyRaw(body)
	}
	return nil
}

// toHTTPResponse must finish copying before Do releases fastResp; Body()
// points into a buffer fasthttp reuses.
func toHTTPResponse(fastResp *fasthttp.Response, req *http.Request) *http.Response {
	body := append([]byte(nil), fastResp.Body()...)
	status := fastResp.StatusCode()

	headers := make(http.Header)
	fastResp.Header.VisitAll(func(key, value []byte) {
		headers.Add(string(key), string(value))
	})

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        headers,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
