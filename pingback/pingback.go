// Package pingback notifies other sites that a blog post links to them, through the pingback
// (XML-RPC) and trackback (form POST) protocols. Notification runs inline and is best-effort.
package pingback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/net/html"
)

const maxBodySize = 1 << 20

type Notifier struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

type Option func(*Notifier)

func WithRetryDelay(d time.Duration) Option {
	return func(n *Notifier) { n.retryDelay = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) { n.logger = logger }
}

func NewNotifier(client *http.Client, retries int, opts ...Option) *Notifier {

	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	n := &Notifier{
		client:   client,
		retries:  max(retries, 1),
		logger:   slog.Default(),
		breakers: make(map[string]*gobreaker.CircuitBreaker),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// breaker returns the circuit breaker guarding host. A host that keeps failing is skipped for a
// while instead of being retried by every publish.
func (n *Notifier) breaker(host string) *gobreaker.CircuitBreaker {

	n.mu.Lock()
	defer n.mu.Unlock()

	cb, ok := n.breakers[host]
	if !ok {
		cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    host,
			Timeout: time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				n.logger.Info("Pingback host state changed", slog.String("host", name), slog.String("from", from.String()), slog.String("to", to.String()))
			},
		})
		n.breakers[host] = cb
	}

	return cb
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (n *Notifier) do(ctx context.Context, host string, newRequest func() (*http.Request, error)) (*Response, error) {

	var lastErr error
	for attempt := 1; attempt <= n.retries; attempt++ {

		if attempt > 1 && n.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(n.retryDelay):
			}
		}

		result, err := n.breaker(host).Execute(func() (interface{}, error) {

			req, err := newRequest()
			if err != nil {
				return nil, err
			}

			resp, err := n.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
			if err != nil {
				return nil, err
			}

			return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
		})

		if err == nil {
			return result.(*Response), nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) || ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		n.logger.Debug("Fetch failed, retrying", slog.String("host", host), slog.Int("attempt", attempt), slog.Any("error", err))
	}

	return nil, lastErr
}

// Fetch GETs target, retrying transport failures. Exhausted retries fail with the source fault.
func (n *Notifier) Fetch(ctx context.Context, target string) (*Response, error) {

	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return nil, newFault(target, FaultTargetNotFound)
	}

	resp, err := n.do(ctx, u.Host, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
	if err != nil {
		n.logger.Info("Fetching target failed", slog.String("target", target), slog.Any("error", err))
		return nil, newFault(target, FaultSourceNotFound)
	}

	return resp, nil
}

// Discover finds the pingback server of target, from the X-Pingback header or the
// <link rel="pingback"> element of the page.
func (n *Notifier) Discover(ctx context.Context, target string) (string, error) {

	resp, err := n.Fetch(ctx, target)
	if err != nil || resp.StatusCode >= http.StatusBadRequest {
		return "", newFault(target, FaultTargetNotFound)
	}

	if server := strings.TrimSpace(resp.Header.Get("X-Pingback")); server != "" {
		return server, nil
	}

	href, ok := findPingbackLink(resp.Body)
	if !ok {
		return "", newFault(target, FaultTargetNotEnabled)
	}

	base, _ := url.Parse(target)
	ref, err := url.Parse(href)
	if err != nil {
		return "", newFault(target, FaultTargetNotEnabled)
	}

	return base.ResolveReference(ref).String(), nil
}

func findPingbackLink(body []byte) (string, bool) {

	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "link" {
				continue
			}

			if strings.EqualFold(attr(tok, "rel"), "pingback") {
				if href := attr(tok, "href"); href != "" {
					return href, true
				}
			}
		}
	}
}

func attr(tok html.Token, name string) string {

	for _, a := range tok.Attr {
		if a.Key == name {
			return strings.TrimSpace(a.Val)
		}
	}

	return ""
}

// Ping tells target that source links to it. It returns the message of the remote server.
func (n *Notifier) Ping(ctx context.Context, source, target string) (string, error) {

	server, err := n.Discover(ctx, target)
	if err != nil {
		return "", err
	}

	payload, err := encodeCall("pingback.ping", source, target)
	if err != nil {
		return "", err
	}

	serverURL, err := url.Parse(server)
	if err != nil || serverURL.Host == "" {
		return "", newFault(target, FaultTargetNotEnabled)
	}

	resp, err := n.do(ctx, serverURL.Host, func() (*http.Request, error) {

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, server, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "text/xml")
		return req, nil
	})
	if err != nil {
		return "", newFault(target, FaultTargetNotFound)
	}

	message, faultCode, err := decodeResponse(resp.Body)
	if err != nil {
		return "", newFault(target, FaultTargetNotFound)
	}

	if faultCode != nil {
		return "", newFault(target, *faultCode)
	}

	return message, nil
}

type Result struct {
	Target  string `json:"target"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

// NotifyLinks pings every distinct external link of a post body. Failures are logged and
// reported in the results, never returned.
func (n *Notifier) NotifyLinks(ctx context.Context, source, body string) []Result {

	var results []Result
	for _, target := range ExternalLinks(source, body) {

		message, err := n.Ping(ctx, source, target)
		if err != nil {
			n.logger.Info("Pingback failed", slog.String("source", source), slog.String("target", target), slog.Any("error", err))
		}

		results = append(results, Result{Target: target, Message: message, Err: err})
	}

	return results
}

// ExternalLinks lists the absolute http links of body that point outside the host of source,
// in document order without duplicates.
func ExternalLinks(source, body string) []string {

	var sourceHost string
	if u, err := url.Parse(source); err == nil {
		sourceHost = u.Host
	}

	seen := make(map[string]bool)
	var links []string

	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		tok := z.Token()
		if tok.Data != "a" {
			continue
		}

		href := attr(tok, "href")
		u, err := url.Parse(href)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			continue
		}

		if strings.EqualFold(u.Host, sourceHost) || seen[href] {
			continue
		}

		seen[href] = true
		links = append(links, href)
	}
}

func (r Result) String() string {

	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Target, r.Err)
	}

	return fmt.Sprintf("%s: %s", r.Target, r.Message)
}
