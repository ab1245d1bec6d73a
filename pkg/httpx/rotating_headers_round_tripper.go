package httpx

import (
	"fmt"
	"math/rand/v2"
	"net/http"
)

type headerProvider interface {
	Headers() http.Header
}

// RotatingHeadersRoundTripper stamps every outgoing request with a fresh set
// of browser-like headers picked by the provider. Marketplaces throttle
// clients that keep a fixed User-Agent, so the provider is consulted per
// request, not per client.
type RotatingHeadersRoundTripper struct {
	next     http.RoundTripper
	provider headerProvider
}

func NewRotatingHeadersRoundTripper(
	next http.RoundTripper,
	provider headerProvider,
) RotatingHeadersRoundTripper {
	return RotatingHeadersRoundTripper{
		next:     next,
		provider: provider,
	}
}

// RoundTrip implements http.RoundTripper interface.
func (rt RotatingHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for name, values := range rt.provider.Headers() {
		if req.Header.Get(name) != "" {
			continue
		}

		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}

// BrowserHeaderProvider rotates between a fixed pool of desktop user agents.
type BrowserHeaderProvider struct {
	userAgents     []string
	acceptLanguage string
	referer        string
}

func NewBrowserHeaderProvider(acceptLanguage, referer string) BrowserHeaderProvider {
	return BrowserHeaderProvider{
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:131.0) Gecko/20100101 Firefox/131.0",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
		},
		acceptLanguage: acceptLanguage,
		referer:        referer,
	}
}

func (p BrowserHeaderProvider) Headers() http.Header {
	h := http.Header{}
	h.Set("User-Agent", p.userAgents[rand.IntN(len(p.userAgents))])
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	if p.acceptLanguage != "" {
		h.Set("Accept-Language", p.acceptLanguage)
	}

	if p.referer != "" {
		h.Set("Referer", p.referer)
	}

	return h
}
