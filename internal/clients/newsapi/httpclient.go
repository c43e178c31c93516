package newsapi

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/proxy"
)

const DefaultTimeout = 30 * time.Second

// NewHTTPClient builds a client that goes through a socks5 or http(s) proxy
// when proxyURL is set.
func NewHTTPClient(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return &http.Client{Timeout: DefaultTimeout}, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy url: %w", err)
	}

	var transport *http.Transport
	switch parsedURL.Scheme {
	case "socks5":
		dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("creating socks5 dialer: %w", err)
		}
		transport = &http.Transport{Dial: dialer.Dial}
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(parsedURL)}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", parsedURL.Scheme)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   DefaultTimeout,
	}, nil
}
