package netfetch

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
	"golang.org/x/net/proxy"

	"github.com/arsenal-toolkit/internal/config"
	"github.com/arsenal-toolkit/internal/logger"
)

const torSocksAddr = "127.0.0.1:9050"

// Fetcher downloads small artifacts such as installer scripts over HTTPS,
// honoring the configured proxy or Tor routing
type Fetcher struct {
	config  *config.Config
	log     logger.Logger
	client  *fasthttp.Client
	timeout time.Duration
}

// New creates a fetcher from the network configuration
func New(cfg *config.Config, log logger.Logger) *Fetcher {
	timeout := time.Duration(cfg.Network.Timeout) * time.Second

	client := &fasthttp.Client{
		Name:         cfg.Network.UserAgent,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		TLSConfig: &tls.Config{
			InsecureSkipVerify: !cfg.Network.VerifySSL,
		},
	}

	f := &Fetcher{
		config:  cfg,
		log:     log,
		client:  client,
		timeout: timeout,
	}

	client.Dial = f.buildDialer()

	return f
}

// Fetch downloads a URL and returns the response body
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	f.log.Debug("Fetching URL", "url", url, "timeout", f.timeout)

	if err := f.client.DoRedirects(req, resp, f.config.Network.MaxRedirects); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode(), url)
	}

	// The response buffer is reused after release, so copy the body out.
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	f.log.Debug("Fetch completed", "url", url, "bytes", len(body))
	return body, nil
}

// FetchToFile downloads a URL into a local file with the given mode
func (f *Fetcher) FetchToFile(url, path string, mode os.FileMode) error {
	body, err := f.Fetch(url)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, body, mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// buildDialer picks the transport dialer: Tor, an explicit proxy, or a
// plain TCP dial. Tor takes precedence over a configured proxy URL.
func (f *Fetcher) buildDialer() fasthttp.DialFunc {
	if f.config.Network.UseTor {
		f.log.Info("Routing downloads through Tor", "socks", torSocksAddr)
		return socksDialer(torSocksAddr)
	}

	proxyURL := f.config.Network.Proxy
	switch {
	case proxyURL == "":
		return nil
	case strings.HasPrefix(proxyURL, "socks5://"):
		addr := strings.TrimPrefix(proxyURL, "socks5://")
		f.log.Info("Routing downloads through SOCKS5 proxy", "proxy", addr)
		return socksDialer(addr)
	default:
		f.log.Info("Routing downloads through HTTP proxy", "proxy", proxyURL)
		return fasthttpproxy.FasthttpHTTPDialerTimeout(
			strings.TrimPrefix(strings.TrimPrefix(proxyURL, "http://"), "https://"), f.timeout)
	}
}

// socksDialer adapts a SOCKS5 proxy into a fasthttp dial function
func socksDialer(addr string) fasthttp.DialFunc {
	return func(target string) (net.Conn, error) {
		dialer, err := proxy.SOCKS5("tcp", addr, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		return dialer.Dial("tcp", target)
	}
}
