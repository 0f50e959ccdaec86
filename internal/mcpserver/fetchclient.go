package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/erraggy/oaschangelog"
)

const (
	fetchTimeout      = 30 * time.Second
	fetchDialTimeout  = 10 * time.Second
	fetchMaxRedirects = 10
)

// ipResolver looks up the addresses of a host; *net.Resolver satisfies it.
type ipResolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// isBlockedIP reports whether ip is private, loopback, link-local or unspecified.
func isBlockedIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}

// newFetchClient returns the HTTP client used for url inputs.
// Unless allowPrivate is set, connections and redirects to blocked
// addresses are refused, so an agent cannot point the server at internal
// services. Every request carries the oaschangelog User-Agent.
func newFetchClient(allowPrivate bool) *http.Client {
	return newFetchClientWithResolver(allowPrivate, net.DefaultResolver)
}

func newFetchClientWithResolver(allowPrivate bool, resolver ipResolver) *http.Client {
	g := addrGuard{resolver: resolver, allowPrivate: allowPrivate}
	dialer := &net.Dialer{Timeout: fetchDialTimeout}

	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: fetchDialTimeout,
	}
	if !allowPrivate {
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ip, err := g.check(ctx, host, "blocked request to private/loopback IP")
			if err != nil {
				return nil, err
			}
			// Dial the checked address so a second lookup cannot swap it.
			return dialer.DialContext(ctx, network, net.JoinHostPort(ip.String(), port))
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Timeout:       fetchTimeout,
		Transport:     userAgentTransport{base: transport, userAgent: oaschangelog.UserAgent()},
		CheckRedirect: g.checkRedirect,
	}
}

// addrGuard applies the private address policy to dials and redirects.
type addrGuard struct {
	resolver     ipResolver
	allowPrivate bool
}

// check resolves host and returns its first address, failing with reason
// when any of its addresses is blocked.
func (g addrGuard) check(ctx context.Context, host, reason string) (net.IP, error) {
	ips, err := g.resolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	for _, ipAddr := range ips {
		if isBlockedIP(ipAddr.IP) {
			return nil, fmt.Errorf("%s: %s (%s)", reason, host, ipAddr.IP)
		}
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no IP addresses found for host: %s", host)
	}
	return ips[0].IP, nil
}

func (g addrGuard) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= fetchMaxRedirects {
		return fmt.Errorf("stopped after %d redirects", fetchMaxRedirects)
	}
	if g.allowPrivate {
		return nil
	}
	_, err := g.check(req.Context(), req.URL.Hostname(), "redirect to private/loopback IP blocked")
	return err
}

// userAgentTransport sets the User-Agent of requests that have none.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
