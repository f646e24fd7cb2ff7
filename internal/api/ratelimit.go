package api

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"brandae-leads-api/internal/util"
)

// IPRateLimiter keeps one token bucket per client IP. Idle buckets are
// dropped by Sweep.
//
// The client IP is the connection's remote address. X-Forwarded-For is only
// read when that address is a trusted proxy, and then the right-most hop
// that is not itself trusted wins.
type IPRateLimiter struct {
	limit   rate.Limit
	burst   int
	trusted []netip.Prefix

	mu      sync.Mutex
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewIPRateLimiter returns nil when rps <= 0, which Middleware treats as disabled.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: map[string]*client{},
		now:     time.Now,
	}
}

// TrustProxies sets the proxies whose X-Forwarded-For is honored. Entries are
// IPs or CIDR prefixes.
func (l *IPRateLimiter) TrustProxies(proxies []string) error {
	if l == nil {
		return nil
	}
	trusted := make([]netip.Prefix, 0, len(proxies))
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return fmt.Errorf("trusted proxy %q: %w", p, err)
			}
			trusted = append(trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: %w", p, err)
		}
		addr = addr.Unmap()
		trusted = append(trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	l.trusted = trusted
	return nil
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.seen = l.now()
	return c.lim.AllowN(c.seen, 1)
}

// Sweep forgets clients not seen for idle.
func (l *IPRateLimiter) Sweep(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-idle)
	for ip, c := range l.clients {
		if c.seen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func (l *IPRateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientIP(r)
		if !l.Allow(ip) {
			log.Ctx(r.Context()).Warn().
				Str("remote_ip", ip).
				Str("path", r.URL.Path).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			util.WriteError(w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next(w, r)
	}
}

func (l *IPRateLimiter) clientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !l.isTrusted(remote) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if _, err := netip.ParseAddr(hop); err != nil {
			// garbage in the chain: stop at the last address we can vouch for
			return remote
		}
		if !l.isTrusted(hop) {
			return hop
		}
		remote = hop
	}
	return remote
}

func (l *IPRateLimiter) isTrusted(ip string) bool {
	if len(l.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
