package locale

import (
	"math"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultCookieName is the cookie that remembers the visitor's locale
	DefaultCookieName = "NEXT_LOCALE"
	// DefaultCookieMaxAge keeps the locale cookie for about a year
	DefaultCookieMaxAge = 365 * 24 * time.Hour
)

// DefaultExcludedPrefixes are never negotiated: APIs, assets and probes
var DefaultExcludedPrefixes = []string{"/api", "/_next", "/static", "/assets", "/metrics", "/healthz"}

// Preference is one entry of an Accept-Language header
type Preference struct {
	Tag     string
	Quality float64
}

// Negotiator picks a supported locale for a request
type Negotiator struct {
	supported        map[string]struct{}
	ordered          []string
	defaultLocale    string
	cookieName       string
	cookieMaxAge     time.Duration
	secureCookie     bool
	excludedPrefixes []string
}

// Config configures a Negotiator. Zero values fall back to package defaults.
type Config struct {
	Supported        []string
	Default          string
	CookieName       string
	CookieMaxAge     time.Duration
	SecureCookie     bool
	ExcludedPrefixes []string
}

// NewNegotiator creates a negotiator. Tags are compared lowercase.
func NewNegotiator(cfg Config) *Negotiator {
	n := &Negotiator{
		supported:        make(map[string]struct{}, len(cfg.Supported)),
		defaultLocale:    strings.ToLower(cfg.Default),
		cookieName:       cfg.CookieName,
		cookieMaxAge:     cfg.CookieMaxAge,
		secureCookie:     cfg.SecureCookie,
		excludedPrefixes: cfg.ExcludedPrefixes,
	}
	for _, tag := range cfg.Supported {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := n.supported[tag]; !dup {
			n.supported[tag] = struct{}{}
			n.ordered = append(n.ordered, tag)
		}
	}
	if n.defaultLocale == "" && len(n.ordered) > 0 {
		n.defaultLocale = n.ordered[0]
	}
	if n.cookieName == "" {
		n.cookieName = DefaultCookieName
	}
	if n.cookieMaxAge <= 0 {
		n.cookieMaxAge = DefaultCookieMaxAge
	}
	if n.excludedPrefixes == nil {
		n.excludedPrefixes = DefaultExcludedPrefixes
	}
	return n
}

// Default returns the fallback locale
func (n *Negotiator) Default() string {
	return n.defaultLocale
}

// Supported returns the supported locales in configuration order
func (n *Negotiator) Supported() []string {
	out := make([]string, len(n.ordered))
	copy(out, n.ordered)
	return out
}

// IsSupported reports whether tag is a supported locale
func (n *Negotiator) IsSupported(tag string) bool {
	_, ok := n.supported[strings.ToLower(tag)]
	return ok
}

// LocaleFromPath returns the locale the path starts with, if any
func (n *Negotiator) LocaleFromPath(p string) (string, bool) {
	segment := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	segment = strings.ToLower(segment)
	if _, ok := n.supported[segment]; ok {
		return segment, true
	}
	return "", false
}

// Resolve picks the locale for an unprefixed request: a supported cookie
// value first, then Accept-Language, then the default
func (n *Negotiator) Resolve(r *http.Request) string {
	if c, err := r.Cookie(n.cookieName); err == nil && n.IsSupported(c.Value) {
		return strings.ToLower(c.Value)
	}

	header := r.Header.Get("Accept-Language")
	if header == "" {
		return n.defaultLocale
	}
	for _, pref := range ParseAcceptLanguage(header) {
		if _, ok := n.supported[pref.Tag]; ok {
			return pref.Tag
		}
	}
	return n.defaultLocale
}

// Excluded reports whether a path bypasses negotiation
func (n *Negotiator) Excluded(p string) bool {
	for _, prefix := range n.excludedPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	// favicon.ico, robots.txt, sitemap.xml and friends
	return path.Ext(p) != ""
}

// ParseAcceptLanguage reduces each entry to its lowercase base subtag and
// orders entries by quality, highest first. A missing or unparsable quality
// counts as 1.0; entries keep header order on ties.
func ParseAcceptLanguage(header string) []Preference {
	parts := strings.Split(header, ",")
	prefs := make([]Preference, 0, len(parts))

	for _, part := range parts {
		fields := strings.Split(part, ";")
		tag := strings.TrimSpace(fields[0])
		if tag == "" {
			continue
		}
		if i := strings.IndexAny(tag, "-_"); i >= 0 {
			tag = tag[:i]
		}

		quality := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if !strings.HasPrefix(param, "q=") {
				continue
			}
			quality = parseQuality(strings.TrimPrefix(param, "q="))
		}

		prefs = append(prefs, Preference{Tag: strings.ToLower(tag), Quality: quality})
	}

	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Quality > prefs[j].Quality
	})
	return prefs
}

// parseQuality reads a q value. NaN and non-numbers count as 1.0; anything
// else is clamped to [0, 1] so the sort stays a strict weak ordering.
func parseQuality(s string) float64 {
	q, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(q) {
		return 1.0
	}
	return math.Max(0, math.Min(1, q))
}
