package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/dendrix-ai/dendrix-web/pkg/config"
	"github.com/redis/go-redis/v9"
)

// fixedWindowScript counts a hit and returns the count and the window's
// remaining lifetime in milliseconds.
const fixedWindowScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {count, ttl}
`

// Rule bounds how many hits one client may make per window
type Rule struct {
	Limit  int
	Burst  int
	Window time.Duration
}

// Result describes the outcome of one Allow call
type Result struct {
	Allowed     bool
	Remaining   int
	Limit       int
	Window      time.Duration
	RetryAfter  time.Duration
	ResetAfter  time.Duration
	IdentityKey string
	EndpointKey string
}

// Limiter is a fixed-window limiter shared by all instances through Redis
type Limiter struct {
	client redis.Scripter
	script *redis.Script
	cfg    config.RateLimitConfig
	now    func() time.Time
}

// NewLimiter creates a limiter backed by client
func NewLimiter(client redis.Scripter, cfg config.RateLimitConfig) *Limiter {
	if cfg.RedisPrefix == "" {
		cfg.RedisPrefix = "rl"
	}
	return &Limiter{
		client: client,
		script: redis.NewScript(fixedWindowScript),
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithNow replaces the clock, for tests
func (l *Limiter) WithNow(fn func() time.Time) {
	if fn != nil {
		l.now = fn
	}
}

// ScriptHash returns the SHA1 the limiter's script is invoked by
func (l *Limiter) ScriptHash() string {
	return l.script.Hash()
}

// DefaultRule returns the configured rule
func (l *Limiter) DefaultRule() Rule {
	burst := l.cfg.Burst
	if burst < 0 {
		burst = 0
	}
	return Rule{Limit: l.cfg.Limit, Burst: burst, Window: l.cfg.Window()}
}

// Allow counts one hit by identity against endpoint. A disabled limiter or a
// rule without a positive limit always allows.
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule) (*Result, error) {
	res := &Result{
		Allowed:     true,
		Remaining:   rule.Limit,
		Limit:       rule.Limit,
		Window:      rule.Window,
		IdentityKey: identity,
		EndpointKey: endpoint,
	}
	if !l.cfg.Enabled || rule.Limit <= 0 {
		return res, nil
	}
	if rule.Window <= 0 {
		rule.Window = l.cfg.Window()
		res.Window = rule.Window
	}

	key := l.key(endpoint, identity, rule.Window)
	raw, err := l.script.Run(ctx, l.client, []string{key}, rule.Window.Milliseconds()).Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}
	if len(raw) != 2 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", raw)
	}

	count := toInt(raw[0])
	ttl := time.Duration(toInt(raw[1])) * time.Millisecond
	if ttl < 0 {
		ttl = rule.Window
	}

	allowance := rule.Limit + rule.Burst
	res.ResetAfter = ttl
	res.Remaining = allowance - count
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if count > allowance {
		res.Allowed = false
		res.RetryAfter = ttl
	}
	return res, nil
}

// key buckets hits by window start so that a stuck TTL cannot lock a client out
func (l *Limiter) key(endpoint, identity string, window time.Duration) string {
	bucket := l.now().UnixMilli() / window.Milliseconds()
	return fmt.Sprintf("%s:%s:%s:%d", l.cfg.RedisPrefix, endpoint, identity, bucket)
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}
