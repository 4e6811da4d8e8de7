package usagelimit

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Provider answers "what is the current subscription usage" for the status
// line, consulting the cache before credentials and the API.
type Provider struct {
	Cache       *Cache
	Credentials *CredentialResolver
	Client      *Client
	Now         func() time.Time
	Log         *zap.Logger
}

// NewProvider wires the default cache, credential sources and API client for
// the user whose home directory is home.
func NewProvider(home string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{
		Cache:       NewCache(home, log),
		Credentials: &CredentialResolver{Sources: DefaultSources(runtime.GOOS, home), Log: log},
		Client:      NewClient(log),
		Now:         time.Now,
		Log:         log,
	}
}

// GetUsageLimitInfo returns the caller's usage status, or nil when there is
// nothing to show: no credentials, an API-key account, or an internal failure.
// An unreachable API yields a result with APIUnavailable set.
func (p *Provider) GetUsageLimitInfo(ctx context.Context) (data *Data) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debug("usage limit lookup failed", zap.Error(fmt.Errorf("panic: %v", r)))
			data = nil
		}
	}()

	now := time.Now()
	if p.Now != nil {
		now = p.Now()
	}

	if cached := p.Cache.Read(now); cached != nil {
		return cached
	}

	creds := p.Credentials.Resolve(ctx, now)
	if creds == nil {
		return nil
	}

	plan := planName(creds.SubscriptionType)
	if plan == nil {
		log.Debug("no subscription plan, skipping usage lookup", zap.String("subscription", creds.SubscriptionType))
		return nil
	}

	usage := p.Client.Fetch(ctx, creds.AccessToken)
	if usage == nil {
		result := Data{PlanName: plan, APIUnavailable: true}
		p.Cache.Write(result, now)
		return &result
	}

	result := Data{
		PlanName:        plan,
		FiveHour:        parseUtilization(usage.FiveHour.utilization()),
		SevenDay:        parseUtilization(usage.SevenDay.utilization()),
		FiveHourResetAt: parseResetTime(usage.FiveHour.resetsAt()),
		SevenDayResetAt: parseResetTime(usage.SevenDay.resetsAt()),
	}
	p.Cache.Write(result, now)
	return &result
}

// planName maps a raw subscription type such as "max_20x" to a display name.
// Nil means the account has no subscription usage limits.
func planName(subscriptionType string) *string {
	lower := strings.ToLower(subscriptionType)
	var name string
	switch {
	case strings.Contains(lower, "max"):
		name = "Max"
	case strings.Contains(lower, "pro"):
		name = "Pro"
	case strings.Contains(lower, "team"):
		name = "Team"
	case subscriptionType == "" || strings.Contains(lower, "api"):
		return nil
	default:
		r, size := utf8.DecodeRuneInString(subscriptionType)
		name = string(unicode.ToUpper(r)) + subscriptionType[size:]
	}
	return &name
}

// parseUtilization rounds a utilization percentage into [0, 100]. Missing and
// non-finite values yield nil.
func parseUtilization(value *float64) *int {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	pct := int(math.Round(math.Max(0, math.Min(100, *value))))
	return &pct
}

// parseResetTime parses an RFC 3339 reset timestamp; unix seconds are also
// accepted. Anything else yields nil.
func parseResetTime(value *string) *time.Time {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(*value)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t
	}
	if ts, err := strconv.ParseFloat(s, 64); err == nil && ts > 1_000_000_000 {
		t := time.Unix(int64(ts), 0).UTC()
		return &t
	}
	return nil
}
