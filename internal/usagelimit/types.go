// Package usagelimit reports Claude subscription usage (the 5-hour and 7-day
// rate-limit windows) for Pro, Max and Team users.
//
// Credentials come from the macOS keychain or ~/.claude/.credentials.json, the
// numbers from the OAuth usage endpoint, and results are cached on disk so a
// status line render rarely waits on the network.
package usagelimit

import "time"

// Data is the usage status shown by the usage-limit segment. A nil PlanName
// means an API-key user without subscription limits.
type Data struct {
	PlanName        *string    `json:"planName"`
	FiveHour        *int       `json:"fiveHour"`
	SevenDay        *int       `json:"sevenDay"`
	FiveHourResetAt *time.Time `json:"fiveHourResetAt"`
	SevenDayResetAt *time.Time `json:"sevenDayResetAt"`
	APIUnavailable  bool       `json:"apiUnavailable,omitempty"`
}

// Credentials is the subset of the Claude Code OAuth credentials needed to
// query usage.
type Credentials struct {
	AccessToken      string
	SubscriptionType string
}

// credentialsFile is the JSON layout Claude Code uses in both the keychain
// entry and the credentials file.
type credentialsFile struct {
	ClaudeAiOauth *struct {
		AccessToken      string   `json:"accessToken"`
		RefreshToken     string   `json:"refreshToken"`
		SubscriptionType string   `json:"subscriptionType"`
		RateLimitTier    string   `json:"rateLimitTier"`
		ExpiresAt        *float64 `json:"expiresAt"`
		Scopes           []string `json:"scopes"`
	} `json:"claudeAiOauth"`
}

type usageResponse struct {
	FiveHour *usageBucket `json:"five_hour"`
	SevenDay *usageBucket `json:"seven_day"`
}

type usageBucket struct {
	Utilization *float64 `json:"utilization"`
	ResetsAt    *string  `json:"resets_at"`
}

func (b *usageBucket) utilization() *float64 {
	if b == nil {
		return nil
	}
	return b.Utilization
}

func (b *usageBucket) resetsAt() *string {
	if b == nil {
		return nil
	}
	return b.ResetsAt
}
