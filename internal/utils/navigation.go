package utils

import (
	"net/url"
	"strings"
)

// Navigation is what the runtime learns from the URL it was opened with.
type Navigation struct {
	Path         string
	RecoveryFlow bool
	AccessToken  string
	RefreshToken string
}

// ParseNavigation inspects rawURL for a password-recovery link. Auth services
// put recovery parameters either in the query or in the fragment
// ("#access_token=...&type=recovery"); both are checked.
func ParseNavigation(rawURL string) Navigation {
	nav := Navigation{}
	if strings.TrimSpace(rawURL) == "" {
		return nav
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nav
	}
	nav.Path = u.Path

	params := u.Query()
	if fragment, err := url.ParseQuery(u.Fragment); err == nil {
		for k, v := range fragment {
			params[k] = append(params[k], v...)
		}
	}

	nav.RecoveryFlow = params.Get("type") == "recovery"
	nav.AccessToken = params.Get("access_token")
	nav.RefreshToken = params.Get("refresh_token")
	return nav
}
