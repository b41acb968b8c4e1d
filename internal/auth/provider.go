// Package auth implements social login through a provider popup, signup
// completion, and the account actions that change the session.
package auth

import (
	"fmt"
	"strings"

	"github.com/nhle/release-planner/internal/model"
)

// Provider is a social login provider.
type Provider string

const (
	Kakao  Provider = "kakao"
	Google Provider = "google"
	Naver  Provider = "naver"
)

// Providers lists every supported provider.
var Providers = []Provider{Kakao, Google, Naver}

// ParseProvider converts user input such as "Kakao" into a Provider.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Providers {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (want kakao, google or naver)", s)
}

// LoginPath is the backend path that starts the provider's OAuth dance.
func (p Provider) LoginPath() string {
	return "/" + string(p) + "-authentication/login"
}

// SuccessTag is the message type the backend posts after a good login.
func (p Provider) SuccessTag() string {
	return strings.ToUpper(string(p)) + "_LOGIN_SUCCESS"
}

// ErrorTag is the message type the backend posts when the login failed.
func (p Provider) ErrorTag() string {
	return strings.ToUpper(string(p)) + "_LOGIN_ERROR"
}

// LoginType is the account login type recorded for this provider.
func (p Provider) LoginType() model.LoginType {
	return model.LoginType(strings.ToUpper(string(p)))
}

// providerForTag finds the provider whose success or error tag is tag.
func providerForTag(tag string) (Provider, bool, bool) {
	for _, p := range Providers {
		switch tag {
		case p.SuccessTag():
			return p, true, true
		case p.ErrorTag():
			return p, false, true
		}
	}
	return "", false, false
}
