package model

import (
	"fmt"
	"strings"
)

// LoginType identifies the social provider an account signed up with.
type LoginType string

const (
	LoginTypeKakao  LoginType = "KAKAO"
	LoginTypeGoogle LoginType = "GOOGLE"
	LoginTypeNaver  LoginType = "NAVER"
)

// ParseLoginType converts input such as "kakao" into a LoginType.
func ParseLoginType(s string) (LoginType, error) {
	lt := LoginType(strings.ToUpper(strings.TrimSpace(s)))
	switch lt {
	case LoginTypeKakao, LoginTypeGoogle, LoginTypeNaver:
		return lt, nil
	}
	return "", fmt.Errorf("unknown login type %q", s)
}

// Profile is the cached user information kept next to the session tokens.
// It is display data only; the backend is authoritative.
type Profile struct {
	ID        int64     `json:"id,omitempty"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email"`
	LoginType LoginType `json:"loginType"`
	IsNewUser bool      `json:"isNewUser"`
}
