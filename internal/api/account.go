package api

import (
	"context"
	"net/http"

	"github.com/nhle/release-planner/internal/model"
)

// SignUpRequest completes registration for a new social-login user. It is
// authorized by the temp token.
type SignUpRequest struct {
	Nickname  string          `json:"nickname"`
	Email     string          `json:"email"`
	LoginType model.LoginType `json:"loginType"`
}

// SignUpResponse is the envelope returned by POST /account/signup.
type SignUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		ID        int64  `json:"id"`
		Email     string `json:"email"`
		Nickname  string `json:"nickname"`
		UserToken string `json:"userToken"`
	} `json:"data"`
}

// AccountClient wraps the account endpoints.
type AccountClient struct {
	api Doer
}

// NewAccountClient returns an AccountClient issuing requests through api.
func NewAccountClient(api Doer) *AccountClient {
	return &AccountClient{api: api}
}

// SignUp exchanges the temp token for a registered account.
func (c *AccountClient) SignUp(ctx context.Context, req SignUpRequest) (SignUpResponse, error) {
	var resp SignUpResponse
	if err := c.api.Do(ctx, http.MethodPost, "/account/signup", req, &resp); err != nil {
		return SignUpResponse{}, err
	}
	return resp, nil
}

// UpdateNickname changes the account's display name.
func (c *AccountClient) UpdateNickname(ctx context.Context, nickname string) error {
	body := struct {
		Nickname string `json:"nickname"`
	}{Nickname: nickname}
	return c.api.Do(ctx, http.MethodPut, "/account/nickname", body, nil)
}

// DeleteAccount permanently removes the account and its data.
func (c *AccountClient) DeleteAccount(ctx context.Context) error {
	return c.api.Do(ctx, http.MethodDelete, "/account", nil, nil)
}
