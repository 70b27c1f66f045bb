// Package identity resolves who is making a request. The site sits behind an authenticating proxy,
// so a provider only reads what the proxy forwards.
package identity

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/keys"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderNickname = "X-User-Nickname"
	HeaderEmail    = "X-User-Email"
	HeaderAdmin    = "X-User-Admin"

	contextKey = "identity.user"
)

type User struct {
	ID       string `json:"user_id,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin,omitempty"`
}

func Anonymous() User {
	return User{}
}

func (u User) IsAnonymous() bool {
	return u.ID == ""
}

// OwnerID is the numeric id keys are built from; anonymous users share owner 0.
func (u User) OwnerID() (*big.Int, error) {
	return keys.ParseOwnerID(u.ID)
}

// Owns reports whether u is the signed in author identified by userID.
func (u User) Owns(userID string) bool {
	return !u.IsAnonymous() && u.ID == userID
}

// Token is the public identifier used in profile URLs.
func (u User) Token() string {

	id, err := u.OwnerID()
	if err != nil {
		return keys.AnonymousToken
	}

	return keys.OwnerToken(u.DisplayName(), id)
}

// DisplayName falls back to the local part of the email address.
func (u User) DisplayName() string {

	if u.Nickname != "" {
		return u.Nickname
	}

	if name, _, ok := strings.Cut(u.Email, "@"); ok && name != "" {
		return name
	}

	if u.IsAnonymous() {
		return keys.AnonymousToken
	}

	return "sketcher"
}

type Provider interface {
	Resolve(r *http.Request) User
}

// HeaderProvider trusts the identity headers set by the fronting proxy. A user id that is not a
// decimal number is treated as anonymous.
type HeaderProvider struct{}

func (HeaderProvider) Resolve(r *http.Request) User {

	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		return Anonymous()
	}

	if _, err := keys.ParseOwnerID(id); err != nil {
		return Anonymous()
	}

	admin, _ := strconv.ParseBool(r.Header.Get(HeaderAdmin))

	return User{
		ID:       id,
		Nickname: strings.TrimSpace(r.Header.Get(HeaderNickname)),
		Email:    strings.TrimSpace(r.Header.Get(HeaderEmail)),
		Admin:    admin,
	}
}

// NewProvider returns the provider named by mode.
func NewProvider(mode string) (Provider, error) {

	switch mode {
	case "", "header":
		return HeaderProvider{}, nil
	case "impersonate":
		if impersonation == nil {
			return nil, fmt.Errorf("identity mode %q is only available in test builds", mode)
		}
		return impersonation, nil
	default:
		return nil, fmt.Errorf("unknown identity mode %q", mode)
	}
}

// Middleware resolves the user once per request.
func Middleware(provider Provider) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(contextKey, provider.Resolve(ctx.Request))
		ctx.Next()
	}
}

// FromContext returns the user stored by Middleware, or the anonymous user.
func FromContext(ctx *gin.Context) User {

	if v, ok := ctx.Get(contextKey); ok {
		if user, ok := v.(User); ok {
			return user
		}
	}

	return Anonymous()
}

// impersonation is set by builds tagged testidentity.
var impersonation Provider
