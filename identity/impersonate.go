//go:build testidentity

package identity

import "net/http"

const impersonationCookie = "impersonate"

// ImpersonationProvider lets a request act as any user with ?as=<user id> or the impersonate
// cookie. It is compiled only into builds tagged testidentity.
type ImpersonationProvider struct {
	Fallback Provider
}

func (p ImpersonationProvider) Resolve(r *http.Request) User {

	id := r.URL.Query().Get("as")
	if id == "" {
		if cookie, err := r.Cookie(impersonationCookie); err == nil {
			id = cookie.Value
		}
	}

	if id == "" {
		return p.Fallback.Resolve(r)
	}

	return User{ID: id, Nickname: "as-" + id}
}

func init() {
	impersonation = ImpersonationProvider{Fallback: HeaderProvider{}}
}
