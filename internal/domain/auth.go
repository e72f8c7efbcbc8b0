package domain

// CredentialSource names where a session credential was supplied
type CredentialSource string

const (
	CredentialFromQuery  CredentialSource = "query"
	CredentialFromCookie CredentialSource = "cookie"
	CredentialFromHeader CredentialSource = "header"

	// Command-line sources
	CredentialFromFlag CredentialSource = "flag"
	CredentialFromEnv  CredentialSource = "env"
)

// Transport-level names for the session credential
const (
	SessionQueryParam = "leetcode_session"
	SessionCookieName = "LEETCODE_SESSION"
	SessionHeaderName = "X-LeetCode-Session"
	CSRFCookieName    = "csrftoken"
	CSRFHeaderName    = "X-CSRFToken"
)

// CredentialPrecedence is the order in which credential sources are consulted.
// The first non-empty value wins.
var CredentialPrecedence = []CredentialSource{
	CredentialFromQuery,
	CredentialFromCookie,
	CredentialFromHeader,
}

// AuthContext carries the optional LeetCode session of the caller
type AuthContext struct {
	Session   string
	CSRFToken string
	Source    CredentialSource
}

// HasSession reports whether a session credential was supplied
func (a AuthContext) HasSession() bool {
	return a.Session != ""
}

// ResolveAuthContext picks the session credential following CredentialPrecedence.
// lookup returns the raw value found at the given source, or "" if absent.
func ResolveAuthContext(lookup func(CredentialSource) string, csrfToken string) AuthContext {
	for _, src := range CredentialPrecedence {
		if v := lookup(src); v != "" {
			return AuthContext{Session: v, CSRFToken: csrfToken, Source: src}
		}
	}
	return AuthContext{CSRFToken: csrfToken}
}
