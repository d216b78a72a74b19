package git

import (
	"net/url"
	"regexp"
	"strings"
)

// Visibility selects how a clone is authenticated.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

var githubUserRe = regexp.MustCompile(`^https?://github\.com/([^/]+)/`)

// GitHubUser extracts the account name from a GitHub https address.
func GitHubUser(remote string) (string, error) {
	m := githubUserRe.FindStringSubmatch(remote)
	if len(m) < 2 || m[1] == "" {
		return "", ErrInvalidRemote
	}
	return m[1], nil
}

// CloneAddress resolves the address passed to git clone. Public remotes are
// used verbatim. Private remotes must be GitHub https addresses; when token
// is non-empty it is embedded as basic-auth credentials.
func CloneAddress(remote string, visibility Visibility, token string) (string, error) {
	remote = strings.TrimSpace(remote)
	switch visibility {
	case VisibilityPublic:
		if remote == "" {
			return "", ErrInvalidRemote
		}
		return remote, nil
	case VisibilityPrivate:
		user, err := GitHubUser(remote)
		if err != nil {
			return "", err
		}
		if token == "" {
			return remote, nil
		}
		u, err := url.Parse(remote)
		if err != nil {
			return "", ErrInvalidRemote
		}
		u.User = url.UserPassword(user, token)
		return u.String(), nil
	default:
		return "", ErrUnknownVisibility
	}
}

// RedactRemote hides credentials embedded in a URL so it can be logged.
func RedactRemote(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.User == nil || u.Host == "" {
		return s
	}
	if _, ok := u.User.Password(); !ok {
		return s
	}
	return u.Redacted()
}
