package git

import (
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// tokenUsername is sent with token authentication; hosting services
// ignore it but reject an empty one.
const tokenUsername = "token"

// AuthResolver returns the transport.AuthMethod to use for a remote URL.
// A nil method with a nil error means "no authentication".
type AuthResolver func(remoteURL string) (transport.AuthMethod, error)

// DefaultAuthResolver authenticates https remotes with token, when one is
// set, and ssh remotes through the SSH agent. Local and file remotes need
// nothing.
func DefaultAuthResolver(token string) AuthResolver {
	return func(remoteURL string) (transport.AuthMethod, error) {
		ep, err := transport.NewEndpoint(remoteURL)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}

		switch ep.Protocol {
		case "https", "http":
			if token == "" {
				return nil, nil
			}
			return &http.BasicAuth{Username: tokenUsername, Password: token}, nil
		case "ssh":
			user := ep.User
			if user == "" {
				user = "git"
			}
			auth, err := ssh.NewSSHAgentAuth(user)
			if err != nil {
				return nil, fmt.Errorf("ssh agent authentication unavailable: %w", err)
			}
			return auth, nil
		default:
			return nil, nil
		}
	}
}
