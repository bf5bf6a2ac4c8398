//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"google.golang.org/grpc/metadata"

	"github.com/oshokin/vent-panel/internal/api/grpc/monitor"
)

// Actor identifies the host and user behind a monitor call.
type Actor struct {
	Hostname string
	Username string
}

// DetectActor gathers host and user information of the current process.
func DetectActor() (*Actor, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Actor{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// outgoing attaches the actor to an outgoing call context.
func (a *Actor) outgoing(ctx context.Context) context.Context {
	if a == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx,
		monitor.MetadataHostname, a.Hostname,
		monitor.MetadataUsername, a.Username,
	)
}
