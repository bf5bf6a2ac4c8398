package monitor

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// Metadata keys carrying the caller identity.
const (
	MetadataHostname = "x-panel-hostname"
	MetadataUsername = "x-panel-username"
)

// Caller returns the host and user a client attached to its call, if any.
func Caller(ctx context.Context) (hostname, username string) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", ""
	}

	if v := md.Get(MetadataHostname); len(v) > 0 {
		hostname = v[0]
	}

	if v := md.Get(MetadataUsername); len(v) > 0 {
		username = v[0]
	}

	return hostname, username
}
