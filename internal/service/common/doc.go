// Package common holds helpers shared by several services.
//
// It provides a gRPC client for the panel monitor API with call timeouts and
// a way to identify the calling host and user in request metadata.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
