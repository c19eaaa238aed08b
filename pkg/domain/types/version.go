package types

// Version is the bmm version, overridden at build time via -ldflags
var Version = "dev"

const (
	// AppName is used for the service name in health responses and user agents
	AppName = "bmm"
)
