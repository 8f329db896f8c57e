package version

// Overridden at build time:
//
//	go build -ldflags "-X opencsg.com/image-moderation/version.GitRevision=$(git rev-parse --short HEAD)"
var (
	Version     = "1.0.0"
	GitRevision = "unknown"
)
