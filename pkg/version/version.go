package version

// Set via -ldflags "-X github.com/restpot/restpot/pkg/version.Version=..."
var (
	Version   = "UNKNOWN"
	GitCommit = "UNKNOWN"
)
