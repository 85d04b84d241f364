package cli

// version is set at build time with -ldflags "-X github.com/vx-labs/roster/cli.version=..."
var version = "dev"

func Version() string {
	return version
}
