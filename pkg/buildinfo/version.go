// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/treeviz/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/treeviz/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/treeviz/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/treeviz
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the JSON form reported by the HTTP health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the stamped build information.
func Get() Info { return Info{Version: Version, Commit: Commit, Date: Date} }

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("treeviz %s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
