// Package buildinfo carries the version stamped into the revetment binary.
//
// The variables are overridden at link time:
//
//	go build -ldflags "-X github.com/matzehuels/revetment/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/revetment/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/revetment
package buildinfo

import "fmt"

// Set with -ldflags -X.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version, abbreviated commit and build date on one line.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, shortCommit(), Date)
}

// Template is the cobra version template, "<name> version <String()>".
func Template() string {
	return "{{.Name}} version " + String() + "\n"
}

func shortCommit() string {
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}
