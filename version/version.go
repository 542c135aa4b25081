// Package version holds build metadata set via -ldflags.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the tagged release, or "dev" for local builds.
	GitRelease = "dev"
	// GitCommit is the full commit hash.
	GitCommit = "unknown"
	// GitCommitDate is the commit date in RFC3339.
	GitCommitDate = "unknown"
	// GoInfo describes the toolchain and platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

// Info is the serialisable form of the build metadata.
type Info struct {
	Release    string `json:"release" yaml:"release"`
	Commit     string `json:"commit" yaml:"commit"`
	CommitDate string `json:"commit_date" yaml:"commit_date"`
	Go         string `json:"go" yaml:"go"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Release:    GitRelease,
		Commit:     GitCommit,
		CommitDate: GitCommitDate,
		Go:         GoInfo,
	}
}
