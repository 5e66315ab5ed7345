// Package buildinfo reports the version of the running binary.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/anchor/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/anchor/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/anchor/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/anchor
//
// Unstamped builds fall back to what the Go toolchain embedded: the module
// version for `go install` builds and the VCS revision and time for builds
// inside a checkout.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build information as reported by the HTTP health check.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"goVersion,omitempty"`
}

var embedded = sync.OnceValue(func() Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}
	return fromBuildInfo(bi)
})

func fromBuildInfo(bi *debug.BuildInfo) Info {
	info := Info{GoVersion: bi.GoVersion}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
		case "vcs.time":
			info.Date = s.Value
		}
	}
	return info
}

// Get returns the stamped build information, filling unstamped fields from
// the toolchain's embedded data.
func Get() Info {
	return merge(Info{Version: Version, Commit: Commit, Date: Date}, embedded())
}

func merge(stamped, fallback Info) Info {
	out := stamped
	if out.Version == "dev" && fallback.Version != "" {
		out.Version = fallback.Version
	}
	if out.Commit == "none" && fallback.Commit != "" {
		out.Commit = fallback.Commit
	}
	if out.Date == "unknown" && fallback.Date != "" {
		out.Date = fallback.Date
	}
	out.GoVersion = fallback.GoVersion
	return out
}

// String returns the build information on three lines.
func String() string {
	i := Get()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// Template returns the version template for cobra.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
