// Package buildinfo reports which archgraph build is running.
//
// Release builds stamp the values through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/archgraph/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/archgraph/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/archgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Builds without ldflags (go install, go run) fall back to the module
// version and VCS stamps the Go toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Linker-stamped values. Empty means "not stamped".
var (
	Version string
	Commit  string
	Date    string
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

var (
	once   sync.Once
	cached Info
)

// Get returns the build description, computed once.
func Get() Info {
	once.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		cached = resolve(bi)
	})
	return cached
}

// resolve merges the linker stamps with the toolchain's embedded build info.
func resolve(bi *debug.BuildInfo) Info {
	info := Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
	if bi != nil {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.Date == "":
				info.Date = s.Value
			case s.Key == "vcs.modified" && s.Value == "true" && info.Commit != "":
				info.Commit += "-dirty"
			}
		}
	}
	info.Version = orDefault(info.Version, "dev")
	info.Commit = orDefault(info.Commit, "none")
	info.Date = orDefault(info.Date, "unknown")
	return info
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// String formats the info the way "archgraph --version" prints it, minus
// the program name.
func (i Info) String() string {
	return fmt.Sprintf("version %s\ncommit: %s\nbuilt: %s (%s)", i.Version, i.Commit, i.Date, i.GoVersion)
}

// Template returns a cobra version template.
func Template() string {
	return "{{.Name}} " + Get().String() + "\n"
}
