package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	stamp := func(v, c, d string) func() {
		oldV, oldC, oldD := Version, Commit, Date
		Version, Commit, Date = v, c, d
		return func() { Version, Commit, Date = oldV, oldC, oldD }
	}

	t.Run("nothing known", func(t *testing.T) {
		defer stamp("", "", "")()
		info := resolve(nil)
		assert.Equal(t, "dev", info.Version)
		assert.Equal(t, "none", info.Commit)
		assert.Equal(t, "unknown", info.Date)
		assert.NotEmpty(t, info.GoVersion)
	})

	t.Run("embedded vcs info", func(t *testing.T) {
		defer stamp("", "", "")()
		bi := &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc123"},
				{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}
		info := resolve(bi)
		assert.Equal(t, "v0.3.1", info.Version)
		assert.Equal(t, "abc123-dirty", info.Commit)
		assert.Equal(t, "2026-10-01T08:00:00Z", info.Date)
	})

	t.Run("devel module version is ignored", func(t *testing.T) {
		defer stamp("", "", "")()
		info := resolve(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "dev", info.Version)
	})

	t.Run("linker stamps win", func(t *testing.T) {
		defer stamp("v1.0.0", "feed", "2026-01-02")()
		bi := &debug.BuildInfo{
			Main:     debug.Module{Version: "v0.9.0"},
			Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
		}
		info := resolve(bi)
		assert.Equal(t, Info{Version: "v1.0.0", Commit: "feed", Date: "2026-01-02", GoVersion: info.GoVersion}, info)
	})
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	assert.True(t, strings.HasPrefix(tmpl, "{{.Name}} version "), tmpl)
	assert.Contains(t, tmpl, "commit: ")
}
