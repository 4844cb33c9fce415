package errors

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProjectRoot(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "main.tf")
	require.NoError(t, os.WriteFile(tf, nil, 0o644))

	cases := map[string]struct {
		root string
		want Code
	}{
		"directory":  {dir, ""},
		"empty":      {"", ErrCodeInvalidPath},
		"whitespace": {" \t", ErrCodeInvalidPath},
		"nul byte":   {"shop\x00", ErrCodeInvalidPath},
		"missing":    {filepath.Join(dir, "absent"), ErrCodeFileNotFound},
		"file":       {tf, ErrCodeInvalidPath},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetCode(ValidateProjectRoot(tc.root)))
		})
	}
}

func TestValidateProjectName(t *testing.T) {
	for _, ok := range []string{"shop", "Online Shop", "boutique-é", strings.Repeat("é", 256)} {
		assert.NoError(t, ValidateProjectName(ok), "%q", ok)
	}
	for _, bad := range []string{"", strings.Repeat("n", 257), "two\nlines", "nul\x00"} {
		err := ValidateProjectName(bad)
		assert.True(t, Is(err, ErrCodeInvalidInput), "%q: %v", bad, err)
	}
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, ValidateOutputPath(filepath.Join(dir, "architecture.svg")))

	for name, path := range map[string]string{
		"empty":          "",
		"directory":      dir,
		"missing parent": filepath.Join(dir, "out", "architecture.svg"),
	} {
		assert.True(t, Is(ValidateOutputPath(path), ErrCodeInvalidPath), name)
	}
}

func TestValidateRelativePath(t *testing.T) {
	valid := []string{"plugins/arch", "./plugins/arch", "plugins/v1..2", "a/b/c.md"}
	for _, p := range valid {
		assert.NoError(t, ValidateRelativePath(p), p)
	}

	invalid := []string{
		"",
		"/etc/passwd",
		`\windows\system32`,
		"../outside",
		"plugins/../../outside",
		`plugins\..\outside`,
		"plugins/\x01",
		strings.Repeat("p", 501),
	}
	for _, p := range invalid {
		err := ValidateRelativePath(p)
		assert.True(t, Is(err, ErrCodeInvalidPath), "%q: %v", p, err)
	}
}
