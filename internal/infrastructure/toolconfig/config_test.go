package toolconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tools.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Empty(t, f.Tools)
	assert.Empty(t, f.BlockedPatterns)
	assert.Nil(t, f.Overrides())
}

func TestLoadParsesToolSettings(t *testing.T) {
	path := writeConfig(t, `
tools:
  news_search:
    enabled: false
  web_search:
    description: "Internal web search."
blocked_patterns:
  - "(?i)blocked\\.example"
  - "tracker"
`)

	f, err := Load(path)
	require.NoError(t, err)

	require.Contains(t, f.Tools, "news_search")
	require.NotNil(t, f.Tools["news_search"].Enabled)
	assert.False(t, *f.Tools["news_search"].Enabled)

	require.Contains(t, f.Tools, "web_search")
	assert.Nil(t, f.Tools["web_search"].Enabled, "absent enabled key must stay nil")
	assert.Equal(t, "Internal web search.", f.Tools["web_search"].Description)

	assert.Equal(t, []string{"(?i)blocked\\.example", "tracker"}, f.BlockedPatterns)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("BLOCKED_DOMAIN", "spam.example.org")
	path := writeConfig(t, `
blocked_patterns:
  - "${BLOCKED_DOMAIN}"
`)

	f, err := Load(path)
	require.NoError(t, err)
	require.Len(t, f.BlockedPatterns, 1)
	assert.Equal(t, "spam.example.org", f.BlockedPatterns[0])
}

func TestLoadExpandsEnvironmentInPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tools.yml"), []byte("tools: {}\n"), 0o644))
	t.Setenv("TOOLS_DIR", dir)

	f, err := Load("${TOOLS_DIR}/tools.yml")
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tools:\n  - this is\n not valid yaml: [")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestOverridesConversion(t *testing.T) {
	disabled := false
	f := &File{
		Tools: map[string]ToolSetting{
			"news_search": {Enabled: &disabled},
			"web_search":  {Description: "reworded"},
		},
	}

	overrides := f.Overrides()
	require.Len(t, overrides, 2)

	require.NotNil(t, overrides["news_search"].Enabled)
	assert.False(t, *overrides["news_search"].Enabled)
	assert.Equal(t, "reworded", overrides["web_search"].Description)
	assert.Nil(t, overrides["web_search"].Enabled)
}

func TestFilterBlocksMatchingText(t *testing.T) {
	filter := NewFilter([]string{`(?i)spam\.example`, "tracker"})

	assert.True(t, filter.Blocked("https://SPAM.example/landing"))
	assert.True(t, filter.Blocked("best tracker deals"))
	assert.False(t, filter.Blocked("https://go.dev/blog"))
	assert.False(t, filter.Blocked(""))
}

func TestFilterSkipsInvalidPatterns(t *testing.T) {
	filter := NewFilter([]string{"[invalid", `valid\.example`})

	// The invalid pattern is dropped; the valid one still works.
	assert.True(t, filter.Blocked("https://valid.example/x"))
	assert.False(t, filter.Blocked("[invalid"))
	assert.Len(t, filter.patterns, 1)
}

func TestFilterWithNoPatterns(t *testing.T) {
	filter := NewFilter(nil)
	assert.False(t, filter.Blocked("https://anything.example"))
}
