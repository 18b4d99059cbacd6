package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validScenario = `name: echo-hi
description: echo prints its argument
command: ["/bin/echo", "hi"]
expect:
  code:
    kind: exit
    value: 0
  stdout: "hi"
`

func writeScenario(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "echo.yaml", validScenario)

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "echo-hi", s.Name)
	assert.Equal(t, []string{"/bin/echo", "hi"}, s.Command)
	assert.Equal(t, "exit", s.Expect.Code.Kind)
	assert.Zero(t, s.Expect.Code.Value)
	require.NotNil(t, s.Expect.Stdout)
	assert.Equal(t, "hi", *s.Expect.Stdout)
	assert.Nil(t, s.Expect.Stderr)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "typo.yaml", `name: typo
description: misspelled key
command: ["/bin/true"]
expects:
  code:
    kind: exit
    value: 0
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_SchemaViolations(t *testing.T) {
	cases := map[string]string{
		"bad kind": `name: bad
description: unknown code kind
command: ["/bin/true"]
expect:
  code:
    kind: sorcery
    value: 0
`,
		"empty name": `name: ""
description: nameless
command: ["/bin/true"]
expect:
  code:
    kind: exit
    value: 0
`,
		"negative value": `name: neg
description: negative code
command: ["/bin/true"]
expect:
  code:
    kind: exit
    value: -1
`,
		"empty command": `name: nocmd
description: no command
command: []
expect:
  code:
    kind: exit
    value: 0
`,
		"bad flag": `name: badflag
description: unknown flag
command: ["/bin/true"]
flags: ["turbo"]
expect:
  code:
    kind: exit
    value: 0
`,
	}

	dir := t.TempDir()
	for label, content := range cases {
		path := writeScenario(t, dir, label+".yaml", content)
		_, err := Load(path)
		assert.Error(t, err, label)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFind_WalksAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "cart-add.yaml", validScenario)
	writeScenario(t, dir, "cart-remove.yml", validScenario)
	writeScenario(t, dir, "user-login.yaml", validScenario)
	writeScenario(t, dir, "notes.txt", "not a scenario")

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeScenario(t, sub, "cart-nested.yaml", validScenario)

	all, err := Find(dir, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	carts, err := Find(dir, "cart-*")
	require.NoError(t, err)
	assert.Len(t, carts, 3)

	_, err = Find(dir, "[broken")
	assert.Error(t, err)
}

func TestValidateAgainstSchema_AcceptsOptionalSections(t *testing.T) {
	doc := map[string]any{
		"name":        "full",
		"description": "every optional section present",
		"command":     []any{"/bin/true"},
		"stdin":       "input",
		"flags":       []any{"no-strip", "inline"},
		"expect": map[string]any{
			"code":   map[string]any{"kind": "errno", "value": 2},
			"stderr": "oops",
		},
		"files": []any{
			map[string]any{"path": "/tmp/x", "content": "c", "binary": true},
		},
	}
	assert.NoError(t, ValidateAgainstSchema(doc))
}
