package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rbset/cmd/rbset/commands"
	"github.com/Sumatoshi-tech/rbset/pkg/layout"
)

const demoInput = "10 20 25 30 7 5 4 3 1"

func TestMain(m *testing.M) {
	color.NoColor = true //nolint:reassign // plain output keeps assertions simple.
	os.Exit(m.Run())
}

// emptyConfig isolates the tests from any .rbset.yaml lying around.
func emptyConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rbset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(append([]string{"--config", emptyConfig(t, "")}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestSortInts(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "5 3 9\n3 1", "sort", "-")
	require.NoError(t, err)
	assert.Equal(t, "1\n3\n5\n9\n", out)

	out, _, err = runCommand(t, "5 3 9 3 1", "sort", "--reverse", "-")
	require.NoError(t, err)
	assert.Equal(t, "9\n5\n3\n1\n", out)
}

func TestSortStrings(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "b a c", "sort", "--type", "string", "-")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", out)
}

func TestSortFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "keys.txt")
	require.NoError(t, os.WriteFile(path, []byte("3\n2\n1\n"), 0o600))

	out, _, err := runCommand(t, "", "sort", path)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInputErrors(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, "1 x", "sort", "-")
	require.ErrorIs(t, err, commands.ErrBadKey)

	_, _, err = runCommand(t, "1", "sort", "--type", "float", "-")
	require.ErrorIs(t, err, commands.ErrUnknownKeyType)

	_, _, err = runCommand(t, "1 2 3 4 5", "sort", "--max-input", "4B", "-")
	require.ErrorIs(t, err, commands.ErrInputTooLarge)

	_, _, err = runCommand(t, "", "sort", filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
}

func TestLongKeys(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("k", 200*1024)

	out, _, err := runCommand(t, "b "+long+" a", "sort", "--type", "string", "-")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n"+long+"\n", out)

	_, _, err = runCommand(t, long, "sort", "--type", "string", "--max-input", "100KiB", "-")
	require.ErrorIs(t, err, commands.ErrInputTooLarge)
}

func TestHugeMaxInput(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "3 1 2", "sort", "--max-input", "15EiB", "-")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, demoInput, "check", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "OK: 9 keys"), out)

	out, _, err = runCommand(t, demoInput, "check", "--remove", "20,7,42", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "OK: 7 keys"), out)

	_, _, err = runCommand(t, demoInput, "check", "--remove", "x", "-")
	require.ErrorIs(t, err, commands.ErrBadKey)
}

func TestDump(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "2 1 3", "dump", "-")
	require.NoError(t, err)
	assert.Equal(t, " └─(R)──── 2 (BLACK)\n      ├─(L)──── 1 (RED)\n      └─(R)──── 3 (RED)\n", out)
}

func TestDrawSVGToFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tree.svg")

	out, _, err := runCommand(t, demoInput, "draw", "--output", path, "-")
	require.NoError(t, err)
	assert.Empty(t, out)

	svg, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(svg, []byte("<svg")))
	assert.Equal(t, 9, bytes.Count(svg, []byte("<circle")))
	assert.Equal(t, 8, bytes.Count(svg, []byte("<line")))
}

func TestDrawFormats(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, demoInput, "draw", "--format", "html", "--title", "Scenario", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Scenario")
	assert.Contains(t, out, "7 (B)")

	out, _, err = runCommand(t, demoInput, "draw", "-f", "table", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "BLACK")

	_, _, err = runCommand(t, demoInput, "draw", "-f", "png", "-")
	require.ErrorIs(t, err, commands.ErrUnknownFormat)
}

func TestExport(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "2 1 3", "export", "--format", "json", "-")
	require.NoError(t, err)

	var fromJSON layout.Layout[int]
	require.NoError(t, json.Unmarshal([]byte(out), &fromJSON))
	require.Len(t, fromJSON.Nodes, 3)
	assert.Equal(t, 2, fromJSON.Nodes[1].Key)
	assert.Len(t, fromJSON.Edges, 2)

	out, _, err = runCommand(t, "b a c", "--type", "string", "export", "-")
	require.NoError(t, err)

	var fromYAML layout.Layout[string]
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	require.Len(t, fromYAML.Nodes, 3)
	assert.Equal(t, "a", fromYAML.Nodes[0].Key)
	assert.True(t, fromYAML.Nodes[0].Red)
}

func TestStats(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(strings.NewReader(demoInput), &stdout, &stderr)
	cmd.SetArgs([]string{"--config", emptyConfig(t, "arena:\n  hibernation_threshold: 0\n"), "stats", "-"})
	require.NoError(t, cmd.Execute())

	out := stdout.String()
	assert.Contains(t, out, "arena used")
	assert.Contains(t, out, "hibernate time")

	out, _, err := runCommand(t, demoInput, "stats", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "skipped, under 1,000 slots")
}

func TestDemo(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, " └─(R)──── 7 (BLACK)\n")
	assert.Contains(t, out, "      └─(R)──── 20 (RED)\n")
	assert.Contains(t, out, "Root: 7 (BLACK)\n")
	assert.Contains(t, out, "Keys: [1 3 4 5 7 10 20 25 30]\n")
	assert.Contains(t, out, "Keys: [3 4 5 10 25 30]\n")

	out, _, err = runCommand(t, "", "demo", "--steps")
	require.NoError(t, err)
	assert.Contains(t, out, "insert 25:")
	assert.Contains(t, out, "remove 1:")
}

func TestVerboseLogging(t *testing.T) {
	t.Parallel()

	_, stderr, err := runCommand(t, "1 2 2", "-v", "sort", "-")
	require.NoError(t, err)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "duplicates=1")
	assert.Contains(t, stderr, "service=rbset")

	_, stderr, err = runCommand(t, "1 2 2", "sort", "-")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestConfigInit(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "node_radius: 20")

	path := filepath.Join(t.TempDir(), ".rbset.yaml")

	_, _, err = runCommand(t, "", "config", "init", path)
	require.NoError(t, err)

	_, _, err = runCommand(t, "", "config", "init", path)
	require.ErrorIs(t, err, commands.ErrConfigExists)

	_, _, err = runCommand(t, "", "config", "init", "--force", path)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(strings.NewReader(""), &stdout, &stderr)
	cmd.SetArgs([]string{"--config", path, "config", "show"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, out, stdout.String())
}

func TestMissingConfig(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	cmd := commands.NewRootCommand(strings.NewReader(""), &stdout, &stderr)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "version"})
	require.Error(t, cmd.Execute())
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "rbset "), out)
}
