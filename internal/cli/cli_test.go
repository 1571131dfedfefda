package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemag/internal/adapter/fs"
	"codemag/internal/usecase"
)

const userPHP = `<?php
class User {
    public function getName() { return $this->name; }
    public function getEmail() { return $this->email; }
    public function save() {
        if ($this->dirty) { $this->db->write($this); }
    }
}
`

// resetFlags restores every flag to its default so commands can run more
// than once in the same process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func setupProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "User.php"), []byte(userPHP), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("function nope() {}"), 0644))
	return root
}

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--dir", root}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFilesCommand(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "files")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "User.php")+"\n", out)

	out, err = run(t, root, "files", "--ext", ".txt", "--json")
	require.NoError(t, err)
	var files []string
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	assert.Equal(t, []string{filepath.Join(root, "notes.txt")}, files)
}

func TestFilesCommandMissingRoot(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "files", filepath.Join(root, "nope"))
	assert.ErrorIs(t, err, fs.ErrRootUnreadable)
	assert.NotContains(t, out, "No files found.")

	out, err = run(t, root, "outline", filepath.Join(root, "nope"), "--no-progress")
	assert.ErrorIs(t, err, fs.ErrRootUnreadable)
	assert.Empty(t, out)
}

func TestFunctionsCommand(t *testing.T) {
	root := setupProject(t)
	path := filepath.Join(root, "User.php")

	out, err := run(t, root, "functions", path)
	require.NoError(t, err)
	assert.Equal(t, "getName\ngetEmail\nsave\n", out)

	out, err = run(t, root, "functions", path, "--prefix", "get")
	require.NoError(t, err)
	assert.Equal(t, "getName\ngetEmail\n", out)

	out, err = run(t, root, "functions", path, "--match", "*Email")
	require.NoError(t, err)
	assert.Equal(t, "getEmail\n", out)

	out, err = run(t, root, "functions", path, "--prefix", "zzz")
	require.NoError(t, err)
	assert.Equal(t, "No match found.\n", out)
}

func TestClassesCommand(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "classes", filepath.Join(root, "User.php"), "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `["User"]`, out)
}

func TestBodyCommand(t *testing.T) {
	root := setupProject(t)
	path := filepath.Join(root, "User.php")

	out, err := run(t, root, "body", path, "--function", "save")
	require.NoError(t, err)
	assert.Equal(t, "function save() {\n        if ($this->dirty) { $this->db->write($this); }\n    }\n", out)

	_, err = run(t, root, "body", path, "-f", "delete")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = run(t, root, "body", path, "-f", "save", "-c", "User")
	assert.Error(t, err)

	_, err = run(t, root, "body", path)
	assert.Error(t, err)
}

func TestBodyCommandJSON(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "body", filepath.Join(root, "User.php"), "-c", "User", "--json")
	require.NoError(t, err)

	var result struct {
		Status string `json:"status"`
		Text   string `json:"text"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "found", result.Status)
	assert.Equal(t, userPHP[len("<?php\n"):len(userPHP)-1], result.Text)
}

func TestOutlineCommand(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "outline", "--json", "--no-progress")
	require.NoError(t, err)

	var result usecase.OutlineResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Files, 1)
	assert.Equal(t, 4, result.Identifiers)
	assert.Equal(t, "User", result.Files[0].Identifiers[0].Name)
	assert.Equal(t, 5, result.Files[0].Identifiers[3].Line)
}

func TestConfigCommands(t *testing.T) {
	root := setupProject(t)

	out, err := run(t, root, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "codemag.yaml")
	assert.FileExists(t, filepath.Join(root, "codemag.yaml"))

	_, err = run(t, root, "config", "init")
	assert.Error(t, err)

	_, err = run(t, root, "config", "init", "--force")
	assert.NoError(t, err)

	out, err = run(t, root, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, ".php")
}

func TestConfigInitDotDir(t *testing.T) {
	root := setupProject(t)

	_, err := run(t, root, "config", "init", "--dot-dir")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, ".codemag", "config.yaml"))
	assert.NoFileExists(t, filepath.Join(root, "codemag.yaml"))

	out, err := run(t, root, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "workers: 4")
}

func TestUnsupportedLanguageListsExtensions(t *testing.T) {
	root := setupProject(t)

	_, err := run(t, root, "functions", filepath.Join(root, "notes.txt"))
	assert.ErrorIs(t, err, usecase.ErrUnsupportedLanguage)
	assert.ErrorContains(t, err, ".php")
}

func TestWatchStopsWhenCancelled(t *testing.T) {
	root := setupProject(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	watchCmd.SetContext(ctx)
	t.Cleanup(func() { watchCmd.SetContext(context.Background()) })

	out, err := run(t, root, "watch")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Stopped.\n"), "unexpected output %q", out)
}

func TestInvalidLogLevel(t *testing.T) {
	root := setupProject(t)

	_, err := run(t, root, "--log-level", "loud", "files")
	assert.Error(t, err)
}
