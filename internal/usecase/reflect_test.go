package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemag/internal/adapter/fs"
	"codemag/internal/domain"
)

const userPHP = `<?php
namespace App;

class User extends Model {
    public function getName() {
        return $this->name;
    }

    public function getEmail() {
        return $this->email;
    }

    public function save() {
        if ($this->dirty) { $this->persist(); }
    }
}

function helper() {
    return new User();
}
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newReflect(extensions ...string) *ReflectUseCase {
	return NewReflectUseCase(fs.NewWalker(nil), fs.NewContentReader(nil), extensions)
}

func TestListFilesAndFunctions(t *testing.T) {
	root := newProject(t, map[string]string{
		"src/User.php": userPHP,
		"notes.txt":    "function notCode() {}",
	})
	uc := newReflect(".php")

	files, err := uc.ScanFiles(root)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "src/User.php")}, files)

	names, err := uc.ListFunctions(files[0], "", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"getName", "getEmail", "save", "helper"}, names)

	names, err = uc.ListFunctions(files[0], "get", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"getName", "getEmail"}, names)

	classes, err := uc.ListClasses(files[0], nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"User"}, classes)
}

func TestNameFilter(t *testing.T) {
	root := newProject(t, map[string]string{"User.php": userPHP})
	uc := newReflect(".php")
	path := filepath.Join(root, "User.php")

	filter, err := NewNameFilter("*Name")
	require.NoError(t, err)
	names, err := uc.ListFunctions(path, "", filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"getName"}, names)

	filter, err = NewNameFilter("{save,helper}")
	require.NoError(t, err)
	names, err = uc.ListFunctions(path, "", filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"save", "helper"}, names)

	none, err := NewNameFilter("")
	require.NoError(t, err)
	assert.Nil(t, none)
	assert.True(t, none.Match("anything"))

	_, err = NewNameFilter("[unclosed")
	assert.Error(t, err)
}

func TestFetchBody(t *testing.T) {
	root := newProject(t, map[string]string{
		"User.php":   userPHP,
		"Broken.php": "<?php function half() { if (1) {",
	})
	uc := newReflect(".php")

	got, err := uc.FetchBody(filepath.Join(root, "User.php"), domain.Target{Kind: domain.KindFunction, Name: "save"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFound, got.Status)
	assert.Equal(t, "function save() {\n        if ($this->dirty) { $this->persist(); }\n    }", got.Text)

	got, err = uc.FetchBody(filepath.Join(root, "User.php"), domain.Target{Kind: domain.KindFunction, Name: "missing"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotFound, got.Status)

	got, err = uc.FetchBody(filepath.Join(root, "Broken.php"), domain.Target{Kind: domain.KindFunction, Name: "half"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMalformed, got.Status)
	assert.Empty(t, got.Text)
}

func TestUnreadableFileIsEmpty(t *testing.T) {
	uc := newReflect(".php")

	names, err := uc.ListFunctions(filepath.Join(t.TempDir(), "gone.php"), "", nil)
	require.NoError(t, err)
	assert.Empty(t, names)

	got, err := uc.FetchBody(filepath.Join(t.TempDir(), "gone.php"), domain.Target{Kind: domain.KindClass, Name: "X"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNotFound, got.Status)
}

func TestUnsupportedLanguage(t *testing.T) {
	uc := newReflect(".py")

	_, err := uc.ListFunctions("/tmp/script.py", "", nil)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
	assert.Contains(t, err.Error(), ".php")
	assert.Contains(t, err.Error(), ".js")

	_, err = uc.Identifiers("/tmp/script.py")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestOutline(t *testing.T) {
	root := newProject(t, map[string]string{
		"a/User.php":    userPHP,
		"b/helpers.php": "<?php\nfunction one() {}\nfunction two() {}\n",
		"c/app.js":      "class App {}\nfunction start() {}\n",
		"d/tool.py":     "def x(): pass\n",
		"e/empty.php":   "",
	})
	uc := newReflect(".php", ".js", ".py")

	var mu sync.Mutex
	var calls []int
	result, err := NewOutlineUseCase(uc, 3).Outline(context.Background(), root, func(processed, total int, _ string) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 5, total)
		calls = append(calls, processed)
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 4)
	assert.Equal(t, filepath.Join(root, "a/User.php"), result.Files[0].Path)
	assert.Equal(t, "php", result.Files[0].Lang)
	assert.Equal(t, filepath.Join(root, "b/helpers.php"), result.Files[1].Path)
	assert.Equal(t, "javascript", result.Files[2].Lang)
	assert.NotNil(t, result.Files[3].Identifiers)
	assert.Empty(t, result.Files[3].Identifiers)

	assert.Equal(t, []domain.SourceFile{{Path: filepath.Join(root, "d/tool.py")}}, result.Skipped)
	assert.Equal(t, 5+2+2, result.Identifiers)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, calls)

	first := result.Files[0].Identifiers[0]
	assert.Equal(t, domain.Identifier{Name: "User", Kind: domain.KindClass, Offset: 22, Line: 4}, first)
}

func TestOutlineDeterministicAcrossWorkerCounts(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"k", "b", "x", "a", "m", "q", "c"} {
		files[name+"/"+name+".php"] = "<?php function " + name + "() {}"
	}
	root := newProject(t, files)
	uc := newReflect(".php")

	one, err := NewOutlineUseCase(uc, 1).Outline(context.Background(), root, nil)
	require.NoError(t, err)
	many, err := NewOutlineUseCase(uc, 8).Outline(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, one, many)
}

func TestOutlineCancelled(t *testing.T) {
	root := newProject(t, map[string]string{"a.php": "<?php function a() {}"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOutlineUseCase(newReflect(".php"), 2).Outline(ctx, root, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutlineMissingRoot(t *testing.T) {
	_, err := NewOutlineUseCase(newReflect(".php"), 2).Outline(context.Background(), "/does/not/exist", nil)
	assert.ErrorIs(t, err, fs.ErrRootUnreadable)
}

func TestScanFiles(t *testing.T) {
	uc := newReflect(".php")

	files, err := uc.ScanFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = uc.ScanFiles(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, fs.ErrRootUnreadable)
}
