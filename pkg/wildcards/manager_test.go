package wildcards_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-promptgen/pkg/generators"
	"github.com/goliatone/go-promptgen/pkg/wildcards"
)

func writeFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
}

// fixtureTree builds <tmp>/wildcards with sibling collections and an outside
// file that traversal must never reach.
func fixtureTree(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "wildcards")
	writeFile(t, filepath.Join(root, "colors-cold.txt"), "blue", "green", "# comment", "")
	writeFile(t, filepath.Join(root, "colors-warm.txt"), "  red ", "yellow", "red")
	writeFile(t, filepath.Join(root, "variant.txt"), "{a|b}")
	writeFile(t, filepath.Join(root, "animals", "mystical.txt"), "dragon", "unicorn")
	writeFile(t, filepath.Join(root, "animals", "mammals", "canine.txt"), "dog", "wolf")
	writeFile(t, filepath.Join(root, "animals", "mammals", "feline.txt"), "cat", "lion")
	writeFile(t, filepath.Join(root, "flavors", "sour.txt"), "grapefruit", "lemon")
	writeFile(t, filepath.Join(root, "flavors", "sweet.txt"), "chocolate", "strawberry", "vanilla")
	writeFile(t, filepath.Join(base, "cant_touch_this.txt"), "secret")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "collections", "derp"), 0o755))
	return root
}

func TestManager_IsWildcardAndWrap(t *testing.T) {
	m := wildcards.New(t.TempDir())

	assert.True(t, m.IsWildcard("__test__"))
	assert.False(t, m.IsWildcard("test"))
	assert.False(t, m.IsWildcard("__"))
	assert.Equal(t, "__test__", m.Wrap("test"))
	assert.Equal(t, "__test__", m.Wrap("__test__"))

	custom := wildcards.New("", wildcards.WithWrap("%%"))
	assert.Equal(t, "%%", custom.WildcardWrap())
	assert.True(t, custom.IsWildcard("%%x%%"))
}

func TestManager_AllValues(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	assert.Equal(t, []string{"blue", "green", "red", "yellow"}, m.AllValues("color*"))
	assert.Equal(t, []string{"chocolate", "grapefruit", "lemon", "strawberry", "vanilla"}, m.AllValues("flavors/*"))
	assert.Equal(t, []string{"cat", "lion"}, m.AllValues("__animals/mammals/feline__"))
	assert.Equal(t, []string{"cat", "lion"}, m.AllValues("mammals/feline"), "patterns match at any depth")
	assert.Len(t, m.AllValues(`flavors\*`), 5, "backslashes are normalized")
}

func TestManager_MissingWildcard(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	assert.Empty(t, m.MatchFiles("__invalid_wildcard__"))
	assert.Empty(t, m.AllValues("__invalid_wildcard__"))
	assert.Empty(t, m.AllValues("[bad"), "malformed patterns match nothing")
}

func TestManager_DirectoryTraversal(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	assert.Empty(t, m.AllValues("../cant_touch_this"))
	assert.Empty(t, m.AllValues(`..\cant_touch_this`))

	_, err := m.ToWildcard("../cant_touch_this")
	assert.ErrorIs(t, err, wildcards.ErrInvalidWildcard)
}

func TestClean(t *testing.T) {
	for _, bad := range []string{"/foo", `\foo`, "foo/../bar", ""} {
		_, err := wildcards.Clean(bad, wildcards.DefaultWrap)
		assert.ErrorIs(t, err, wildcards.ErrInvalidWildcard, bad)
	}

	name, err := wildcards.Clean(`__flavors\sweet__`, wildcards.DefaultWrap)
	require.NoError(t, err)
	assert.Equal(t, "flavors/sweet", name)
}

func TestManager_ToWildcard(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	def, err := m.ToWildcard(" colors-cold ")
	require.NoError(t, err)
	assert.Equal(t, generators.WildcardDefinition{Name: "colors-cold", Ref: "__colors-cold__"}, def)
}

func TestManager_Paths(t *testing.T) {
	root := fixtureTree(t)
	m := wildcards.New(root)
	mystical := filepath.Join(root, "animals", "mystical.txt")

	name, err := m.PathToWildcardWithoutSeparators(mystical)
	require.NoError(t, err)
	assert.Equal(t, "animals/mystical", name)

	wrapped, err := m.PathToWildcard(mystical)
	require.NoError(t, err)
	assert.Equal(t, "__animals/mystical__", wrapped)

	p, err := m.WildcardToPath("__animals/mystical__")
	require.NoError(t, err)
	assert.Equal(t, mystical, p)

	_, err = m.PathToWildcard(filepath.Join(filepath.Dir(root), "cant_touch_this.txt"))
	assert.ErrorIs(t, err, wildcards.ErrInvalidWildcard)

	_, err = wildcards.New("").WildcardToPath("x")
	assert.ErrorIs(t, err, wildcards.ErrNoRoot)
}

func TestManager_FilesAndWildcards(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	files, err := m.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"animals/mammals/canine.txt",
		"animals/mammals/feline.txt",
		"animals/mystical.txt",
		"colors-cold.txt",
		"colors-warm.txt",
		"flavors/sour.txt",
		"flavors/sweet.txt",
		"variant.txt",
	}, files)

	assert.Equal(t, []string{
		"__animals/mammals/canine__",
		"__animals/mammals/feline__",
		"__animals/mystical__",
		"__colors-cold__",
		"__colors-warm__",
		"__flavors/sour__",
		"__flavors/sweet__",
		"__variant__",
	}, m.Wildcards())
}

func TestManager_MissingRoot(t *testing.T) {
	m := wildcards.New(filepath.Join(t.TempDir(), "absent"))

	files, err := m.Files()
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, m.Wildcards())

	require.NoError(t, m.EnsureDirectory())
	info, err := os.Stat(m.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestManager_Hierarchy(t *testing.T) {
	m := wildcards.New(fixtureTree(t))

	got, err := m.Hierarchy()
	require.NoError(t, err)

	want := wildcards.Hierarchy{
		Wildcards: []string{"__colors-cold__", "__colors-warm__", "__variant__"},
		Children: map[string]wildcards.Hierarchy{
			"animals": {
				Wildcards: []string{"__animals/mystical__"},
				Children: map[string]wildcards.Hierarchy{
					"mammals": {
						Wildcards: []string{"__animals/mammals/canine__", "__animals/mammals/feline__"},
						Children:  map[string]wildcards.Hierarchy{},
					},
				},
			},
			"flavors": {
				Wildcards: []string{"__flavors/sour__", "__flavors/sweet__"},
				Children:  map[string]wildcards.Hierarchy{},
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestManager_Collections(t *testing.T) {
	root := fixtureTree(t)
	m := wildcards.New(root)

	names, err := m.Collections()
	require.NoError(t, err)
	assert.Equal(t, []string{"derp"}, names)

	dirs, err := m.CollectionDirs()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"derp": filepath.Join(filepath.Dir(root), "collections", "derp")}, dirs)
}

func TestManager_StructuredFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "styles.yaml"),
		"painting:",
		"  - oil",
		"  - watercolor",
		"photo:",
		"  - portrait",
	)
	writeFile(t, filepath.Join(root, "moods.json"), `["calm", "tense", 3]`)
	m := wildcards.New(root)

	assert.Equal(t, []string{"oil", "watercolor"}, m.AllValues("styles/painting"))
	assert.Equal(t, []string{"oil", "portrait", "watercolor"}, m.AllValues("styles/*"))
	assert.Equal(t, []string{"3", "calm", "tense"}, m.AllValues("moods"))
	assert.Equal(t, []string{"__moods__", "__styles/painting__", "__styles/photo__"}, m.Wildcards())
}

func TestManager_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated privileges on windows")
	}

	base := t.TempDir()
	outside := filepath.Join(base, "outside")
	writeFile(t, filepath.Join(outside, "wilderness.txt"), "plants", "forest", "flowers", "sunshine")

	root := filepath.Join(base, "wildcards")
	writeFile(t, filepath.Join(root, "animals", "internet.txt"), "doggo", "catto", "otto")
	writeFile(t, filepath.Join(root, "animals", "cool.txt"), "cool bear", "cool penguin")
	require.NoError(t, os.Symlink(filepath.Join(root, "animals", "internet.txt"), filepath.Join(root, "friendos.txt")))
	require.NoError(t, os.Symlink(filepath.Join("animals", "cool.txt"), filepath.Join(root, "wow_polar.txt")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "wilderness.txt"), filepath.Join(root, "wild.txt")))

	m := wildcards.New(root)
	var names []string
	for _, f := range m.MatchFiles("*") {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"animals/cool", "animals/internet", "friendos", "wild", "wow_polar"}, names)

	assert.Equal(t, m.AllValues("animals/internet"), m.AllValues("friendos"))
	assert.ElementsMatch(t, []string{"plants", "forest", "flowers", "sunshine"}, m.AllValues("wild"))
	assert.Empty(t, m.AllValues("../outside/wilderness"))

	require.NoError(t, os.Symlink(outside, filepath.Join(root, "wildly")))
	writeFile(t, filepath.Join(root, "wildly", "wilder.txt"), "whoa!!!")
	assert.ElementsMatch(t, []string{"plants", "forest", "flowers", "sunshine", "whoa!!!"}, m.AllValues("wildly/*"))

	// A link back to an ancestor must not loop.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "animals", "loop")))
	_, err := m.Files()
	require.NoError(t, err)
}

func TestManager_ReloadsChangedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "colors.txt")
	writeFile(t, path, "red")
	m := wildcards.New(root)
	require.Equal(t, []string{"red"}, m.AllValues("colors"))

	writeFile(t, path, "red", "blue")
	m.Invalidate()
	assert.Equal(t, []string{"blue", "red"}, m.AllValues("colors"))
}

func TestManager_WatchInvalidates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "colors.txt"), "red")

	changed := make(chan string, 16)
	m := wildcards.New(root, wildcards.WithChangeHook(func(path string) {
		select {
		case changed <- path:
		default:
		}
	}))
	require.Equal(t, []string{"red"}, m.AllValues("colors"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	// Give the watcher time to register the root before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		writeFile(t, filepath.Join(root, "shapes.txt"), "circle")
		select {
		case <-changed:
		case <-tick.C:
			continue
		case <-deadline:
			cancel()
			t.Fatalf("watcher never reported a change")
		}
		break
	}

	assert.Equal(t, []string{"circle"}, m.AllValues("shapes"))
	cancel()
	require.NoError(t, <-done)
}
