package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/dialect/surface"
	"github.com/dekarrin/pegboot/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topLevelSrc = `top:
| e=pair { e }

pair:
| "a" "b"
`

// Test_Store_PutGetBuild verifies the registry round trip: a grammar stored
// with Put comes back unchanged from Get, and the parser Build restores
// from its snapshot accepts "ab" and rejects "ac".
func Test_Store_PutGetBuild(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "grammars.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(ctx, "demo.ab", DialectSurface, topLevelSrc))

	entry, err := s.Get(ctx, "demo.ab")
	require.NoError(t, err)
	assert.Equal(t, topLevelSrc, entry.Source)
	assert.Equal(t, DialectSurface, entry.Dialect)

	binder := action.NewBinder(surface.Namespace())
	parser, err := s.Build(ctx, "demo.ab", binder)
	require.NoError(t, err)

	_, err = parser.Parse(domain.NewText("ab"))
	assert.NoError(t, err)
	_, err = parser.Parse(domain.NewText("ac"))
	assert.Error(t, err)
}

func Test_Store_GetMissing(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "grammars.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Test_Store_BuildWithRawCaptureNamespace exercises the "safe raw capture
// tree" namespace a server would use to parse an untrusted stored
// grammar's actions: no real function ever runs, only RawNode records.
func Test_Store_BuildWithRawCaptureNamespace(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "grammars.db"))
	require.NoError(t, err)
	defer s.Close()

	src := `top:
| a="a" b="b" { pair(a, b) }
`
	require.NoError(t, s.Put(ctx, "demo.pair", DialectSurface, src))

	snap, err := s.Snapshot(ctx, "demo.pair")
	require.NoError(t, err)
	raw := snap.RawGrammar()

	ns, err := RawCaptureNamespace(raw)
	require.NoError(t, err)
	binder := action.NewBinder(ns)

	parser, err := s.Build(ctx, "demo.pair", binder)
	require.NoError(t, err)

	result, err := parser.Parse(domain.NewText("ab"))
	require.NoError(t, err)

	node, ok := result.(RawNode)
	require.True(t, ok)
	assert.Equal(t, "pair", node.Op)
	assert.Len(t, node.Args, 2)
}

func Test_Seed_FromManifest(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	grammarPath := filepath.Join(dir, "ab.bpeg")
	require.NoError(t, os.WriteFile(grammarPath, []byte(topLevelSrc), 0o644))

	manifestPath := filepath.Join(dir, "manifest.toml")
	manifestBody := "[[grammar]]\n" +
		"name = \"demo.ab\"\n" +
		"dialect = \"surface\"\n" +
		"file = \"ab.bpeg\"\n"
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestBody), 0o644))

	s, err := Open(filepath.Join(dir, "grammars.db"))
	require.NoError(t, err)
	defer s.Close()

	n, err := Seed(ctx, s, manifestPath)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.Get(ctx, "demo.ab")
	assert.NoError(t, err)
}
