package modhost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSpaceResolvesRegisteredConstructor(t *testing.T) {
	catalog := NewConstructorCatalog()
	rec := &hookRecorder{}
	catalog.Register("test.alpha.Main", func() Module { return &recordingModule{id: "alpha", rec: rec} })

	ls := NewLoadSpace(nil, catalog)

	ctor, err := ls.Resolve("test.alpha.Main")
	require.NoError(t, err)
	ctor().OnLoad()
	assert.Equal(t, []string{"alpha:load"}, rec.recorded())
}

func TestLoadSpaceRejectsUnknownMainEntry(t *testing.T) {
	ls := NewLoadSpace(nil, NewConstructorCatalog())

	_, err := ls.Resolve("test.missing.Main")
	assert.ErrorIs(t, err, ErrInvalidMainEntry)
}

func TestLoadSpaceIsImmutableAfterConstruction(t *testing.T) {
	catalog := NewConstructorCatalog()
	ls := NewLoadSpace(nil, catalog)

	// Constructors registered after the pass must not leak into it.
	catalog.Register("test.late.Main", func() Module { return &recordingModule{rec: &hookRecorder{}} })

	_, err := ls.Resolve("test.late.Main")
	assert.ErrorIs(t, err, ErrInvalidMainEntry)
}

func TestLoadSpaceSpansAllCandidatePackages(t *testing.T) {
	dir := t.TempDir()
	good := writeModulePackage(t, dir, "good.modpkg", map[string]string{
		manifestEntry: manifestJSON("good", "test.good.Main", ""),
	})
	// No manifest at all; still a load space member.
	broken := writeModulePackage(t, dir, "broken.modpkg", map[string]string{"readme.txt": "not a manifest"})

	goodPkg, err := OpenModulePackage(good)
	require.NoError(t, err)
	defer goodPkg.Close()
	brokenPkg, err := OpenModulePackage(broken)
	require.NoError(t, err)
	defer brokenPkg.Close()

	ls := NewLoadSpace([]*ModulePackage{goodPkg, brokenPkg}, NewConstructorCatalog())
	assert.Equal(t, []string{"broken", "good"}, ls.Members())
}
