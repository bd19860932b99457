package candidates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMergesDisjointRaces(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"Governor": [{"candidates": "Ann Smith", "party": "DEM"}]}`)
	b := writeFile(t, dir, "b.json", `{"Senate": [{"candidates": "Bo Lee", "party": "REP"}]}`)

	races := Load([]string{a, b}, nil)

	assert.Equal(t, []string{"Governor", "Senate"}, races.Names())
	gov, err := races.Lookup("Governor")
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "Ann Smith", Party: "DEM"}}, gov)
}

func TestLoadLastFileWinsOnCollision(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.json", `{"Mayor": [{"candidates": "Old", "party": "DEM"}], "Sheriff": []}`)
	b := writeFile(t, dir, "b.json", `{"Mayor": [{"candidates": "New", "party": "REP"}, {"candidates": "Other", "party": "LIB"}]}`)

	races := Load([]string{a, b}, nil)

	mayor, err := races.Lookup("Mayor")
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "New", Party: "REP"}, {Name: "Other", Party: "LIB"}}, mayor)
	assert.Equal(t, []string{"Mayor", "Sheriff"}, races.Names(), "overwritten key keeps its first position")
}

func TestLoadSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", `{"Treasurer": [{"candidates": "Cy", "party": "UNA"}]}`)
	bad := writeFile(t, dir, "bad.json", `{"Treasurer": [`)
	notObject := writeFile(t, dir, "list.json", `[1, 2, 3]`)
	missing := filepath.Join(dir, "missing.json")

	core, logs := observer.New(zapcore.WarnLevel)
	races := Load([]string{bad, good, notObject, missing}, zap.New(core))

	assert.Equal(t, []string{"Treasurer"}, races.Names())
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "Skipping "+bad+" - not a valid JSON file", logs.All()[0].Message)
	assert.Equal(t, "Skipping "+notObject+" - not a valid JSON file", logs.All()[1].Message)
	assert.Equal(t, "Could not load "+missing, logs.All()[2].Message)
	assert.Equal(t, bad, logs.All()[0].ContextMap()["path"])
}

func TestLookupUnknownRace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `{"Governor": []}`)
	store := NewStore([]string{path}, "", nil)

	_, err := store.Lookup("Dogcatcher")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRaceNotFound))

	var empty *Races
	_, err = empty.Lookup("Governor")
	assert.ErrorIs(t, err, ErrRaceNotFound)
}

func TestStoreDiscoversJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"Second": []}`)
	writeFile(t, dir, "a.json", `{"First": []}`)
	writeFile(t, dir, "notes.txt", `{"Ignored": []}`)

	store := NewStore(nil, dir, nil)
	paths, err := store.Paths()
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	races, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, races.Names())
}

func TestParseDuplicateKeysWithinFile(t *testing.T) {
	races, err := Parse([]byte(`{"A": [{"candidates": "x"}], "B": [], "A": [{"candidates": "y"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, races.Names())
	a, err := races.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, "y", a[0].Name)
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"A": []} {"B": []}`))
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}
