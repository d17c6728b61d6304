package synth

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privcrate/registry/internal/gitpack/object"
	"github.com/privcrate/registry/internal/gitpack/repo"
	"github.com/privcrate/registry/internal/registry/database"
)

func TestNewCargoConfig(t *testing.T) {
	cfg := NewCargoConfig("https://127.0.0.1:1234", "my-api-key", "my-organisation")
	assert.Equal(t, "https://127.0.0.1:1234/a/my-api-key/o/my-organisation/api/v1/crates", cfg.DL)
	assert.Equal(t, "https://127.0.0.1:1234/a/my-api-key/o/my-organisation", cfg.API)
}

func TestNewCargoConfigTrimsTrailingSlash(t *testing.T) {
	cfg := NewCargoConfig("https://example.com/", "key", "org")
	assert.Equal(t, "https://example.com/a/key/o/org", cfg.API)
}

func sig() *object.Signature {
	return &object.Signature{Name: "Registry Bot", Email: "bot@example.com", When: time.Unix(1700000000, 0)}
}

func TestBuildSingleCrateLayout(t *testing.T) {
	b := repo.NewBuilder()
	feeds := []database.CrateFeed{
		{
			Name: "serde",
			Versions: []database.CrateVersion{
				{Name: "serde", Vers: "1.0.0", Deps: []database.CrateDependency{}, Features: database.CrateFeatures{}, Cksum: "abc", Yanked: false},
			},
		},
	}

	cfg := NewCargoConfig("https://example.com", "key", "myorg")
	commitID, objects, err := Build(b, cfg, feeds, sig(), sig(), "synced crate index")
	require.NoError(t, err)
	assert.NotEqual(t, [20]byte{}, commitID)
	// config.json blob, serde blob, se/rd tree, se tree, root tree, commit.
	assert.Len(t, objects, 6)
}

func TestBuildEmptyOrgStillProducesConfigAndCommit(t *testing.T) {
	b := repo.NewBuilder()
	cfg := NewCargoConfig("https://example.com", "key", "emptyorg")
	commitID, objects, err := Build(b, cfg, nil, sig(), sig(), "synced crate index")
	require.NoError(t, err)
	assert.NotEqual(t, [20]byte{}, commitID)
	// config.json blob, root tree, commit.
	assert.Len(t, objects, 3)
}

func TestRenderIndexFileOneJSONObjectPerLine(t *testing.T) {
	feed := database.CrateFeed{
		Name: "tokio",
		Versions: []database.CrateVersion{
			{Name: "tokio", Vers: "1.0.0", Cksum: "a"},
			{Name: "tokio", Vers: "1.1.0", Cksum: "b"},
		},
	}
	content, err := renderIndexFile(feed)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(content, "\n"), []byte("\n"))
	require.Len(t, lines, 2)

	var first database.CrateVersion
	require.NoError(t, json.Unmarshal(lines[0], &first))
	assert.Equal(t, "1.0.0", first.Vers)
}
