// Package synth turns one organisation's published crate versions into
// the in-memory Git tree a registry fetch serves: a config.json at the
// root plus one sharded index file per crate.
package synth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/privcrate/registry/internal/gitpack/object"
	"github.com/privcrate/registry/internal/gitpack/repo"
	"github.com/privcrate/registry/internal/registry/database"
)

// CargoConfig is the config.json written to the root of every
// synthesized repository.
type CargoConfig struct {
	DL  string `json:"dl"`
	API string `json:"api"`
}

// NewCargoConfig builds the config.json payload for one organisation,
// pointing the package manager back at the HTTP API under webBase.
func NewCargoConfig(webBase, authKey, organisation string) CargoConfig {
	base := strings.TrimRight(webBase, "/") + "/a/" + authKey + "/o/" + organisation
	return CargoConfig{
		DL:  base + "/api/v1/crates",
		API: base,
	}
}

// Build inserts config.json and every crate's sharded index file into
// b and returns the resulting commit.
func Build(b *repo.Builder, cfg CargoConfig, feeds []database.CrateFeed, author, committer *object.Signature, message string) ([20]byte, []object.Encoded, error) {
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return [20]byte{}, nil, fmt.Errorf("synth: marshal config.json: %w", err)
	}
	if err := b.Insert(nil, "config.json", configJSON); err != nil {
		return [20]byte{}, nil, fmt.Errorf("synth: insert config.json: %w", err)
	}

	sorted := make([]database.CrateFeed, len(feeds))
	copy(sorted, feeds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, feed := range sorted {
		content, err := renderIndexFile(feed)
		if err != nil {
			return [20]byte{}, nil, fmt.Errorf("synth: render index for %s: %w", feed.Name, err)
		}
		if err := b.Insert(repo.CrateFolder(feed.Name), feed.Name, content); err != nil {
			return [20]byte{}, nil, fmt.Errorf("synth: insert %s: %w", feed.Name, err)
		}
	}

	return b.Commit(author, committer, message)
}

// renderIndexFile renders a crate's versions as the newline-terminated
// concatenation of one JSON object per version, in the order feed
// already carries them (ascending version, as returned by the store).
func renderIndexFile(feed database.CrateFeed) ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range feed.Versions {
		line, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
