package sealbox

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/pkg/errors"
)

const configFilename = "config.json"

// formatVersion is the on-disk repository format version. Bumping it
// is a breaking change; Open refuses to read a config.json from a
// newer or unrecognized version.
const formatVersion = 1

// repoConfig is a repository's fixed, persisted configuration: the
// chunking parameters and format version. Written once at init via
// renameio.WriteFile (config.json and pub_key are the only repo-root
// files, both written before the chunk and name directories exist, so there is no
// concurrent-writer race to guard against with a directory fsync the
// way chunk/name writes need) and read at every Open, so that a
// repository's chunk boundaries stay deterministic across compiled-in
// default changes (spec.md's determinism invariant, §3).
type repoConfig struct {
	FormatVersion int  `json:"format_version"`
	MinSize       uint `json:"min_size"`
	MaxSize       uint `json:"max_size"`
}

func defaultRepoConfig() repoConfig {
	return repoConfig{
		FormatVersion: formatVersion,
		MinSize:       DefaultMinSize,
		MaxSize:       DefaultMaxSize,
	}
}

func writeConfig(dir string, cfg repoConfig) error {
	buf, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling repository config")
	}
	return renameio.WriteFile(filepath.Join(dir, configFilename), buf, 0o644)
}

func readConfig(dir string) (repoConfig, error) {
	buf, err := ioutil.ReadFile(filepath.Join(dir, configFilename))
	if os.IsNotExist(err) {
		return repoConfig{}, &RepoMalformedError{Dir: dir, Reason: "missing config.json"}
	}
	if err != nil {
		return repoConfig{}, &RepoMalformedError{Dir: dir, Reason: err.Error()}
	}
	var cfg repoConfig
	if err := json.Unmarshal(buf, &cfg); err != nil {
		return repoConfig{}, &RepoMalformedError{Dir: dir, Reason: "malformed config.json: " + err.Error()}
	}
	if cfg.FormatVersion != formatVersion {
		return repoConfig{}, &RepoMalformedError{Dir: dir, Reason: "unsupported format version"}
	}
	return cfg, nil
}
