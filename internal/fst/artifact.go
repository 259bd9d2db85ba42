package fst

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// compileGroup coalesces concurrent first-time compiles of the same grammar,
// so N goroutines constructing extractors pay for one compilation.
var compileGroup singleflight.Group

// artifactName returns the cache file name for a language + content hash.
func artifactName(lang, hash string) string {
	short := hash
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("timenlu-%s-%s.fst", lang, short)
}

// LoadOrCompile returns the compiled grammar for rs, loading the cached
// artifact from cacheDir when its content hash matches and recompiling (and
// rewriting the artifact) otherwise. An empty cacheDir compiles in memory
// without touching disk. overwrite forces recompilation.
func LoadOrCompile(cacheDir, lang string, rs *RuleSet, overwrite bool) (*Grammar, error) {
	key := fmt.Sprintf("%s|%s|%v", cacheDir, lang, overwrite)
	v, err, _ := compileGroup.Do(key, func() (any, error) {
		return loadOrCompile(cacheDir, lang, rs, overwrite)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Grammar), nil
}

func loadOrCompile(cacheDir, lang string, rs *RuleSet, overwrite bool) (*Grammar, error) {
	hash := fingerprint(rs)

	if cacheDir != "" && !overwrite {
		path := filepath.Join(cacheDir, artifactName(lang, hash))
		if g, err := loadArtifact(path); err == nil {
			if g.Hash == hash && g.Version == rs.Version {
				slog.Info("grammar artifact loaded", "language", lang, "path", path)
				return g, nil
			}
			slog.Info("grammar artifact stale, recompiling", "language", lang, "path", path)
		} else if !os.IsNotExist(errors.Cause(err)) {
			slog.Debug("grammar artifact unreadable, recompiling", "language", lang, "error", err)
		}
	}

	g, err := Compile(rs)
	if err != nil {
		return nil, errors.Wrap(err, "fst: compile grammar")
	}
	slog.Info("grammar compiled", "language", lang, "rules", len(g.Rules), "hash", g.Hash[:8])

	if cacheDir != "" {
		path := filepath.Join(cacheDir, artifactName(lang, hash))
		if err := saveArtifact(path, g); err != nil {
			// 缓存写失败不致命，下次启动重新编译即可
			slog.Error("grammar artifact write failed", "path", path, "error", err)
		}
	}
	return g, nil
}

func loadArtifact(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	var g Grammar
	if err := gob.NewDecoder(f).Decode(&g); err != nil {
		return nil, errors.Wrapf(err, "fst: decode artifact %s", path)
	}
	g.buildIndexes()
	return &g, nil
}

// saveArtifact writes the artifact atomically: encode to a temp file in the
// same directory, then rename over the destination.
func saveArtifact(path string, g *Grammar) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "fst: create cache dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "fst: create temp artifact")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := gob.NewEncoder(tmp).Encode(g); err != nil {
		tmp.Close()
		return errors.Wrap(err, "fst: encode artifact")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "fst: close temp artifact")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "fst: rename artifact")
	}
	return nil
}
