// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package charcount maintains the per-item character-count cache kept in
// sidecar files next to item sources:
//
//	work_experience/acme.yaml -> work_experience/.metadata/acme.yaml
//
// The cache records which source it was computed from so staleness can be
// detected. It is advisory; validation and composition never read it.
package charcount

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/pkg/types"
)

// MetadataDir is the sidecar directory name inside each item directory.
const MetadataDir = ".metadata"

// now is replaced in tests.
var now = time.Now

// SidecarPath returns the metadata file path for an item file.
func SidecarPath(itemPath string) string {
	return filepath.Join(filepath.Dir(itemPath), MetadataDir, filepath.Base(itemPath))
}

// Load reads the sidecar metadata for an item. A missing sidecar yields empty
// metadata and no error.
func Load(itemPath string) (types.ItemMetadata, error) {
	data, err := os.ReadFile(SidecarPath(itemPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.ItemMetadata{}, nil
		}
		return types.ItemMetadata{}, fmt.Errorf("reading metadata for %s: %w", itemPath, err)
	}
	var md types.ItemMetadata
	if err := yaml.Unmarshal(data, &md); err != nil {
		return types.ItemMetadata{}, fmt.Errorf("parsing metadata for %s: %w", itemPath, err)
	}
	return md, nil
}

// Save writes sidecar metadata, creating the metadata directory if needed.
func Save(itemPath string, md types.ItemMetadata) error {
	path := SidecarPath(itemPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metadata directory: %w", err)
	}
	data, err := yaml.Marshal(&md)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Counts computes the item's character count in every locale.
func Counts(item *types.Item) (map[types.Locale]int, error) {
	payload, err := item.Payload()
	if err != nil {
		return nil, err
	}
	counts := make(map[types.Locale]int, len(types.Locales))
	for _, l := range types.Locales {
		counts[l] = types.CharCount(payload, l)
	}
	return counts, nil
}

func digest(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// Refresh recomputes an item's counts and rewrites its sidecar when the
// counts or the source digest changed. It reports whether it wrote.
func Refresh(itemPath string) (bool, error) {
	data, err := os.ReadFile(itemPath)
	if err != nil {
		return false, fmt.Errorf("reading item: %w", err)
	}
	item, err := types.ParseItem(data)
	if err != nil {
		return false, err
	}
	counts, err := Counts(item)
	if err != nil {
		return false, err
	}

	current, err := Load(itemPath)
	if err != nil {
		return false, err
	}
	sum := digest(data)
	if current.SourceSHA256 == sum && maps.Equal(current.CharCount, counts) {
		return false, nil
	}

	current.CharCount = counts
	current.SourceSHA256 = sum
	current.ComputedAt = now().UTC()
	if err := Save(itemPath, current); err != nil {
		return false, err
	}
	return true, nil
}

// Stale reports whether an item's sidecar is missing or was computed from
// different source content.
func Stale(itemPath string) (bool, error) {
	data, err := os.ReadFile(itemPath)
	if err != nil {
		return false, fmt.Errorf("reading item: %w", err)
	}
	md, err := Load(itemPath)
	if err != nil {
		return false, err
	}
	return md.SourceSHA256 != digest(data), nil
}

// Summary holds counts from a refresh run.
type Summary struct {
	Updated   int
	Unchanged int
	Failed    int
}

// Total returns the number of item files processed.
func (s Summary) Total() int {
	return s.Updated + s.Unchanged + s.Failed
}

// HasFailures reports whether any item failed to refresh.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// RefreshAll refreshes every item in paths, writing one progress line per
// item to w. Paths are printed relative to root when possible. Failures are
// counted and do not stop the run.
func RefreshAll(paths []string, root string, w io.Writer) Summary {
	var summary Summary
	for _, p := range paths {
		name := p
		if rel, err := filepath.Rel(root, p); err == nil {
			name = rel
		}

		updated, err := Refresh(p)
		switch {
		case err != nil:
			fmt.Fprintf(w, "failed    %s: %v\n", name, err)
			summary.Failed++
		case updated:
			fmt.Fprintf(w, "updated   %s\n", name)
			summary.Updated++
		default:
			fmt.Fprintf(w, "unchanged %s\n", name)
			summary.Unchanged++
		}
	}

	fmt.Fprintf(w, "\nupdated: %d, unchanged: %d, failed: %d\n",
		summary.Updated, summary.Unchanged, summary.Failed)
	return summary
}
