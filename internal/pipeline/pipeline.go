// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one composition: load, validate, select, project,
// merge and write. Every run starts from the files on disk and carries no
// state into the next.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/internal/compose"
	"github.com/pdiddy/cv-builder/internal/loader"
	"github.com/pdiddy/cv-builder/internal/schemas"
	"github.com/pdiddy/cv-builder/internal/validate"
	"github.com/pdiddy/cv-builder/pkg/types"
)

// Result describes a completed run.
type Result struct {
	Profile  *types.Profile
	Items    int
	Stats    []compose.SectionStat
	Document *types.Document

	// OutputPath is where the document was written; empty for validate-only runs.
	OutputPath string
}

// Run composes the CV for profileName under cfg.BaseDir and writes it.
// Progress goes to w. Validation failures come back as
// *types.ValidationError and leave the output path untouched; so does any
// other failure before the final rename.
func Run(ctx context.Context, cfg types.BuildConfig, profileName string, w io.Writer) (*Result, error) {
	log := slog.Default().With("profile", profileName)
	l := loader.New(cfg.BaseDir, loader.WithItemsGlob(cfg.ItemsGlob), loader.WithLogger(log))

	fmt.Fprintf(w, "Loading items from %s...\n", l.ItemsDir())
	items, err := l.LoadItems()
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Loaded %d items\n", len(items))

	fmt.Fprintln(w, "Validating items...")
	if errs := validate.Items(items); len(errs) > 0 {
		return nil, &types.ValidationError{Stage: types.StageItems, Messages: errs}
	}
	fmt.Fprintln(w, "All items valid")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "\nLoading profile '%s'...\n", profileName)
	profile, err := l.LoadProfile(profileName)
	if err != nil {
		return nil, err
	}

	available := byID(items)
	fmt.Fprintln(w, "Validating profile...")
	if errs := validate.Profile(profile, available); len(errs) > 0 {
		return nil, &types.ValidationError{Stage: types.StageProfile, Messages: errs}
	}
	fmt.Fprintln(w, "Profile valid")

	result := &Result{Profile: profile, Items: len(items)}
	if cfg.ValidateOnly {
		fmt.Fprintln(w, "\nValidation complete. No output generated.")
		return result, nil
	}

	// Contract problems surface before composition.
	var contract *schemas.Schema
	if cfg.SchemaPath != "" {
		if contract, err = schemas.Load(cfg.SchemaPath); err != nil {
			return nil, err
		}
	}

	fmt.Fprintf(w, "\nLoading base file '%s'...\n", profile.BaseFile)
	base, err := l.LoadBase(profile.BaseFile)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(w, "\nSelecting items for sections...")
	selection := compose.SelectItems(available, profile)
	for _, sel := range selection {
		fmt.Fprintf(w, "  %s: %d items\n", sel.Name, len(sel.Items))
	}

	result.Stats = compose.SectionStats(selection, profile.Locale)
	fmt.Fprintln(w, "\nCharacter count statistics:")
	for _, st := range result.Stats {
		fmt.Fprintf(w, "  %s: %d chars (%d items)\n", st.Name, st.TotalChars, st.ItemCount)
	}

	fmt.Fprintln(w, "\nBuilding sections...")
	sections := compose.BuildSections(selection, profile.Locale)

	fmt.Fprintln(w, "Composing CV...")
	doc, err := compose.ComposeCV(base, sections)
	if err != nil {
		return nil, err
	}
	result.Document = doc

	if contract != nil {
		fmt.Fprintf(w, "Checking output against %s...\n", contract.Path())
		errs, err := contract.Check(doc)
		if err != nil {
			return nil, err
		}
		if len(errs) > 0 {
			return nil, &types.ValidationError{Stage: types.StageOutput, Messages: errs}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := cfg.OutputPath
	if out == "" {
		out = filepath.Join(cfg.BaseDir, profile.OutputFile)
	}
	fmt.Fprintf(w, "\nWriting output to %s...\n", out)
	if err := WriteDocument(out, doc); err != nil {
		return nil, err
	}
	result.OutputPath = out
	log.Debug("wrote document", "path", out, "sections", len(sections))

	fmt.Fprintf(w, "CV successfully generated: %s\n", out)
	return result, nil
}

// byID indexes items by ID. Validation has already rejected duplicates.
func byID(items []*types.Item) map[string]*types.Item {
	m := make(map[string]*types.Item, len(items))
	for _, it := range items {
		if _, ok := m[it.ID]; !ok {
			m[it.ID] = it
		}
	}
	return m
}

// WriteDocument encodes doc as YAML and replaces path atomically, creating
// parent directories as needed.
func WriteDocument(path string, doc *types.Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
