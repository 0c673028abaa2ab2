// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupProject writes a minimal modular_cv tree and returns its root.
func setupProject(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	mcv := filepath.Join(base, "modular_cv")

	writeFile(t, filepath.Join(mcv, "cv_items", "work_experience", "acme.yaml"), `id: acme
type: work_experience
priority: 2
data:
  company: {en: Acme, kr: 애크미}
  position: {en: Engineer, kr: 엔지니어}
  start_date: "2020-01"
  end_date: present
  location: {en: Seoul, kr: 서울}
  highlights:
    - {en: Shipped, kr: 출시}
`)
	writeFile(t, filepath.Join(mcv, "cv_items", "work_experience", "globex.yaml"), `id: globex
type: work_experience
priority: 1
data:
  company: {en: Globex, kr: 글로벡스}
  position: {en: Intern, kr: 인턴}
  start_date: "2018-06"
  end_date: "2019-08"
  location: {en: Busan, kr: 부산}
  highlights:
    - {en: Tested, kr: 테스트}
`)
	writeFile(t, filepath.Join(mcv, "cv_items", "projects", "cli.yaml"), `id: cli
type: project
data:
  name: {en: CLI, kr: 도구}
  highlights:
    - {en: Fast, kr: 빠름}
`)
	writeFile(t, filepath.Join(mcv, "profiles", "backend.yaml"), `name: backend
locale: kr
base_file: base.yaml
output_file: output/backend.yaml
sections:
  experience:
    include_ids: [acme, globex]
  projects:
    include_ids: [cli]
    max_items: 1
`)
	writeFile(t, filepath.Join(mcv, "base", "base.yaml"), `cv:
  name: Jane Doe
  sections:
    placeholder: []
design:
  theme: classic
`)
	return base
}

type output struct {
	CV struct {
		Name     string                      `yaml:"name"`
		Sections map[string][]map[string]any `yaml:"sections"`
	} `yaml:"cv"`
	Design map[string]string `yaml:"design"`
}

func readOutput(t *testing.T, path string) output {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out output
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestRunComposesAndWrites(t *testing.T) {
	base := setupProject(t)
	var buf bytes.Buffer

	result, err := Run(context.Background(), types.BuildConfig{BaseDir: base}, "backend", &buf)
	require.NoError(t, err)

	wantPath := filepath.Join(base, "output", "backend.yaml")
	assert.Equal(t, wantPath, result.OutputPath)
	assert.Equal(t, 3, result.Items)
	require.Len(t, result.Stats, 2)
	assert.Equal(t, "experience", result.Stats[0].Name)
	assert.Equal(t, 2, result.Stats[0].ItemCount)

	out := readOutput(t, wantPath)
	assert.Equal(t, "Jane Doe", out.CV.Name)
	assert.Equal(t, "classic", out.Design["theme"])
	assert.NotContains(t, out.CV.Sections, "placeholder")

	exp := out.CV.Sections["experience"]
	require.Len(t, exp, 2)
	assert.Equal(t, "글로벡스", exp[0]["company"], "lower priority first")
	assert.Equal(t, "애크미", exp[1]["company"])
	assert.Equal(t, "present", exp[1]["end_date"])
	assert.Equal(t, []any{"출시"}, exp[1]["highlights"])

	require.Len(t, out.CV.Sections["projects"], 1)
	assert.Equal(t, "도구", out.CV.Sections["projects"][0]["name"])

	assert.Contains(t, buf.String(), "Loaded 3 items")
	assert.Contains(t, buf.String(), "experience: 2 items")
	assert.Contains(t, buf.String(), "CV successfully generated")
}

func TestRunOutputOverride(t *testing.T) {
	base := setupProject(t)
	out := filepath.Join(t.TempDir(), "nested", "cv.yaml")

	result, err := Run(context.Background(), types.BuildConfig{BaseDir: base, OutputPath: out}, "backend", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, out, result.OutputPath)
	assert.FileExists(t, out)
	assert.NoFileExists(t, filepath.Join(base, "output", "backend.yaml"))
}

func TestRunValidateOnly(t *testing.T) {
	base := setupProject(t)
	var buf bytes.Buffer

	result, err := Run(context.Background(), types.BuildConfig{BaseDir: base, ValidateOnly: true}, "backend", &buf)
	require.NoError(t, err)
	assert.Empty(t, result.OutputPath)
	assert.Nil(t, result.Document)
	assert.NoDirExists(t, filepath.Join(base, "output"))
	assert.Contains(t, buf.String(), "No output generated")
}

func TestRunItemValidationFailure(t *testing.T) {
	base := setupProject(t)
	writeFile(t, filepath.Join(base, "modular_cv", "cv_items", "projects", "dup.yaml"), `id: cli
type: project
data:
  name: {en: Dup}
  highlights: []
`)

	_, err := Run(context.Background(), types.BuildConfig{BaseDir: base}, "backend", &bytes.Buffer{})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.StageItems, verr.Stage)
	assert.Equal(t, []string{
		"Duplicate item ID: cli (modular_cv/cv_items/projects/dup.yaml conflicts with modular_cv/cv_items/projects/cli.yaml)",
		"cli.name missing Korean translation",
		"Project 'cli' must have at least one highlight",
	}, verr.Messages)
	assert.NoDirExists(t, filepath.Join(base, "output"))
}

func TestRunProfileValidationFailure(t *testing.T) {
	base := setupProject(t)
	writeFile(t, filepath.Join(base, "modular_cv", "profiles", "broken.yaml"), `name: broken
locale: en
base_file: base.yaml
output_file: output/broken.yaml
sections:
  projects:
    include_ids: [cli, ghost]
`)

	_, err := Run(context.Background(), types.BuildConfig{BaseDir: base}, "broken", &bytes.Buffer{})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.StageProfile, verr.Stage)
	assert.Equal(t, []string{"Profile 'broken' section 'projects' references unknown item: ghost"}, verr.Messages)
	assert.NoFileExists(t, filepath.Join(base, "output", "broken.yaml"))
}

func TestRunNotFound(t *testing.T) {
	base := setupProject(t)

	_, err := Run(context.Background(), types.BuildConfig{BaseDir: base}, "ghost", &bytes.Buffer{})
	var nf *types.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "profile", nf.What)

	writeFile(t, filepath.Join(base, "modular_cv", "profiles", "nobase.yaml"), `name: nobase
locale: en
base_file: missing.yaml
output_file: output/nobase.yaml
sections:
  projects:
    include_ids: [cli]
`)
	_, err = Run(context.Background(), types.BuildConfig{BaseDir: base}, "nobase", &bytes.Buffer{})
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoFileExists(t, filepath.Join(base, "output", "nobase.yaml"))
}

func TestRunSchemaViolationWritesNothing(t *testing.T) {
	base := setupProject(t)
	schema := filepath.Join(t.TempDir(), "cv.schema.yaml")
	writeFile(t, schema, `type: object
properties:
  cv:
    type: object
    required: [email]
`)

	_, err := Run(context.Background(), types.BuildConfig{BaseDir: base, SchemaPath: schema}, "backend", &bytes.Buffer{})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, types.StageOutput, verr.Stage)
	assert.Equal(t, []string{"cv: email is required"}, verr.Messages)
	assert.NoFileExists(t, filepath.Join(base, "output", "backend.yaml"))
}

func TestRunSchemaSatisfied(t *testing.T) {
	base := setupProject(t)
	schema := filepath.Join(t.TempDir(), "cv.schema.json")
	writeFile(t, schema, `{"type": "object", "required": ["cv", "design"]}`)

	result, err := Run(context.Background(), types.BuildConfig{BaseDir: base, SchemaPath: schema}, "backend", &bytes.Buffer{})
	require.NoError(t, err)
	assert.FileExists(t, result.OutputPath)
}

func TestRunLeavesExistingOutputOnFailure(t *testing.T) {
	base := setupProject(t)
	out := filepath.Join(base, "output", "backend.yaml")
	writeFile(t, out, "previous: true\n")
	writeFile(t, filepath.Join(base, "modular_cv", "cv_items", "projects", "bad.yaml"), `id: bad
type: hobby
data: {}
`)

	_, err := Run(context.Background(), types.BuildConfig{BaseDir: base}, "backend", &bytes.Buffer{})
	require.Error(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous: true\n", string(data))
}

func TestRunIsRepeatable(t *testing.T) {
	base := setupProject(t)
	cfg := types.BuildConfig{BaseDir: base}

	first, err := Run(context.Background(), cfg, "backend", &bytes.Buffer{})
	require.NoError(t, err)
	a, err := os.ReadFile(first.OutputPath)
	require.NoError(t, err)

	second, err := Run(context.Background(), cfg, "backend", &bytes.Buffer{})
	require.NoError(t, err)
	b, err := os.ReadFile(second.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunCanceled(t *testing.T) {
	base := setupProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, types.BuildConfig{BaseDir: base}, "backend", &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
