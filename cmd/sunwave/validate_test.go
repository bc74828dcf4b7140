package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/sunwave/engine/config"
	"github.com/Carmen-Shannon/sunwave/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShaderSourcesEmbedded(t *testing.T) {
	vs, fs, paths, err := shaderSources(config.Default().Shaders)
	require.NoError(t, err)

	assert.Equal(t, scene.SunVertexSource, vs)
	assert.Equal(t, scene.SunFragmentSource, fs)
	assert.Nil(t, paths)
}

func TestShaderSourcesFromDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Shaders
	cfg.Dir = dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Vertex), []byte(scene.SunVertexSource), 0o644))

	_, _, _, err := shaderSources(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist, "missing fragment shader")

	require.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Fragment), []byte(scene.SunFragmentSource), 0o644))
	vs, fs, paths, err := shaderSources(cfg)
	require.NoError(t, err)
	assert.Equal(t, scene.SunVertexSource, vs)
	assert.Equal(t, scene.SunFragmentSource, fs)
	assert.Equal(t, []string{filepath.Join(dir, cfg.Vertex), filepath.Join(dir, cfg.Fragment)}, paths)
}

func TestPrintLayouts(t *testing.T) {
	p, err := scene.BuildSunPipeline(scene.DefaultPipelineKey, scene.SunVertexSource, scene.SunFragmentSource)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printLayouts(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "vs_main")
	assert.Contains(t, out, "fs_main")
	assert.Contains(t, out, "frame")
	assert.Contains(t, out, "24")
}

func TestVisibilityString(t *testing.T) {
	assert.Equal(t, "vertex", visibilityString(wgpu.ShaderStageVertex))
	assert.Equal(t, "vertex|fragment", visibilityString(wgpu.ShaderStageVertex|wgpu.ShaderStageFragment))
	assert.Equal(t, "none", visibilityString(wgpu.ShaderStageNone))
}
