package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/sunwave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/sunwave/engine/renderer/shader"
	"github.com/Carmen-Shannon/sunwave/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func validateShaders(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if ctx.NArg() > 0 {
		cfg.Shaders.Dir = ctx.Args().First()
	}
	vertexSource, fragmentSource, _, err := shaderSources(cfg.Shaders)
	if err != nil {
		return err
	}

	p, err := scene.BuildSunPipeline(scene.DefaultPipelineKey, vertexSource, fragmentSource)
	if err != nil {
		return err
	}
	return printLayouts(os.Stdout, p)
}

// printLayouts writes the vertex attributes and bind group entries derived from p's shaders.
func printLayouts(w io.Writer, p pipeline.Pipeline) error {
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	fmt.Fprintf(w, "vertex entry point:   %s\nfragment entry point: %s\n\n", vs.EntryPoint(), fs.EntryPoint())

	vertexTable := tablewriter.NewWriter(w)
	vertexTable.Header("Buffer", "Location", "Format", "Offset", "Stride")
	buffers := make([]int, 0, len(vs.VertexLayouts()))
	for slot := range vs.VertexLayouts() {
		buffers = append(buffers, slot)
	}
	sort.Ints(buffers)
	for _, slot := range buffers {
		for _, layout := range vs.VertexLayout(slot) {
			for _, attr := range layout.Attributes {
				if err := vertexTable.Append([]string{
					strconv.Itoa(slot),
					strconv.FormatUint(uint64(attr.ShaderLocation), 10),
					fmt.Sprintf("%v", attr.Format),
					strconv.FormatUint(attr.Offset, 10),
					strconv.FormatUint(layout.ArrayStride, 10),
				}); err != nil {
					return err
				}
			}
		}
	}
	if err := vertexTable.Render(); err != nil {
		return err
	}

	bindTable := tablewriter.NewWriter(w)
	bindTable.Header("Group", "Binding", "Variable", "Visibility", "Min size")
	layouts := p.BindGroupLayoutDescriptors()
	groups := make([]int, 0, len(layouts))
	for g := range layouts {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	for _, g := range groups {
		for _, entry := range layouts[g].Entries {
			name := fs.BindGroupVarName(g, int(entry.Binding))
			if name == "" {
				name = vs.BindGroupVarName(g, int(entry.Binding))
			}
			if err := bindTable.Append([]string{
				strconv.Itoa(g),
				strconv.FormatUint(uint64(entry.Binding), 10),
				name,
				visibilityString(entry.Visibility),
				strconv.FormatUint(entry.Buffer.MinBindingSize, 10),
			}); err != nil {
				return err
			}
		}
	}
	return bindTable.Render()
}

func visibilityString(stage wgpu.ShaderStage) string {
	var parts []string
	if stage&wgpu.ShaderStageVertex != 0 {
		parts = append(parts, "vertex")
	}
	if stage&wgpu.ShaderStageFragment != 0 {
		parts = append(parts, "fragment")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
