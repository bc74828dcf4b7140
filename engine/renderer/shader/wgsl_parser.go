package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct member: optional attributes, name, colon, type.
	fieldRegex = regexp.MustCompile(`^(?:@\w+\([^)]*\)\s*)*(\w+)\s*:\s*(.+)$`)

	// entryRegex captures the stage attribute and function name of every entry point.
	entryRegex = regexp.MustCompile(`@(vertex|fragment|compute)\s+fn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> frame: FrameUniforms;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseVertexLayouts extracts vertex buffer layouts from WGSL source code.
// Pure vertex input structs (with @location members and no @builtin members) each produce
// one layout, keyed by the order they appear in the source.
//
// Parameters:
//   - source: the WGSL source code string
//
// Returns:
//   - map[int][]wgpu.VertexBufferLayout: vertex layouts keyed by sequential index
//   - error: an error if a vertex input member has a type with no vertex format
func parseVertexLayouts(source string) (map[int][]wgpu.VertexBufferLayout, error) {
	result := make(map[int][]wgpu.VertexBufferLayout)
	structs := parseStructBlocks(stripComments(source))

	layoutIndex := 0
	for _, ps := range structs {
		if !isVertexInputStruct(ps) {
			continue
		}
		layout, err := buildVertexBufferLayout(ps)
		if err != nil {
			return nil, err
		}
		result[layoutIndex] = []wgpu.VertexBufferLayout{layout}
		layoutIndex++
	}
	return result, nil
}

// parseBindings extracts every @group(N) @binding(M) variable declaration from WGSL source.
func parseBindings(source string) ([]parsedBinding, error) {
	matches := bindGroupDeclRegex.FindAllStringSubmatch(stripComments(source), -1)
	out := make([]parsedBinding, 0, len(matches))
	for _, m := range matches {
		group, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("invalid group index %q: %w", m[1], err)
		}
		binding, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, fmt.Errorf("invalid binding index %q: %w", m[2], err)
		}
		out = append(out, parsedBinding{
			group:        group,
			binding:      binding,
			addressSpace: strings.TrimSpace(m[3]),
			varName:      strings.TrimSpace(m[4]),
			typeName:     strings.TrimSpace(m[5]),
		})
	}
	return out, nil
}

// parseBindGroupLayouts builds wgpu.BindGroupLayoutDescriptor values for every buffer binding
// declared in the WGSL source, grouped by group index and sorted by binding index.
// MinBindingSize is resolved from the bound type's host-shareable layout so callers can
// size the backing buffer straight from the descriptor.
//
// Parameters:
//   - source: the WGSL source code string
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: layout descriptors keyed by group index
//   - map[int]map[int]string: variable names keyed by group and binding index
//   - error: an error if a binding is not a buffer, is declared twice, or has an unresolvable type
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]string, error) {
	bindings, err := parseBindings(source)
	if err != nil {
		return nil, nil, err
	}
	structSizes := computeStructSizes(parseStructBlocks(stripComments(source)))

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	varNames := make(map[int]map[int]string)

	for _, b := range bindings {
		if varNames[b.group] == nil {
			varNames[b.group] = make(map[int]string)
		}
		if prev, dup := varNames[b.group][b.binding]; dup {
			return nil, nil, fmt.Errorf("group %d binding %d declared twice (%s, %s)", b.group, b.binding, prev, b.varName)
		}

		bufferType, err := classifyBuffer(b.addressSpace)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", b.varName, err)
		}
		layout, ok := resolveTypeLayout(b.typeName, structSizes)
		if !ok {
			return nil, nil, fmt.Errorf("%s: cannot resolve layout of type %q", b.varName, b.typeName)
		}

		entry := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(b.binding),
			Visibility: visibility,
		}
		entry.Buffer.Type = bufferType
		entry.Buffer.MinBindingSize = layout.size

		groups[b.group] = append(groups[b.group], entry)
		varNames[b.group][b.binding] = b.varName
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result, varNames, nil
}

// parseEntryPoint extracts the entry point function name for the given shader type.
// Returns an empty string if no entry point of that stage exists.
//
// Parameters:
//   - source: the WGSL source code string
//   - shaderType: the stage to search for
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	want := shaderType.String()
	for _, m := range entryRegex.FindAllStringSubmatch(stripComments(source), -1) {
		if m[1] == want {
			return m[2]
		}
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields parses the body of a struct block into individual members,
// extracting @location and @builtin attributes along with the member name and type.
func parseStructFields(body string) []parsedField {
	parts := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fm := fieldRegex.FindStringSubmatch(part)
		if fm == nil {
			continue
		}

		field := parsedField{
			name:      fm[1],
			typeName:  strings.TrimSpace(fm[2]),
			location:  -1,
			isBuiltin: builtinRegex.MatchString(part),
		}
		if lm := locationRegex.FindStringSubmatch(part); lm != nil {
			field.location, _ = strconv.Atoi(lm[1])
		}
		fields = append(fields, field)
	}
	return fields
}
