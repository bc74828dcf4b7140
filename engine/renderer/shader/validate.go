package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// Validate compiles expanded WGSL through naga and reports any syntax or type error.
// Source that passes here is safe to hand to the GPU driver.
//
// Parameters:
//   - source: WGSL source with all annotations already expanded
//
// Returns:
//   - []byte: the compiled SPIR-V binary
//   - error: ErrInvalidShader wrapping the compiler diagnostic
func Validate(source string) ([]byte, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidShader, err)
	}
	return spirv, nil
}
