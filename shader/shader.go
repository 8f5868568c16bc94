// Package shader holds the WGSL programs of the built-in pipelines and
// compiles them to SPIR-V with naga.
//
// Every stage is a separate WGSL module whose entry point is named main.
// Fragment stages output premultiplied color.
package shader

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/g2d"
	"github.com/gogpu/g2d/render"
	"github.com/gogpu/naga"
)

//go:embed wgsl/shape_vertex.wgsl
var shapeVertexSource string

//go:embed wgsl/shape_fragment.wgsl
var shapeFragmentSource string

//go:embed wgsl/sprite_vertex.wgsl
var spriteVertexSource string

//go:embed wgsl/sprite_fragment.wgsl
var spriteFragmentSource string

//go:embed wgsl/post_vertex.wgsl
var postVertexSource string

//go:embed wgsl/post_fragment.wgsl
var postFragmentSource string

// Program identifies a built-in vertex/fragment pair.
type Program uint8

const (
	// Shape draws solid-colored tessellated geometry.
	Shape Program = iota
	// Sprite draws textured, tinted quads.
	Sprite
	// Post draws a framebuffer over the whole target.
	Post
)

// String returns the program name.
func (p Program) String() string {
	switch p {
	case Shape:
		return "shape"
	case Sprite:
		return "sprite"
	case Post:
		return "post"
	default:
		return fmt.Sprintf("Program(%d)", p)
	}
}

// Stage is a shader stage.
type Stage uint8

const (
	// Vertex is the vertex stage.
	Vertex Stage = iota
	// Fragment is the fragment stage.
	Fragment
)

// String returns the stage name.
func (s Stage) String() string {
	if s == Fragment {
		return "fragment"
	}
	return "vertex"
}

// Source returns the WGSL source of a program stage.
func Source(p Program, s Stage) string {
	switch {
	case p == Shape && s == Vertex:
		return shapeVertexSource
	case p == Shape:
		return shapeFragmentSource
	case p == Sprite && s == Vertex:
		return spriteVertexSource
	case p == Sprite:
		return spriteFragmentSource
	case p == Post && s == Vertex:
		return postVertexSource
	case p == Post:
		return postFragmentSource
	}
	panic(fmt.Sprintf("shader: unknown program %v", p))
}

type key struct {
	p Program
	s Stage
}

var (
	cacheMu sync.Mutex
	cache   = map[key][]byte{}
)

// SPIRV compiles a program stage to SPIR-V. Results are cached for the
// lifetime of the process; the returned slice must not be modified.
func SPIRV(p Program, s Stage) ([]byte, error) {
	k := key{p, s}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if b, ok := cache[k]; ok {
		return b, nil
	}

	b, err := naga.Compile(Source(p, s))
	if err != nil {
		return nil, fmt.Errorf("compile %v %v shader: %w", p, s, err)
	}
	cache[k] = b
	g2d.Logger().Debug("shader: compiled", "program", p, "stage", s, "bytes", len(b))
	return b, nil
}

// Compile returns both stages of p ready for a render.PipelineDescription.
func Compile(p Program) (vertex, fragment render.Shader, err error) {
	vs, err := SPIRV(p, Vertex)
	if err != nil {
		return render.Shader{}, render.Shader{}, err
	}
	fs, err := SPIRV(p, Fragment)
	if err != nil {
		return render.Shader{}, render.Shader{}, err
	}
	return render.Shader{Label: p.String() + "_vs", Bytecode: vs, EntryPoint: "main"},
		render.Shader{Label: p.String() + "_fs", Bytecode: fs, EntryPoint: "main"},
		nil
}
