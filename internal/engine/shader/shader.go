// Package shader compiles model shader programs and caches one program
// variant per combination of material attributes and lighting.
package shader

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/pkg/math"
)

// Program is a linked shader program that accepts attribute uniforms.
type Program interface {
	material.Uniforms
	Use()
	Dispose()
}

// Compiler builds programs from vertex and fragment sources.
type Compiler interface {
	Compile(vertexSrc, fragmentSrc string) (Program, error)
}

// GLCompiler compiles programs on the current OpenGL context.
type GLCompiler struct{}

// Compile implements Compiler.
func (GLCompiler) Compile(vertexSrc, fragmentSrc string) (Program, error) {
	id, err := CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &glProgram{id: id, locs: make(map[string]int32)}, nil
}

// glProgram is a GL program with a lazily filled uniform location cache.
// Uniforms the program does not use resolve to -1 and are ignored by GL.
type glProgram struct {
	id   uint32
	locs map[string]int32
}

func (p *glProgram) loc(name string) int32 {
	if loc, ok := p.locs[name]; ok {
		return loc
	}
	loc := GetUniform(p.id, name)
	p.locs[name] = loc
	return loc
}

func (p *glProgram) Use() {
	gl.UseProgram(p.id)
}

func (p *glProgram) Dispose() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *glProgram) SetInt(name string, v int32) {
	gl.Uniform1i(p.loc(name), v)
}

func (p *glProgram) SetFloat(name string, v ...float32) {
	loc := p.loc(name)
	switch len(v) {
	case 1:
		gl.Uniform1f(loc, v[0])
	case 2:
		gl.Uniform2f(loc, v[0], v[1])
	case 3:
		gl.Uniform3f(loc, v[0], v[1], v[2])
	case 4:
		gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
	default:
		panic(fmt.Sprintf("uniform %q: unsupported float count %d", name, len(v)))
	}
}

func (p *glProgram) SetMatrix4(name string, m *math.Mat4) {
	gl.UniformMatrix4fv(p.loc(name), 1, false, m.Ptr())
}

func (p *glProgram) BindTexture(unit int32, tex material.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex.Handle())
	gl.ActiveTexture(gl.TEXTURE0)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Returns the program ID or an error if compilation/linking fails.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: link: %s", ErrCompile, string(log))
	}

	return program, nil
}

// compileShader compiles a single shader of the given type.
func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompile, name, string(log))
	}

	return shader, nil
}

// GetUniform returns the uniform location for the given name.
// Returns -1 if the uniform is not found or inactive.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

// MustGetUniform returns the uniform location for the given name.
// Panics if the uniform is not found (useful for required uniforms).
func MustGetUniform(program uint32, name string) int32 {
	loc := GetUniform(program, name)
	if loc < 0 {
		panic(fmt.Sprintf("uniform %q not found in program %d", name, program))
	}
	return loc
}
