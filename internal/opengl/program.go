package opengl

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"

	"scene-viewer/math"
)

// Program is a linked vertex/fragment shader pair loaded from files. Its
// Upload methods write uniforms by name; names the program does not declare
// are logged once and ignored.
type Program struct {
	id       uint32
	vertPath string
	fragPath string
	uniforms *uniformCache
}

// LoadProgram reads, compiles and links the two shader files.
func LoadProgram(vertPath, fragPath string) (*Program, error) {
	id, err := buildProgram(vertPath, fragPath)
	if err != nil {
		return nil, err
	}

	p := &Program{
		id:       id,
		vertPath: vertPath,
		fragPath: fragPath,
	}
	p.uniforms = newUniformCache(vertPath+"+"+fragPath, slog.Default(), p.lookup)
	return p, nil
}

func buildProgram(vertPath, fragPath string) (uint32, error) {
	vertSrc, err := os.ReadFile(vertPath)
	if err != nil {
		return 0, fmt.Errorf("read vertex shader: %w", err)
	}
	fragSrc, err := os.ReadFile(fragPath)
	if err != nil {
		return 0, fmt.Errorf("read fragment shader: %w", err)
	}

	id, err := newProgram(string(vertSrc), string(fragSrc))
	if err != nil {
		return 0, fmt.Errorf("program %s + %s: %w", vertPath, fragPath, err)
	}
	return id, nil
}

func (p *Program) lookup(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

// Reload recompiles the program from its files. On failure the current
// program stays bound and usable.
func (p *Program) Reload() error {
	id, err := buildProgram(p.vertPath, p.fragPath)
	if err != nil {
		return err
	}
	gl.DeleteProgram(p.id)
	p.id = id
	p.uniforms.reset(p.lookup)
	return nil
}

func (p *Program) ID() uint32 { return p.id }

func (p *Program) Bind() {
	gl.UseProgram(p.id)
}

func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func (p *Program) Paths() (vert, frag string) {
	return p.vertPath, p.fragPath
}

// UploadMat4 uploads m with transpose set, since Mat4 data is row-major.
func (p *Program) UploadMat4(name string, m math.Mat4) {
	if loc, ok := p.uniforms.location(name); ok {
		data := m.Data()
		gl.UniformMatrix4fv(loc, 1, true, &data[0])
	}
}

func (p *Program) UploadMat3(name string, m math.Mat3) {
	if loc, ok := p.uniforms.location(name); ok {
		data := m.Data()
		gl.UniformMatrix3fv(loc, 1, true, &data[0])
	}
}

func (p *Program) UploadFloat3(name string, v math.Vec3) {
	if loc, ok := p.uniforms.location(name); ok {
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	}
}

func (p *Program) UploadFloat(name string, v float32) {
	if loc, ok := p.uniforms.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (p *Program) UploadInt(name string, v int32) {
	if loc, ok := p.uniforms.location(name); ok {
		gl.Uniform1i(loc, v)
	}
}

// UploadHandle uploads a resident bindless texture handle.
func (p *Program) UploadHandle(name string, handle uint64) {
	if loc, ok := p.uniforms.location(name); ok {
		gl.UniformHandleui64ARB(loc, handle)
	}
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("link failed: %v", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
