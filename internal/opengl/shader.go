package opengl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"forward-renderer/gpu"
	"forward-renderer/math"
)

// firstUnit is the first texture unit each stage allocates from, so a
// vertex and a pixel shader bound together never share a unit.
var firstUnit = map[gpu.ShaderStage]uint32{gpu.PixelStage: 0, gpu.VertexStage: 8}

const maxTextureUnits = 16

// Shader is a separable single-stage program. Parameter names are the
// program's active uniforms and uniform blocks. GLSL has no separate
// sampler objects, so samplers are declared with a comment in the source:
//
//	// @sampler shadowSampler shadowMap
//
// binds the "shadowSampler" parameter to the unit of the shadowMap texture.
type Shader struct {
	label string
	stage gpu.ShaderStage
	prog  uint32
	log   *zap.Logger

	uniforms map[string]int32
	units    map[string]uint32
	samplers map[string][]string
	blocks   map[string]*uniformBlock
	pending  map[string]func()
}

type uniformBlock struct {
	binding uint32
	ubo     uint32
	size    int
	data    []byte
	dirty   bool
}

func (s *Shader) Label() string          { return s.label }
func (s *Shader) Stage() gpu.ShaderStage { return s.stage }

func (s *Shader) Release() {
	for _, b := range s.blocks {
		if b.ubo != 0 {
			gl.DeleteBuffers(1, &b.ubo)
			b.ubo = 0
		}
	}
	if s.prog != 0 {
		gl.DeleteProgram(s.prog)
		s.prog = 0
	}
}

func (d *Device) newShader(label string, stage gpu.ShaderStage, code []byte) (*Shader, error) {
	glStage := uint32(gl.VERTEX_SHADER)
	if stage == gpu.PixelStage {
		glStage = gl.FRAGMENT_SHADER
	}
	prog, err := linkSeparable(string(code), glStage)
	if err != nil {
		return nil, fmt.Errorf("%s shader %q: %w", stage, label, err)
	}

	s := &Shader{
		label:    label,
		stage:    stage,
		prog:     prog,
		log:      d.log,
		uniforms: make(map[string]int32),
		units:    make(map[string]uint32),
		samplers: parseSamplerDirectives(code),
		blocks:   make(map[string]*uniformBlock),
		pending:  make(map[string]func()),
	}
	s.reflectUniforms()
	s.reflectBlocks(d)

	for name, textures := range s.samplers {
		kept := textures[:0]
		for _, t := range textures {
			if _, ok := s.units[t]; ok {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(s.samplers, name)
			continue
		}
		s.samplers[name] = kept
	}

	if err := glError("shader " + label); err != nil {
		s.Release()
		return nil, err
	}
	d.log.Debug("shader compiled",
		zap.String("shader", label),
		zap.Stringer("stage", stage),
		zap.Int("uniforms", len(s.uniforms)),
		zap.Int("textures", len(s.units)),
		zap.Int("blocks", len(s.blocks)))
	return s, nil
}

// linkSeparable compiles src into a program usable in a program pipeline.
func linkSeparable(src string, stage uint32) (uint32, error) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	csrc, free := gl.Strs(src)
	prog := gl.CreateShaderProgramv(stage, 1, csrc)
	free()
	if prog == 0 {
		return 0, fmt.Errorf("glCreateShaderProgramv returned 0")
	}

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

func (s *Shader) reflectUniforms() {
	var count, maxLen int32
	gl.GetProgramiv(s.prog, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(s.prog, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	buf := make([]uint8, maxLen+1)

	unit := firstUnit[s.stage]
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(s.prog, i, int32(len(buf)), &length, &size, &typ, &buf[0])
		name := strings.TrimSuffix(string(buf[:length]), "[0]")

		loc := gl.GetUniformLocation(s.prog, gl.Str(name+"\x00"))
		if loc < 0 {
			// member of a uniform block
			continue
		}
		s.uniforms[name] = loc

		switch typ {
		case gl.SAMPLER_2D, gl.SAMPLER_CUBE, gl.SAMPLER_2D_SHADOW:
			if unit >= maxTextureUnits {
				s.log.Warn("out of texture units", zap.String("shader", s.label), zap.String("name", name))
				continue
			}
			s.units[name] = unit
			gl.ProgramUniform1i(s.prog, loc, int32(unit))
			unit++
		}
	}
}

func (s *Shader) reflectBlocks(d *Device) {
	var count int32
	gl.GetProgramiv(s.prog, gl.ACTIVE_UNIFORM_BLOCKS, &count)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		buf := make([]uint8, 256)
		gl.GetActiveUniformBlockName(s.prog, i, int32(len(buf)), &length, &buf[0])
		gl.GetActiveUniformBlockiv(s.prog, i, gl.UNIFORM_BLOCK_DATA_SIZE, &size)

		b := &uniformBlock{binding: d.nextBinding, size: int(size), data: make([]byte, size)}
		d.nextBinding++
		gl.UniformBlockBinding(s.prog, i, b.binding)

		gl.GenBuffers(1, &b.ubo)
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		gl.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.ubo)

		s.blocks[string(buf[:length])] = b
	}
}

func parseSamplerDirectives(code []byte) map[string][]string {
	out := make(map[string][]string)
	sc := bufio.NewScanner(bytes.NewReader(code))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		rest, ok := strings.CutPrefix(line, "// @sampler ")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) < 2 {
			continue
		}
		out[fields[0]] = append(out[fields[0]], fields[1:]...)
	}
	return out
}

// stageUniform queues an upload of a plain uniform.
func (s *Shader) stageUniform(name string, upload func(prog uint32, loc int32)) bool {
	loc, ok := s.uniforms[name]
	if !ok {
		return false
	}
	s.pending[name] = func() { upload(s.prog, loc) }
	return true
}

func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool {
	// Row-major row-vector matrices read column-major are the transposed
	// column-vector matrices, so shaders multiply as M * v.
	return s.stageUniform(name, func(prog uint32, loc int32) {
		gl.ProgramUniformMatrix4fv(prog, loc, 1, false, &m[0][0])
	})
}

func (s *Shader) SetFloat(name string, v float32) bool {
	return s.stageUniform(name, func(prog uint32, loc int32) { gl.ProgramUniform1f(prog, loc, v) })
}

func (s *Shader) SetFloat2(name string, v math.Vec2) bool {
	return s.stageUniform(name, func(prog uint32, loc int32) { gl.ProgramUniform2f(prog, loc, v.X, v.Y) })
}

func (s *Shader) SetFloat3(name string, v math.Vec3) bool {
	return s.stageUniform(name, func(prog uint32, loc int32) { gl.ProgramUniform3f(prog, loc, v.X, v.Y, v.Z) })
}

func (s *Shader) SetFloat4(name string, v math.Vec4) bool {
	return s.stageUniform(name, func(prog uint32, loc int32) { gl.ProgramUniform4f(prog, loc, v.X, v.Y, v.Z, v.W) })
}

func (s *Shader) SetInt(name string, v int32) bool {
	return s.stageUniform(name, func(prog uint32, loc int32) { gl.ProgramUniform1i(prog, loc, v) })
}

// SetData encodes data little-endian into the named uniform block. The Go
// layout must already match std140, as gpu.LightBlock does.
func (s *Shader) SetData(name string, data any) bool {
	b, ok := s.blocks[name]
	if !ok {
		return false
	}
	enc, err := encodeBlock(data, b.size)
	if err != nil {
		s.log.Error("encode uniform block", zap.String("shader", s.label), zap.String("name", name), zap.Error(err))
		return true
	}
	copy(b.data, enc)
	b.dirty = true
	return true
}

// encodeBlock returns the first size bytes of data's little-endian encoding.
// Some drivers report a block size without the std140 tail padding, so only
// an encoding shorter than the block is an error.
func encodeBlock(data any, size int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(size)
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		return nil, err
	}
	if buf.Len() < size {
		return nil, fmt.Errorf("encoded %d bytes, block needs %d", buf.Len(), size)
	}
	return buf.Bytes()[:size], nil
}

// SetShaderResourceView binds immediately, like a D3D SRV slot.
func (s *Shader) SetShaderResourceView(name string, view gpu.TextureView) bool {
	unit, ok := s.units[name]
	if !ok {
		return false
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	tex, _ := view.(*Texture)
	if tex == nil {
		gl.BindTexture(gl.TEXTURE_2D, 0)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
		return true
	}
	gl.BindTexture(tex.target, tex.id)
	return true
}

func (s *Shader) SetSamplerState(name string, sampler gpu.SamplerState) bool {
	textures, ok := s.samplers[name]
	if !ok {
		return false
	}
	var id uint32
	if smp, _ := sampler.(*Sampler); smp != nil {
		id = smp.id
	}
	for _, t := range textures {
		gl.BindSampler(s.units[t], id)
	}
	return true
}

func (s *Shader) CopyAllBufferData() {
	for name, upload := range s.pending {
		upload()
		delete(s.pending, name)
	}
	for _, b := range s.blocks {
		if !b.dirty {
			continue
		}
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, b.size, gl.Ptr(b.data))
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		b.dirty = false
	}
}
