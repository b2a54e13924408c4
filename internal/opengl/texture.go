package opengl

import (
	"fmt"
	"image"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

// Texture is a sampled GL texture. Filtering and addressing come from the
// sampler object bound next to it, so only the mip chain is set up here.
type Texture struct {
	label  string
	id     uint32
	target uint32
	dim    gpu.TextureDimension
}

func (t *Texture) Label() string                   { return t.label }
func (t *Texture) Dimension() gpu.TextureDimension { return t.dim }

func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func newTexture2D(label string, img *image.RGBA) (*Texture, error) {
	if img == nil || len(img.Pix) == 0 {
		return nil, fmt.Errorf("texture %q has no pixel data", label)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	t := &Texture{label: label, target: gl.TEXTURE_2D, dim: gpu.Texture2D}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("texture " + label); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func newTextureCube(label string, faces [6]*image.RGBA) (*Texture, error) {
	var size int
	for i, f := range faces {
		if f == nil || len(f.Pix) == 0 {
			return nil, fmt.Errorf("cube %q: face %d has no pixel data", label, i)
		}
		w, h := f.Rect.Dx(), f.Rect.Dy()
		if w != h {
			return nil, fmt.Errorf("cube %q: face %d is %dx%d, not square", label, i, w, h)
		}
		if i == 0 {
			size = w
		} else if w != size {
			return nil, fmt.Errorf("cube %q: face %d is %d wide, expected %d", label, i, w, size)
		}
	}

	t := &Texture{label: label, target: gl.TEXTURE_CUBE_MAP, dim: gpu.TextureCube}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for i, f := range faces {
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(f.Stride/4))
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA,
			int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&f.Pix[0]))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_CUBE_MAP)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	if err := glError("cube " + label); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

// DepthTarget is a depth-only framebuffer backed by a 32-bit float depth
// texture that shaders can sample through view.
type DepthTarget struct {
	label string
	fbo   uint32
	size  int
	view  *Texture
}

func (d *DepthTarget) Label() string         { return d.label }
func (d *DepthTarget) DepthSize() (int, int) { return d.size, d.size }

func (d *DepthTarget) Release() {
	if d.fbo != 0 {
		gl.DeleteFramebuffers(1, &d.fbo)
		d.fbo = 0
	}
	if d.view != nil {
		d.view.Release()
	}
}

func newDepthTarget(label string, size int) (*DepthTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("depth target %q: invalid size %d", label, size)
	}
	d := &DepthTarget{
		label: label,
		size:  size,
		view:  &Texture{label: label + ".view", target: gl.TEXTURE_2D, dim: gpu.TextureDepth},
	}

	gl.GenTextures(1, &d.view.id)
	gl.BindTexture(gl.TEXTURE_2D, d.view.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	// Without mips the texture is incomplete under the default min filter.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)

	gl.GenFramebuffers(1, &d.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, d.view.id, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		d.Release()
		return nil, fmt.Errorf("depth target %q incomplete: status=0x%X", label, status)
	}
	return d, nil
}
