package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	stdmath "math"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"forward-renderer/core"
)

// CubeFaceNames are the file stems LoadCubeFaces looks for, in +X, -X, +Y,
// -Y, +Z, -Z order.
var CubeFaceNames = [6]string{"right", "left", "up", "down", "front", "back"}

var cubeExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp"}

// LoadImage decodes a PNG, JPEG, BMP, TIFF or WebP file into RGBA.
func LoadImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return toRGBA(img), nil
}

// LoadTexture decodes path and uploads it into reg.
func LoadTexture(reg *Registry, path string) (TextureHandle, error) {
	img, err := LoadImage(path)
	if err != nil {
		return 0, err
	}
	return reg.CreateTexture(filepath.Base(path), img)
}

// SolidImage returns a 1x1 image of c, used as a stand-in texture.
func SolidImage(c core.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, toColorRGBA(c))
	return img
}

// LoadCubeFaces reads the six faces of a cube map from dir. Each face is
// found by its CubeFaceNames stem and any supported extension. Faces are
// resampled to the size of the first one so they form a square set.
func LoadCubeFaces(dir string) ([6]*image.RGBA, error) {
	var faces [6]*image.RGBA
	for i, stem := range CubeFaceNames {
		path, err := findFace(dir, stem)
		if err != nil {
			return faces, err
		}
		img, err := LoadImage(path)
		if err != nil {
			return faces, err
		}
		faces[i] = img
	}

	size := faces[0].Bounds().Dx()
	if h := faces[0].Bounds().Dy(); h < size {
		size = h
	}
	for i, f := range faces {
		if b := f.Bounds(); b.Dx() != size || b.Dy() != size {
			faces[i] = resample(f, size)
		}
	}
	return faces, nil
}

func findFace(dir, stem string) (string, error) {
	for _, ext := range cubeExtensions {
		p := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("cube face %q: %w", p, err)
		}
	}
	return "", fmt.Errorf("cube face %q not found in %q: %w", stem, dir, os.ErrNotExist)
}

func resample(src *image.RGBA, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// GradientCube builds a procedural sky: zenith at the top, horizon around
// the equator and ground below it.
func GradientCube(size int, zenith, horizon, ground core.Color) [6]*image.RGBA {
	var faces [6]*image.RGBA
	for face := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				s := 2*(float32(x)+0.5)/float32(size) - 1
				t := 2*(float32(y)+0.5)/float32(size) - 1
				dir := cubeDirection(face, s, t)
				elev := dir[1] / float32(stdmath.Sqrt(float64(dir[0]*dir[0]+dir[1]*dir[1]+dir[2]*dir[2])))

				var c core.Color
				if elev >= 0 {
					c = lerpColor(horizon, zenith, elev)
				} else {
					c = lerpColor(horizon, ground, -elev)
				}
				img.SetRGBA(x, y, toColorRGBA(c))
			}
		}
		faces[face] = img
	}
	return faces
}

// cubeDirection maps face texel coordinates in [-1, 1] to a direction using
// the standard cube map face orientation.
func cubeDirection(face int, s, t float32) [3]float32 {
	switch face {
	case 0:
		return [3]float32{1, -t, -s}
	case 1:
		return [3]float32{-1, -t, s}
	case 2:
		return [3]float32{s, 1, t}
	case 3:
		return [3]float32{s, -1, -t}
	case 4:
		return [3]float32{s, -t, 1}
	default:
		return [3]float32{-s, -t, -1}
	}
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

func toColorRGBA(c core.Color) color.RGBA {
	clamp := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{R: clamp(c.R * c.A), G: clamp(c.G * c.A), B: clamp(c.B * c.A), A: clamp(c.A)}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return rgba
}
