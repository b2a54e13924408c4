package opengl

import (
	"bytes"
	"encoding/binary"
	"reflect"
	"strings"
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

func TestVertexStride(t *testing.T) {
	// position, normal, tangent: 3 floats each; uv: 2 floats
	if vertexStride != 44 {
		t.Errorf("vertexStride: expected 44, got %d", vertexStride)
	}
}

func TestParseSamplerDirectives(t *testing.T) {
	src := []byte(`#version 410 core
// @sampler basicSampler albedo normalMap
  // @sampler shadowSampler shadowMap
// @sampler lonely
// sampler notADirective x
uniform sampler2D albedo;
`)
	got := parseSamplerDirectives(src)
	expected := map[string][]string{
		"basicSampler":  {"albedo", "normalMap"},
		"shadowSampler": {"shadowMap"},
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("parseSamplerDirectives: expected %v, got %v", expected, got)
	}
}

func TestShaderSourcesDeclareSamplers(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected map[string][]string
	}{
		{"lit", LitPS, map[string][]string{
			"basicSampler":  {"albedo", "normalMap"},
			"shadowSampler": {"shadowMap"},
		}},
		{"sky", SkyPS, map[string][]string{"samplerState": {"skybox"}}},
	}
	for _, tt := range tests {
		got := parseSamplerDirectives([]byte(tt.src))
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, got)
		}
		for _, textures := range got {
			for _, tex := range textures {
				if !strings.Contains(tt.src, " "+tex+";") {
					t.Errorf("%s: sampler directive names undeclared texture %q", tt.name, tex)
				}
			}
		}
	}
}

func TestVertexShadersRemapDepth(t *testing.T) {
	for name, src := range map[string]string{"shadow": ShadowVS, "lit": LitVS, "sky": SkyVS} {
		if !strings.Contains(src, "gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;") {
			t.Errorf("%s: expected depth remap", name)
		}
		if !strings.Contains(src, "out gl_PerVertex") {
			t.Errorf("%s: separable vertex stage must redeclare gl_PerVertex", name)
		}
	}
}

func TestAddressMode(t *testing.T) {
	tests := []struct {
		mode     gpu.AddressMode
		expected int32
	}{
		{gpu.AddressWrap, gl.REPEAT},
		{gpu.AddressClamp, gl.CLAMP_TO_EDGE},
		{gpu.AddressBorder, gl.CLAMP_TO_BORDER},
	}
	for _, tt := range tests {
		if got := addressMode(tt.mode); got != tt.expected {
			t.Errorf("addressMode(%d): expected 0x%X, got 0x%X", tt.mode, tt.expected, got)
		}
	}
}

func TestCompareFunc(t *testing.T) {
	tests := []struct {
		fn       gpu.ComparisonFunc
		expected uint32
	}{
		{gpu.ComparisonNever, gl.NEVER},
		{gpu.ComparisonLess, gl.LESS},
		{gpu.ComparisonLessEqual, gl.LEQUAL},
		{gpu.ComparisonAlways, gl.ALWAYS},
	}
	for _, tt := range tests {
		if got := compareFunc(tt.fn); got != tt.expected {
			t.Errorf("compareFunc(%d): expected 0x%X, got 0x%X", tt.fn, tt.expected, got)
		}
	}
}

func TestEncodeBlock(t *testing.T) {
	var block gpu.LightBlock
	block.Lights[0].Intensity = 3
	block.Count = 1
	size := binary.Size(block)

	full, err := encodeBlock(block, size)
	if err != nil {
		t.Fatalf("encodeBlock: %v", err)
	}
	if len(full) != size {
		t.Errorf("encodeBlock: expected %d bytes, got %d", size, len(full))
	}

	// A driver that leaves out the std140 tail padding reports a smaller block.
	trimmed, err := encodeBlock(block, size-12)
	if err != nil {
		t.Fatalf("encodeBlock trimmed: %v", err)
	}
	if !bytes.Equal(trimmed, full[:size-12]) {
		t.Errorf("encodeBlock trimmed: expected the first %d bytes of the full encoding", size-12)
	}

	if _, err := encodeBlock(block, size+16); err == nil {
		t.Errorf("encodeBlock: expected an error for a block larger than the value")
	}
}
