// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds the WGSL program that resolves tiles per fragment
// and helpers to compile it for a wgpu HAL device.
//
// The fragment stage mirrors tilemap.Projection: it inverts the projection
// with Params.ToTile, picks the owning cell (floor, or cube rounding for
// hexagons), loads the tile index from the R16Uint texture and samples the
// matching atlas rectangle. Cells outside the map use index 0.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// Source is the WGSL source of the tilemap shader.
//
//go:embed tilemap.wgsl
var Source string

// Entry points.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Bind group 0 layout.
const (
	BindingParams       = 0 // uniform tilemap.Params
	BindingTiles        = 1 // texture_2d<u32>, R16Uint tile indices
	BindingAtlas        = 2 // texture_2d<f32>, atlas image
	BindingAtlasSampler = 3 // sampler for the atlas
	BindingView         = 4 // uniform mat4x4 local-to-clip
)

// Compile compiles Source to SPIR-V words.
func Compile() ([]uint32, error) {
	return CompileSPIRV(Source)
}

// CompileSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func CompileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to compile tilemap shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// CreateModule compiles the tilemap shader and creates a HAL shader module.
func CreateModule(device hal.Device, label string) (hal.ShaderModule, error) {
	spirvCode, err := Compile()
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirvCode,
		},
	})
}
