// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a HAL texture created by Host.
type Texture struct {
	host     *Host
	raw      hal.Texture
	label    string
	width    uint32
	height   uint32
	format   gputypes.TextureFormat
	bpp      uint32
	released atomic.Bool
}

// Width returns the texture width in texels.
func (t *Texture) Width() int { return int(t.width) }

// Height returns the texture height in texels.
func (t *Texture) Height() int { return int(t.height) }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Raw returns the HAL texture for binding, or nil once destroyed.
func (t *Texture) Raw() hal.Texture {
	if t.released.Load() {
		return nil
	}
	return t.raw
}

// UpdateData replaces the whole texture with data. Rows are tightly packed.
func (t *Texture) UpdateData(data []byte) error {
	if t.released.Load() {
		return ErrTextureReleased
	}
	rowBytes := t.width * t.bpp
	want := uint64(rowBytes) * uint64(t.height)
	if uint64(len(data)) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrDataSize, len(data), want)
	}

	err := t.host.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.raw,
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  rowBytes,
			RowsPerImage: t.height,
		},
		&hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("gpu: write texture %q: %w", t.label, err)
	}
	return nil
}

// Destroy releases the texture. Destroy is idempotent.
func (t *Texture) Destroy() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}
	t.host.device.DestroyTexture(t.raw)
}
