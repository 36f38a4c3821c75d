// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/gpu"
)

// ErrTextureDestroyed is returned when a destroyed MemoryTexture is updated.
var ErrTextureDestroyed = errors.New("render: texture destroyed")

// MemoryHost is a tilemap.TextureHost that keeps textures in CPU memory.
// It backs the software renderer and headless tests.
type MemoryHost struct {
	mu       sync.Mutex
	textures []*MemoryTexture
	// FailCreate, when set, is returned by the next CreateTexture.
	FailCreate error
}

var _ tilemap.TextureHost = (*MemoryHost)(nil)

// NewMemoryHost returns an empty host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{}
}

// CreateTexture allocates a zeroed texture.
func (h *MemoryHost) CreateTexture(desc *gputypes.TextureDescriptor) (tilemap.TextureHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.FailCreate; err != nil {
		h.FailCreate = nil
		return nil, err
	}
	bpp, err := gpu.BytesPerPixel(desc.Format)
	if err != nil {
		return nil, err
	}
	tex := &MemoryTexture{
		label:  desc.Label,
		width:  int(desc.Size.Width),
		height: int(desc.Size.Height),
		format: desc.Format,
		bpp:    int(bpp),
		data:   make([]byte, int(desc.Size.Width)*int(desc.Size.Height)*int(bpp)),
	}
	h.textures = append(h.textures, tex)
	return tex, nil
}

// Textures returns every texture created so far, destroyed ones included.
func (h *MemoryHost) Textures() []*MemoryTexture {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*MemoryTexture(nil), h.textures...)
}

// MemoryTexture is a texture held in a byte slice.
type MemoryTexture struct {
	mu        sync.Mutex
	label     string
	width     int
	height    int
	format    gputypes.TextureFormat
	bpp       int
	data      []byte
	updates   int
	destroyed bool
	// FailUpdate, when set, is returned by the next UpdateData.
	FailUpdate error
}

// Width returns the texture width in texels.
func (t *MemoryTexture) Width() int { return t.width }

// Height returns the texture height in texels.
func (t *MemoryTexture) Height() int { return t.height }

// Format returns the texel format.
func (t *MemoryTexture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *MemoryTexture) Label() string { return t.label }

// UpdateData replaces the texture contents with a copy of data.
func (t *MemoryTexture) UpdateData(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return ErrTextureDestroyed
	}
	if err := t.FailUpdate; err != nil {
		t.FailUpdate = nil
		return err
	}
	if len(data) != len(t.data) {
		return fmt.Errorf("%w: got %d bytes, want %d", gpu.ErrDataSize, len(data), len(t.data))
	}
	copy(t.data, data)
	t.updates++
	return nil
}

// Data returns a copy of the texture contents.
func (t *MemoryTexture) Data() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.data...)
}

// Uint16At decodes the little-endian 16-bit texel at (x, y) of an
// R16Uint texture. ok is false for other formats or out-of-range texels.
func (t *MemoryTexture) Uint16At(x, y int) (v uint16, ok bool) {
	if t.bpp != 2 || x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return binary.LittleEndian.Uint16(t.data[(y*t.width+x)*2:]), true
}

// Updates returns how many uploads the texture accepted.
func (t *MemoryTexture) Updates() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updates
}

// Destroy releases the texture. Destroy is idempotent.
func (t *MemoryTexture) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (t *MemoryTexture) Destroyed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.destroyed
}
