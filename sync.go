package tilemap

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes the grid into a texture upload buffer.
//
// Each tile becomes one little-endian R16Uint texel in row-major order,
// with rows packed densely (Width*BytesPerTexel bytes per row). The output
// depends only on the grid contents.
func Encode(g *Grid, limits Limits) ([]byte, error) {
	return encodeInto(nil, g, limits)
}

func checkLimits(size Size, limits Limits) error {
	if size.IsZero() {
		return ErrEmptyStorage
	}
	if size.Width > limits.MaxTextureDimension || size.Height > limits.MaxTextureDimension {
		return fmt.Errorf("%w: %dx%d > %d", ErrTextureTooLarge,
			size.Width, size.Height, limits.MaxTextureDimension)
	}
	return nil
}

func encodeInto(dst []byte, g *Grid, limits Limits) ([]byte, error) {
	if g == nil {
		return nil, ErrEmptyStorage
	}
	if err := checkLimits(g.size, limits); err != nil {
		return nil, err
	}

	n := len(g.tiles) * BytesPerTexel
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, v := range g.tiles {
		binary.LittleEndian.PutUint16(dst[i*BytesPerTexel:], v)
	}
	return dst, nil
}

// Synchronizer owns the CPU-side staging copy of a map's index texture
// and the dirty flag that says whether the GPU copy is stale.
//
// The whole grid is re-encoded for every batch of changes; there is no
// per-texel patching. Upload cost is O(Width*Height) no matter how many
// tiles changed, so callers should batch mutations in one indexer scope.
//
// Synchronizer is NOT safe for concurrent use.
type Synchronizer struct {
	size    Size
	limits  Limits
	label   string
	buf     []byte
	encErr  error
	dirty   bool
	texture TextureHandle
	uploads int
	encodes int
}

// NewSynchronizer creates a synchronizer for a grid of the given size.
// It starts dirty so that the first Flush creates and fills the texture.
func NewSynchronizer(size Size, limits Limits, label string) *Synchronizer {
	return &Synchronizer{
		size:   size,
		limits: limits,
		label:  label,
		dirty:  true,
	}
}

// Reencode replaces the staging buffer with the encoding of g.
// On failure the previous buffer is kept and Flush reports the error
// until a later Reencode succeeds.
func (s *Synchronizer) Reencode(g *Grid) error {
	buf, err := encodeInto(s.buf, g, s.limits)
	if err != nil {
		s.encErr = err
		return err
	}
	s.buf = buf
	s.encErr = nil
	s.encodes++
	Logger().Debug("tilemap: grid encoded",
		"label", s.label, "width", s.size.Width, "height", s.size.Height, "bytes", len(buf))
	return nil
}

// MarkDirty requests an upload on the next Flush.
func (s *Synchronizer) MarkDirty() {
	s.dirty = true
}

// IsDirty returns true if the GPU texture does not yet hold the staging buffer.
func (s *Synchronizer) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the staging buffer as handed off.
// Flush calls this after a successful upload.
func (s *Synchronizer) ClearDirty() {
	s.dirty = false
}

// Buffer returns the staging buffer. The slice is owned by the
// synchronizer and is overwritten by the next Reencode.
func (s *Synchronizer) Buffer() []byte {
	return s.buf
}

// Texture returns the host texture, or nil before the first Flush.
func (s *Synchronizer) Texture() TextureHandle {
	return s.texture
}

// Revision counts successful re-encodes. It changes whenever the
// staging buffer may hold new tiles.
func (s *Synchronizer) Revision() int {
	return s.encodes
}

// Uploads returns how many times the staging buffer was handed to the host.
func (s *Synchronizer) Uploads() int {
	return s.uploads
}

// Flush uploads the staging buffer if dirty.
//
// The texture is created lazily on the first Flush. The dirty flag is only
// cleared once the host has accepted the data; on error it stays set so
// the next Flush retries. Call Flush at most once per frame.
func (s *Synchronizer) Flush(host TextureHost) error {
	if s.encErr != nil {
		return s.encErr
	}
	if s.buf == nil {
		return ErrEmptyStorage
	}
	if !s.dirty && s.texture != nil {
		return nil
	}

	if s.texture == nil {
		if host == nil {
			return ErrNilHost
		}
		desc := NewTextureDescriptor(s.size, s.label)
		tex, err := host.CreateTexture(&desc)
		if err != nil {
			return fmt.Errorf("tilemap: texture creation failed: %w", err)
		}
		Logger().Info("tilemap: texture created",
			"label", s.label, "width", s.size.Width, "height", s.size.Height, "format", TexelFormat)
		s.texture = tex
	}

	if err := s.texture.UpdateData(s.buf); err != nil {
		Logger().Warn("tilemap: texture upload failed", "label", s.label, "err", err)
		return fmt.Errorf("tilemap: texture upload failed: %w", err)
	}

	s.uploads++
	s.ClearDirty()
	Logger().Debug("tilemap: texture uploaded", "label", s.label, "bytes", len(s.buf))
	return nil
}

// Close releases the host texture if it supports destruction.
// Close is idempotent.
func (s *Synchronizer) Close() {
	if s.texture == nil {
		return
	}
	if d, ok := s.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	s.texture = nil
	s.dirty = true
}
