// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu allocates tile index textures on a wgpu HAL device.
//
// Host implements tilemap.TextureHost, so a map can be flushed straight to
// a device the application already owns:
//
//	host, err := gpu.NewHost(device, queue)
//	if err != nil {
//	    return err
//	}
//	if err := m.Flush(host); err != nil {
//	    return err
//	}
//
// The host never creates a device of its own. Uploads go through
// hal.Queue.WriteTexture and replace the whole texture.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/tilemap"
	"github.com/gogpu/tilemap/shader"
)

// Errors returned by Host and Texture.
var (
	// ErrNilDevice is returned when NewHost receives a nil device or queue.
	ErrNilDevice = errors.New("gpu: nil device or queue")

	// ErrUnsupportedFormat is returned for texture formats the host cannot size.
	ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")

	// ErrTextureReleased is returned when a destroyed texture is updated.
	ErrTextureReleased = errors.New("gpu: texture released")

	// ErrDataSize is returned when upload data does not cover the texture.
	ErrDataSize = errors.New("gpu: data size mismatch")
)

// Host creates textures on a HAL device and uploads through its queue.
//
// Host is safe for concurrent use to the extent the underlying device and
// queue are.
type Host struct {
	device hal.Device
	queue  hal.Queue
}

var _ tilemap.TextureHost = (*Host)(nil)

// NewHost wraps a device and its queue.
func NewHost(device hal.Device, queue hal.Queue) (*Host, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Host{device: device, queue: queue}, nil
}

// Device returns the wrapped device.
func (h *Host) Device() hal.Device { return h.device }

// Queue returns the wrapped queue.
func (h *Host) Queue() hal.Queue { return h.queue }

// CreateTexture allocates a 2D texture described by desc.
func (h *Host) CreateTexture(desc *gputypes.TextureDescriptor) (tilemap.TextureHandle, error) {
	if desc == nil {
		return nil, errors.New("gpu: nil texture descriptor")
	}
	bpp, err := BytesPerPixel(desc.Format)
	if err != nil {
		return nil, err
	}

	raw, err := h.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Size.Width,
			Height:             desc.Size.Height,
			DepthOrArrayLayers: max(desc.Size.DepthOrArrayLayers, 1),
		},
		MipLevelCount: max(desc.MipLevelCount, 1),
		SampleCount:   max(desc.SampleCount, 1),
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage,
		ViewFormats:   desc.ViewFormats,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", desc.Label, err)
	}

	tilemap.Logger().Debug("gpu: texture allocated",
		"label", desc.Label, "width", desc.Size.Width, "height", desc.Size.Height, "format", desc.Format)

	return &Texture{
		host:   h,
		raw:    raw,
		label:  desc.Label,
		width:  desc.Size.Width,
		height: desc.Size.Height,
		format: desc.Format,
		bpp:    bpp,
	}, nil
}

// ShaderModule compiles the tilemap shader on the host device.
func (h *Host) ShaderModule(label string) (hal.ShaderModule, error) {
	return shader.CreateModule(h.device, label)
}

// BytesPerPixel returns the texel size of the formats the host can upload.
func BytesPerPixel(format gputypes.TextureFormat) (uint32, error) {
	switch format {
	case gputypes.TextureFormatR8Unorm:
		return 1, nil
	case gputypes.TextureFormatR16Uint:
		return 2, nil
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}
