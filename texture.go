package tilemap

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// TexelFormat is the GPU pixel format of the tile index texture.
// One texel holds one tile index, bit-identical, with no normalization.
const TexelFormat = gputypes.TextureFormatR16Uint

// BytesPerTexel is the size of one encoded tile index.
const BytesPerTexel = 2

// TextureUsage is the usage requested for tile index textures: the
// synchronizer writes them and the shader reads them.
const TextureUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// Limits are the platform limits the encoder checks against.
type Limits struct {
	// MaxTextureDimension is the largest width or height of a 2D texture.
	MaxTextureDimension uint32
}

// DefaultLimits returns the limits guaranteed by every WebGPU device.
func DefaultLimits() Limits {
	return LimitsFrom(gputypes.DefaultLimits())
}

// LimitsFrom extracts the limits relevant to tile textures from device limits.
func LimitsFrom(l gputypes.Limits) Limits {
	return Limits{MaxTextureDimension: l.MaxTextureDimension2D}
}

// TextureHandle is a host texture the synchronizer can replace wholesale.
type TextureHandle interface {
	gpucontext.Texture
	gpucontext.TextureUpdater
}

// TextureHost allocates textures on behalf of a map.
// Implementations:
//   - gpu.Host allocates through a wgpu HAL device
//   - render.MemoryHost keeps textures in CPU memory
type TextureHost interface {
	CreateTexture(desc *gputypes.TextureDescriptor) (TextureHandle, error)
}

// textureDestroyer is implemented by handles that own GPU memory.
type textureDestroyer interface {
	Destroy()
}

// NewTextureDescriptor describes the index texture for a map of the given size.
func NewTextureDescriptor(size Size, label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         label,
		Size:          gputypes.NewExtent2D(size.Width, size.Height),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        TexelFormat,
		Usage:         TextureUsage,
	}
}
