package tilemap

import (
	"errors"
	"math"

	"github.com/gogpu/gputypes"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func pointsEqual(a, b Point) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

// memHost is a TextureHost keeping textures in memory.
type memHost struct {
	created  int
	failNext error
	textures []*memTexture
}

func (h *memHost) CreateTexture(desc *gputypes.TextureDescriptor) (TextureHandle, error) {
	if err := h.failNext; err != nil {
		h.failNext = nil
		return nil, err
	}
	h.created++
	tex := &memTexture{desc: *desc}
	h.textures = append(h.textures, tex)
	return tex, nil
}

type memTexture struct {
	desc      gputypes.TextureDescriptor
	data      []byte
	updates   int
	failNext  error
	destroyed bool
}

func (t *memTexture) Width() int  { return int(t.desc.Size.Width) }
func (t *memTexture) Height() int { return int(t.desc.Size.Height) }

func (t *memTexture) UpdateData(data []byte) error {
	if t.destroyed {
		return errors.New("destroyed")
	}
	if err := t.failNext; err != nil {
		t.failNext = nil
		return err
	}
	t.data = append(t.data[:0], data...)
	t.updates++
	return nil
}

func (t *memTexture) Destroy() { t.destroyed = true }

func nan() float64 { return math.NaN() }
