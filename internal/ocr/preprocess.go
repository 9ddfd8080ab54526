package ocr

import (
	"image"
	"image/color"
)

const (
	contrastGain  = 1.5
	darkCutoff    = 100
	lightCutoff   = 170
	contrastPivot = 128
)

// Preprocess converts img to grayscale, stretches contrast around mid-grey
// and pushes dark pixels darker and light pixels lighter.
func Preprocess(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: adjust(luminance(img.At(x, y)))})
		}
	}
	return out
}

// luminance is BT.601 luma in 0..255.
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257
}

func adjust(v float64) uint8 {
	v = clamp((v-contrastPivot)*contrastGain + contrastPivot)
	switch {
	case v < darkCutoff:
		v /= 2
	case v > lightCutoff:
		v += (255 - v) / 2
	}
	return uint8(clamp(v) + 0.5)
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return v
}
