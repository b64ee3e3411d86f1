package scanning

import (
	"image"
	"image/color"
	"math"
)

// blurKernelSize and blurSigma match a 5x5 Gaussian blur with sigma
// derived from the kernel size (OpenCV's convention for sigma=0).
const (
	blurKernelSize = 5
	blurSigma      = 0.3*((blurKernelSize-1)*0.5-1) + 0.8

	threshBlockSize = 11
	threshC         = 2
)

// Preprocess normalizes a decoded receipt page for OCR: grayscale,
// Gaussian blur to suppress scan noise, adaptive Gaussian threshold to
// binarize under uneven lighting, and one dilation pass to thicken
// strokes. The output is a binary image with the input's dimensions.
func Preprocess(img image.Image) *image.Gray {
	gray := toGray(img)
	blurred := gaussianBlur(gray, blurKernelSize, blurSigma)
	binary := adaptiveThreshold(blurred, threshBlockSize, threshC)
	return dilate2x2(binary)
}

// toGray converts any image to single-channel grayscale. Already-gray
// images are copied so later passes never write into caller memory.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	if src, ok := img.(*image.Gray); ok {
		copy(gray.Pix, src.Pix)
		return gray
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// gaussianKernel builds a normalized 1D Gaussian kernel of the given size
func gaussianKernel(size int, sigma float64) []float64 {
	kernel := make([]float64, size)
	mid := size / 2
	var sum float64
	for i := range kernel {
		d := float64(i - mid)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// gaussianBlur applies a separable Gaussian blur. Edges are handled by
// clamping sample coordinates to the image border.
func gaussianBlur(src *image.Gray, size int, sigma float64) *image.Gray {
	kernel := gaussianKernel(size, sigma)
	horizontal := convolve(src, kernel, true)
	return convolve(horizontal, kernel, false)
}

func convolve(src *image.Gray, kernel []float64, horizontal bool) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	mid := len(kernel) / 2
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var acc float64
			for k, w := range kernel {
				sx, sy := x, y
				if horizontal {
					sx = clamp(x+k-mid, bounds.Min.X, bounds.Max.X-1)
				} else {
					sy = clamp(y+k-mid, bounds.Min.Y, bounds.Max.Y-1)
				}
				acc += w * float64(src.GrayAt(sx, sy).Y)
			}
			dst.SetGray(x, y, color.Gray{Y: uint8(acc + 0.5)})
		}
	}
	return dst
}

// adaptiveThreshold binarizes using a Gaussian-weighted neighborhood
// mean: a pixel is white when it exceeds the local mean minus c. The
// weighted mean is computed separably with a blockSize-tap kernel.
func adaptiveThreshold(src *image.Gray, blockSize, c int) *image.Gray {
	sigma := 0.3*((float64(blockSize)-1)*0.5-1) + 0.8
	kernel := gaussianKernel(blockSize, sigma)
	mean := convolve(convolve(src, kernel, true), kernel, false)

	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			threshold := int(mean.GrayAt(x, y).Y) - c
			if int(src.GrayAt(x, y).Y) > threshold {
				dst.SetGray(x, y, color.Gray{Y: 255})
			} else {
				dst.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return dst
}

// dilate2x2 applies one dilation pass with a 2x2 structuring element,
// thickening strokes so OCR has more to work with.
func dilate2x2(src *image.Gray) *image.Gray {
	bounds := src.Bounds()
	dst := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var max uint8
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					sx := clamp(x+dx, bounds.Min.X, bounds.Max.X-1)
					sy := clamp(y+dy, bounds.Min.Y, bounds.Max.Y-1)
					if v := src.GrayAt(sx, sy).Y; v > max {
						max = v
					}
				}
			}
			dst.SetGray(x, y, color.Gray{Y: max})
		}
	}
	return dst
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
