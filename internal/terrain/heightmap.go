package terrain

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"firespread/internal/core"
	"firespread/internal/world"
)

// HeightMultiplier scales grayscale intensity (0..1) into tile height.
const HeightMultiplier = 5.0

// DefaultImportHeight fills the fallback field when an import fails.
const DefaultImportHeight = 1.0

// ErrImageTooSmall reports an image with fewer pixels than the world needs.
var ErrImageTooSmall = errors.New("terrain: height map image smaller than world")

// ImportHeightMap decodes a grayscale image and samples it into a
// width×depth height field. The sample stride is
// min(imgW/width, imgH/depth, imgW-1, imgH-1); depth is measured from the
// bottom row of the image.
func ImportHeightMap(r io.Reader, width, depth int) (*core.Grid[float64], error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", world.ErrInvalidSize, width, depth)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("terrain: decode height map: %w", err)
	}
	b := img.Bounds()
	iw, ih := b.Dx(), b.Dy()
	if iw < width || ih < depth {
		return nil, fmt.Errorf("%w: %s image %dx%d, need %dx%d", ErrImageTooSmall, format, iw, ih, width, depth)
	}
	stride := min(iw/width, ih/depth, iw-1, ih-1)

	out := core.NewGrid[float64](width, depth)
	for x := 0; x < width; x++ {
		for y := 0; y < depth; y++ {
			px := b.Min.X + x*stride
			py := b.Max.Y - 1 - y*stride
			out.Set(x, y, Grayscale(img.At(px, py).RGBA())*HeightMultiplier)
		}
	}
	return out, nil
}

// Grayscale converts 16-bit RGBA channels into luma in [0,1].
func Grayscale(r, g, b, _ uint32) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
}

// UniformHeight returns a field filled with DefaultImportHeight.
func UniformHeight(width, depth int) *core.Grid[float64] {
	out := core.NewGrid[float64](width, depth)
	out.Fill(DefaultImportHeight)
	return out
}

// LoadHeightMap reads an image file. When the file is missing, unreadable or
// too small, it returns a uniform field together with the cause so callers
// can report it.
func LoadHeightMap(path string, width, depth int) (*core.Grid[float64], error) {
	f, err := os.Open(path)
	if err != nil {
		return UniformHeight(width, depth), fmt.Errorf("terrain: open height map: %w", err)
	}
	defer f.Close()
	h, err := ImportHeightMap(f, width, depth)
	if err != nil {
		return UniformHeight(width, depth), err
	}
	return h, nil
}

// WorldFromHeights builds a dry grass world on an imported height field.
func WorldFromHeights(height *core.Grid[float64], waterHeight float64) (*world.World, error) {
	moisture := core.NewGrid[int](height.W, height.D)
	vegetation := core.NewGrid[world.Vegetation](height.W, height.D)
	vegetation.Fill(world.Grass)
	return world.FromFields(height, moisture, vegetation, waterHeight)
}
