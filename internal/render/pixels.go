package render

import "image/color"

// fillPaletteRGBA converts cell classes into RGBA pixels using a palette.
// Classes past the end of the palette use its last entry. When the palette
// is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// shadeRGBA scales the colour channels of each pixel whose factor is
// positive. Alpha is untouched.
func shadeRGBA(buf []byte, factors []float64) {
	for i, f := range factors {
		if f <= 0 {
			continue
		}
		base := i * 4
		for c := 0; c < 3; c++ {
			v := float64(buf[base+c]) * f
			if v > 255 {
				v = 255
			}
			buf[base+c] = uint8(v)
		}
	}
}
