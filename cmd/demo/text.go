package main

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/vecgl/pkg/canvas"
	"github.com/Faultbox/vecgl/pkg/canvas/glbackend"
)

// Atlas grid for printable ASCII (32..126) rendered with the 7x13
// bitmap face.
const (
	atlasFirst = 32
	atlasLast  = 126
	atlasCols  = 16
	cellW      = 7
	cellH      = 13
)

// textAtlas is a single glyph page holding the printable ASCII range of
// the basicfont face, drawn white on transparent so the fill color
// tints the glyphs.
type textAtlas struct {
	tex canvas.Texture
}

// newTextAtlas rasterizes the face into a texture page.
func newTextAtlas(b *glbackend.Backend) (*textAtlas, error) {
	rows := (atlasLast - atlasFirst + atlasCols) / atlasCols
	img := image.NewRGBA(image.Rect(0, 0, atlasCols*cellW, rows*cellH))

	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	for ch := atlasFirst; ch <= atlasLast; ch++ {
		col := (ch - atlasFirst) % atlasCols
		row := (ch - atlasFirst) / atlasCols
		d.Dot = fixed.P(col*cellW, row*cellH+face.Ascent)
		d.DrawString(string(rune(ch)))
	}

	tex, err := b.UploadImage(img)
	if err != nil {
		return nil, fmt.Errorf("uploading glyph page: %w", err)
	}
	return &textAtlas{tex: tex}, nil
}

// draw renders s at (x, y) with the canvas fill color. y is the top of
// the line; scale multiplies the bitmap cell size.
func (a *textAtlas) draw(c *canvas.Canvas, x, y, scale float32, s string) {
	texW := float32(a.tex.Width)
	texH := float32(a.tex.Height)

	pen := x
	for _, r := range s {
		if r < atlasFirst || r > atlasLast {
			r = '?'
		}
		col := int(r-atlasFirst) % atlasCols
		row := int(r-atlasFirst) / atlasCols

		u0 := float32(col*cellW) / texW
		v0 := float32(row*cellH) / texH
		u1 := float32((col+1)*cellW) / texW
		v1 := float32((row+1)*cellH) / texH

		c.DrawGlyph(a.tex.ID, canvas.GlyphQuad{
			X0: pen, Y0: y,
			X1: pen + cellW*scale, Y1: y + cellH*scale,
			U0: u0, V0: v0, U1: u1, V1: v1,
		})
		pen += cellW * scale
	}
}
