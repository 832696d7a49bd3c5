package glbackend

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/vecgl/pkg/canvas"
)

// UploadImage uploads an image as a 2D texture and returns its handle
// with the dimensions the canvas needs for UV normalization. Images
// wider or taller than the GL implementation's maximum texture size are
// scaled down to fit.
func (b *Backend) UploadImage(img image.Image) (canvas.Texture, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return canvas.Texture{}, fmt.Errorf("empty image %dx%d", w, h)
	}

	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if maxSize > 0 && (w > int(maxSize) || h > int(maxSize)) {
		scale := float64(maxSize) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(rgba, rgba.Bounds(), img, bounds, xdraw.Over, nil)

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&rgba.Pix[0]))

	return canvas.Texture{ID: id, Width: w, Height: h}, nil
}

// DeleteTexture releases a texture created by UploadImage.
func (b *Backend) DeleteTexture(tex canvas.Texture) {
	if tex.ID != 0 {
		gl.DeleteTextures(1, &tex.ID)
	}
}
