// Package barcode renders Code 128 barcodes as PNG images for inline email
// attachments.
package barcode

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	MimeTypePng = "image/png"

	// 2.8 dots per module at 160 dpi, rounded to whole pixels.
	moduleWidth = 3
	barHeight   = 80
	textGap     = 4

	probeValue = "0123456789"
)

var (
	RenderingEnvironmentErr = errors.New("The barcode rendering environment is not usable")

	pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	palette      = color.Palette{color.White, color.Black}
)

// Encoder renders barcodes. The zero value is ready to use and safe for
// concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode renders value as a PNG with the value printed below the bars. Blank
// values produce an empty result and no error.
func (e *Encoder) Encode(value string) ([]byte, error) {
	if strings.TrimSpace(value) == "" {
		return []byte{}, nil
	}

	img, err := render(value)
	if err != nil {
		return nil, err
	}

	out := &bytes.Buffer{}
	encoder := png.Encoder{CompressionLevel: png.BestCompression}

	if err := encoder.Encode(out, img); err != nil {
		return nil, errors.Wrapf(err, "failed to encode png for barcode %s", value)
	}

	return out.Bytes(), nil
}

// EncodeBase64 is Encode with the result base64 encoded.
func (e *Encoder) EncodeBase64(value string) (string, error) {
	data, err := e.Encode(value)
	if err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", nil
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// CheckEnvironment renders a probe barcode and verifies the output. It is meant
// to run once at start up, a failure means no barcode can be produced.
func (e *Encoder) CheckEnvironment() error {
	data, err := e.Encode(probeValue)
	if err != nil {
		return errors.Wrap(RenderingEnvironmentErr, err.Error())
	}

	if !bytes.HasPrefix(data, pngSignature) {
		return errors.Wrap(RenderingEnvironmentErr, "probe image is not a png")
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(RenderingEnvironmentErr, err.Error())
	}

	if img.Bounds().Dy() <= barHeight {
		return errors.Wrap(RenderingEnvironmentErr, "probe image has no text line")
	}

	return nil
}

func render(value string) (image.Image, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %q as code 128", value)
	}

	modules := code.Bounds().Dx()
	bars, err := barcode.Scale(code, modules*moduleWidth, barHeight)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to scale barcode %q", value)
	}

	face := basicfont.Face7x13
	drawer := &font.Drawer{Face: face}
	textWidth := drawer.MeasureString(value).Ceil()
	textHeight := face.Metrics().Height.Ceil()

	width := bars.Bounds().Dx()
	if textWidth > width {
		width = textWidth
	}
	height := barHeight + textGap + textHeight

	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	barsAt := image.Rect((width-bars.Bounds().Dx())/2, 0, width, barHeight)
	draw.Draw(img, barsAt, bars, bars.Bounds().Min, draw.Src)

	drawer.Dst = img
	drawer.Src = image.Black
	drawer.Dot = fixed.P((width-textWidth)/2, barHeight+textGap+face.Metrics().Ascent.Ceil())
	drawer.DrawString(value)

	return img, nil
}
