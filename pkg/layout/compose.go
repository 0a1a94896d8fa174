package layout

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

const (
	paddingRatio = 0.15
	maxPadding   = 5

	// Margins around the text on the intermediate line canvas.
	canvasMarginX = 2
	canvasMarginY = 2
)

// ExpandBox grows a box vertically by min(15% of its height, 5) pixels on each side.
func ExpandBox(b LineBox) LineBox {
	pad := min(int(paddingRatio*float64(b.H)), maxPadding)
	return LineBox{X: b.X, Y: b.Y - pad, W: b.W, H: b.H + 2*pad}
}

// Compositor paints translated lines over the boxes of their source lines.
type Compositor struct {
	Font   FontSource
	Logger logrus.FieldLogger
}

// Composite draws lines[i] into the expanded boxes[i] of dst as black text on
// white. The font size is fitted to the unexpanded box width and the rendered
// line is scaled to fill the expanded box. It returns the painted rectangles.
func (c *Compositor) Composite(dst xdraw.Image, lines []string, boxes []LineBox) ([]image.Rectangle, error) {
	if len(lines) != len(boxes) {
		return nil, fmt.Errorf("%w: %d translated lines, %d boxes", ErrInternalAlignment, len(lines), len(boxes))
	}

	log := c.Logger
	if log == nil {
		log = discardLogger()
	}

	painted := make([]image.Rectangle, 0, len(lines))
	for i, line := range lines {
		box := boxes[i]
		r := ExpandBox(box).Rect()
		if r.Empty() {
			log.WithField("line", i).Warn("Skipping line with empty box")
			continue
		}

		if strings.TrimSpace(line) == "" {
			xdraw.Draw(dst, r, image.NewUniform(color.White), image.Point{}, xdraw.Src)
			painted = append(painted, r)
			continue
		}

		size := FitFontSize(line, box.W, c.Font)
		canvas, err := c.renderLine(line, size)
		if err != nil {
			return nil, fmt.Errorf("failed to render line %d: %w", i, err)
		}
		xdraw.BiLinear.Scale(dst, r, canvas, canvas.Bounds(), xdraw.Src, nil)
		painted = append(painted, r)

		log.WithFields(logrus.Fields{
			"line": i,
			"size": size,
			"box":  r,
		}).Debug("Painted line")
	}
	return painted, nil
}

// renderLine draws text on a white canvas just large enough for it.
func (c *Compositor) renderLine(text string, size int) (image.Image, error) {
	face, err := c.Font.Face(size)
	if err != nil {
		return nil, err
	}
	metrics := face.Metrics()
	width := max(TextWidth(face, text), 0) + 2*canvasMarginX
	height := (metrics.Ascent+metrics.Descent).Ceil() + 2*canvasMarginY

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(text, canvasMarginX, float64(canvasMarginY+metrics.Ascent.Ceil()))
	return dc.Image(), nil
}
