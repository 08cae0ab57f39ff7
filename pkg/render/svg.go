package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/snapguide/pkg/align"
	"github.com/matzehuels/snapguide/pkg/drag"
)

// Guide opacity while the box is held on a center guide, and while it is not.
const (
	heldAlpha = 0.8
	idleAlpha = 0.2
)

// RenderSVG draws frame inside bounds as an SVG document.
func RenderSVG(frame drag.Frame, bounds align.Rect) []byte {
	var buf bytes.Buffer
	w, h := bounds.Width, bounds.Height

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)
	fmt.Fprintf(&buf, `  <rect class="container" x="0" y="0" width="%.1f" height="%.1f" fill="rgb(242,242,230)" stroke="black" stroke-width="1"/>`+"\n", w, h)

	renderGuide(&buf, "guide-h", 0, h/2, w, h/2, frame.CenterY)
	renderGuide(&buf, "guide-v", w/2, 0, w/2, h, frame.CenterX)

	b := frame.Box
	fmt.Fprintf(&buf, `  <rect class="box" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="rgb(199,199,199)" stroke="black" stroke-width="1"/>`+"\n",
		b.X, b.Y, b.Width, b.Height)
	fmt.Fprintf(&buf, `  <path class="box-center" d="M %.1f %.1f L %.1f %.1f M %.1f %.1f L %.1f %.1f" stroke="black" stroke-width="1"/>`+"\n",
		b.MinX(), b.MidY(), b.MaxX(), b.MidY(), b.MidX(), b.MinY(), b.MidX(), b.MaxY())

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGuide(buf *bytes.Buffer, class string, x1, y1, x2, y2 float64, held bool) {
	alpha := idleAlpha
	if held {
		alpha = heldAlpha
		class += " held"
	}
	fmt.Fprintf(buf, `  <line class="%s" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="rgb(0,0,255)" stroke-opacity="%.1f" stroke-width="1"/>`+"\n",
		class, x1, y1, x2, y2, alpha)
}
