package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/druid-frontend/internal/asset"
	"github.com/vovakirdan/druid-frontend/internal/render"
)

// upperHalf draws the top pixel in the foreground and the bottom pixel in
// the background, so every cell carries two vertically stacked pixels.
const upperHalf = "▀"

// FitSize returns the largest pixel size that fits cols x rows cells
// (two pixels per cell vertically) while keeping the w:h aspect ratio.
func FitSize(w, h, cols, rows int) (int, int) {
	if w <= 0 || h <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	maxW, maxH := cols, rows*2
	if w*maxH > h*maxW {
		return maxW, max(1, h*maxW/w)
	}
	return max(1, w*maxH/h), maxH
}

// RenderFramebuffer renders the framebuffer into at most cols x rows
// terminal cells using the default lipgloss renderer.
func RenderFramebuffer(fb *render.Framebuffer, cols, rows int) string {
	return RenderFramebufferWith(lipgloss.DefaultRenderer(), fb, cols, rows)
}

// RenderFramebufferWith is RenderFramebuffer for a specific renderer,
// such as the one bound to an SSH session.
// Adjacent cells with the same colors are grouped to minimize ANSI escape sequences.
func RenderFramebufferWith(r *lipgloss.Renderer, fb *render.Framebuffer, cols, rows int) string {
	w, h := FitSize(fb.Width(), fb.Height(), cols, rows)
	if w == 0 || h == 0 {
		return ""
	}
	frame := asset.FitBitmap(fb.Snapshot(), w, h)

	var sb strings.Builder
	sb.Grow(w*(h/2+1)*4 + h)

	for y := 0; y < h; y += 2 {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < w {
			top, bottom := frame.At(x, y), cellBottom(frame, x, y)

			n := 0
			for x < w && frame.At(x, y) == top && cellBottom(frame, x, y) == bottom {
				n++
				x++
			}

			style := r.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom)))
			sb.WriteString(style.Render(strings.Repeat(upperHalf, n)))
		}
	}
	return sb.String()
}

// cellBottom returns the lower pixel of the cell at (x, y), or black past
// the last row of an odd-height frame.
func cellBottom(b *render.Bitmap, x, y int) render.Color {
	if y+1 >= b.Height {
		return render.Black
	}
	return b.At(x, y+1)
}

// hexColor flattens c over black and formats it for lipgloss.
func hexColor(c render.Color) string {
	r, g, b, a := c.RGBA()
	if a != 0xFF {
		r = uint8(uint16(r) * uint16(a) / 0xFF)
		g = uint8(uint16(g) * uint16(a) / 0xFF)
		b = uint8(uint16(b) * uint16(a) / 0xFF)
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
