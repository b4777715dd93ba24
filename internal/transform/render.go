package transform

import (
	"math"
	"strconv"

	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/svgdoc"
)

// Format selects the serializer.
type Format int

const (
	// Compact is a single whitespace-collapsed line.
	Compact Format = iota
	// Formatted is one element per line with two-space indentation.
	Formatted
)

func (f Format) String() string {
	switch f {
	case Compact:
		return "compact"
	case Formatted:
		return "formatted"
	default:
		return "unknown"
	}
}

// Mode is a serializer plus whether to prefix the provenance comment.
type Mode struct {
	Format     Format
	Provenance bool
}

// Output modes.
var (
	// Preview is the inline preview: compact, no comment.
	Preview = Mode{Format: Compact}
	// Export is the copy/export payload: formatted, with comment.
	Export = Mode{Format: Formatted, Provenance: true}
	// Download is the downloaded file: compact, with comment.
	Download = Mode{Format: Compact, Provenance: true}
)

// ParseMode maps "preview", "export" and "download" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "preview", "inline", "":
		return Preview, true
	case "export", "copy":
		return Export, true
	case "download":
		return Download, true
	default:
		return Mode{}, false
	}
}

// ProvenancePrefix starts the comment placed before exported markup.
const ProvenancePrefix = "S-V-Go Library: "

// FileSuffix is appended to the icon name for downloaded files.
const FileSuffix = "-custom.svg"

// Filename returns the download filename for icon.
func Filename(icon string) string {
	return icon + FileSuffix
}

// Render applies cfg to source and serializes the result. It fails only
// when source is not a well-formed SVG document (svgdoc.ErrMalformed).
// cfg is assumed valid; callers validate before rendering.
func Render(source string, cfg custom.Config, mode Mode) (string, error) {
	doc, err := svgdoc.ParseString(source)
	if err != nil {
		return "", err
	}
	root := doc.Root
	style := root.Style()

	size := formatNumber(cfg.Size)
	root.SetAttr("width", size)
	root.SetAttr("height", size)

	rotation := wrapDegrees(cfg.Rotation)
	style.Set("transform", "rotate("+formatNumber(rotation)+"deg)")

	root.SetAttr("fill", string(cfg.Fill))
	style.Set("fill", string(cfg.Fill))

	if cfg.StrokeWidth > 0 {
		width := formatNumber(cfg.StrokeWidth)
		root.SetAttr("stroke", string(cfg.Stroke))
		root.SetAttr("stroke-width", width)
		style.Set("stroke", string(cfg.Stroke))
		style.Set("stroke-width", width)
	} else {
		root.SetAttr("stroke", string(custom.None))
		root.RemoveAttr("stroke-width")
		style.Set("stroke", string(custom.None))
		style.Remove("stroke-width")
	}

	applyAnimation(root, style, cfg.Animate, cfg.Icon, rotation)
	root.SetStyle(style)

	var out string
	switch mode.Format {
	case Formatted:
		out = doc.Formatted()
	default:
		out = doc.Compact()
	}
	if mode.Provenance {
		out = "<!-- " + svgdoc.SanitizeComment(ProvenancePrefix+cfg.Icon) + " -->\n" + out
	}
	return out, nil
}

// wrapDegrees wraps deg into (-360, 360), keeping its sign.
func wrapDegrees(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r == 0 {
		return 0 // normalizes -0
	}
	return r
}

// formatNumber writes f in the shortest exact decimal form, without an
// exponent.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
