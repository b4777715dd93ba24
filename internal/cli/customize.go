package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/preset"
	"github.com/microresearch/svgo/internal/session"
)

// CustomizeOptions holds the customization flags shared by render and
// export. Values stay textual and go through the same validation as form
// input.
type CustomizeOptions struct {
	Size        string
	StrokeWidth string
	Rotate      string
	Fill        string
	Stroke      string
	Animate     bool
	Preset      string
}

func (c *CustomizeOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&c.Size, "size", "", "edge length in user units (default 100)")
	f.StringVar(&c.StrokeWidth, "stroke-width", "", "stroke width; 0 removes the stroke")
	f.StringVar(&c.Rotate, "rotate", "", "rotation in degrees")
	f.StringVar(&c.Fill, "fill", "", "fill colour: hex, name, none or inherit")
	f.StringVar(&c.Stroke, "stroke", "", "stroke colour: hex, name, none or inherit")
	f.BoolVar(&c.Animate, "animate", false, "add the entrance animation")
	f.StringVar(&c.Preset, "preset", "", "preset file (.yaml, .yml, .cue or .json) applied before the flags")
}

// edits returns the flags the user set as field/value pairs.
func (c *CustomizeOptions) edits(cmd *cobra.Command) [][2]string {
	flags := cmd.Flags()
	var out [][2]string
	add := func(flag, field, value string) {
		if flags.Changed(flag) {
			out = append(out, [2]string{field, value})
		}
	}
	add("size", custom.FieldSize, c.Size)
	add("stroke-width", custom.FieldStrokeWidth, c.StrokeWidth)
	add("rotate", custom.FieldRotation, c.Rotate)
	add("fill", custom.FieldFill, c.Fill)
	add("stroke", custom.FieldStroke, c.Stroke)
	add("animate", custom.FieldAnimate, strconv.FormatBool(c.Animate))
	return out
}

// customize opens icon in a fresh session and applies the preset and the
// flags in that order. The returned output may be the placeholder; the
// error is reserved for rejected input and cancellation.
func customize(ctx context.Context, rt *runtime, icon string, c *CustomizeOptions, cmd *cobra.Command) (session.Output, error) {
	sess := session.New(rt.cache, session.WithAccent(rt.settings.AccentColor()))

	out, err := sess.Open(ctx, icon)
	if err != nil {
		return out, err
	}

	if c.Preset != "" {
		p, err := preset.Load(c.Preset)
		if err != nil {
			return out, err
		}
		cfg, err := p.Apply(sess.Config())
		if err != nil {
			return out, err
		}
		out, err = sess.Update(ctx, func(custom.Config) custom.Config { return cfg })
		if err != nil {
			return out, err
		}
	}

	for _, e := range c.edits(cmd) {
		out, err = sess.Set(ctx, e[0], e[1])
		if err != nil {
			return out, err
		}
	}
	return out, nil
}
