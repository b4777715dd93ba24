package transform

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/microresearch/svgo/internal/svgdoc"
)

// AnimAttr marks style elements injected by Render.
const AnimAttr = "data-anim"

const (
	animDuration = "0.6s"
	animEasing   = "cubic-bezier(0.25, 0.8, 0.25, 1)"
)

// AnimationName returns the keyframes name for icon: a CSS-safe slug of
// the name plus an FNV-1a hash of the exact name, so icons whose slugs
// collide ("Home" and "home", "a.b" and "a_b") still get distinct names.
func AnimationName(icon string) string {
	var b strings.Builder
	b.WriteString("svgo-enter")
	if icon != "" {
		b.WriteByte('-')
	}
	for _, r := range icon {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteByte('_')
		}
	}
	if icon != "" {
		h := fnv.New32a()
		h.Write([]byte(icon))
		fmt.Fprintf(&b, "-%08x", h.Sum32())
	}
	return b.String()
}

// keyframes fades and scales in while turning from rotation-45 to rotation.
func keyframes(name, rotation, from string) string {
	return fmt.Sprintf(
		"@keyframes %s{0%%{opacity:0;transform:scale(0.5) rotate(%sdeg)}100%%{opacity:1;transform:scale(1) rotate(%sdeg)}}",
		name, from, rotation,
	)
}

func animationValue(name string) string {
	return name + " " + animDuration + " " + animEasing + " forwards"
}

func isInjected(e *svgdoc.Element) bool {
	if e.Name.Local != "style" {
		return false
	}
	_, ok := e.Attr(AnimAttr)
	return ok
}

// applyAnimation removes earlier injections and, when enabled, prepends a
// single style element for this render. rotation is already wrapped.
func applyAnimation(root *svgdoc.Element, style *svgdoc.Style, enabled bool, icon string, rotation float64) {
	root.RemoveElements(isInjected)
	if !enabled {
		style.Remove("animation")
		return
	}

	name := AnimationName(icon)
	el := svgdoc.NewElement("style")
	el.SetAttr(AnimAttr, name)
	el.Append(svgdoc.Text(keyframes(name, formatNumber(rotation), formatNumber(rotation-45))))
	root.Prepend(el)
	style.Set("animation", animationValue(name))
}
