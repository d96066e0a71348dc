package glass

import (
	"strconv"
	"strings"
)

// BuildDisplacementSVG draws the displacement texture for g.
//
// The document is not meant to be looked at. feDisplacementMap reads its red
// and blue channels as horizontal and vertical offsets:
//
//  1. a black backdrop (zero displacement);
//  2. a rounded rectangle filled with a transparent→red gradient running
//     right to left, so horizontal strength rises toward one edge;
//  3. a rounded rectangle filled with a transparent→blue gradient running
//     top to bottom, mixed onto the red one with t.Blend;
//  4. a blurred block-out rectangle inset by g.CalculatedBorder and filled
//     with hsl(0 0% lightness% / alpha). It flattens the centre so the
//     refraction lives in the border ring.
//
// When the border is wider than half the element the inset rectangle's size
// is clamped at zero instead of going negative; the position is unchanged.
func BuildDisplacementSVG(g CalculatedGeometry, t TextureConfig) string {
	w, h := FormatNumber(g.Width), FormatNumber(g.Height)
	rx := FormatNumber(g.Radius)
	cb := FormatNumber(g.CalculatedBorder)
	iw := FormatNumber(max(g.InsetWidth(), 0))
	ih := FormatNumber(max(g.InsetHeight(), 0))

	var b strings.Builder
	b.Grow(1024)

	b.WriteString(`<svg class="displacement-image" viewBox="0 0 ` + w + ` ` + h + `" xmlns="http://www.w3.org/2000/svg">` + "\n")
	b.WriteString(`  <defs>` + "\n")
	b.WriteString(`    <linearGradient id="red" x1="100%" y1="0%" x2="0%" y2="0%">` + "\n")
	b.WriteString(`      <stop offset="0%" stop-color="#0000"/>` + "\n")
	b.WriteString(`      <stop offset="100%" stop-color="red"/>` + "\n")
	b.WriteString(`    </linearGradient>` + "\n")
	b.WriteString(`    <linearGradient id="blue" x1="0%" y1="0%" x2="0%" y2="100%">` + "\n")
	b.WriteString(`      <stop offset="0%" stop-color="#0000"/>` + "\n")
	b.WriteString(`      <stop offset="100%" stop-color="blue"/>` + "\n")
	b.WriteString(`    </linearGradient>` + "\n")
	b.WriteString(`  </defs>` + "\n")

	b.WriteString(`  <!-- backdrop -->` + "\n")
	b.WriteString(`  <rect x="0" y="0" width="` + w + `" height="` + h + `" fill="black"></rect>` + "\n")

	b.WriteString(`  <!-- red linear -->` + "\n")
	b.WriteString(`  <rect x="0" y="0" width="` + w + `" height="` + h + `" rx="` + rx + `" fill="url(#red)" />` + "\n")

	b.WriteString(`  <!-- blue linear -->` + "\n")
	b.WriteString(`  <rect x="0" y="0" width="` + w + `" height="` + h + `" rx="` + rx +
		`" fill="url(#blue)" style="mix-blend-mode: ` + attr(string(t.Blend)) + `" />` + "\n")

	b.WriteString(`  <!-- block out distortion -->` + "\n")
	b.WriteString(`  <rect x="` + cb + `" y="` + cb + `" width="` + iw + `" height="` + ih + `" rx="` + rx +
		`" fill="hsl(0 0% ` + FormatNumber(t.Lightness) + `% / ` + FormatNumber(t.Alpha) + `)" style="filter:blur(` + FormatNumber(t.Blur) + `px)" />` + "\n")

	b.WriteString(`</svg>`)
	return b.String()
}

// FormatNumber writes v as the shortest decimal that parses back to v, the
// same digits a browser prints for a JavaScript number in this range.
// Zero is always "0", never "-0".
func FormatNumber(v float64) string {
	if v == 0 {
		return "0" // no "-0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `"`, "&quot;")

// attr escapes a free-form string for use inside a double-quoted attribute.
// Valid blend modes pass through unchanged.
func attr(s string) string {
	return attrEscaper.Replace(s)
}
