package render

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// NormalizeViewBox rewrites the root <svg> tag so the drawing scales from a
// zero origin with width and height equal to the viewBox size. SVGs without
// a usable viewBox are returned unchanged.
func NormalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	// Only the root tag; nested <svg> elements keep their attributes.
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	out := make([]byte, 0, len(svg)+len(tag))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
