// Package penalty implements the hidden/disabled/honeypot penalty engine
// (C5). Each penalty is tagged with the reason string that later surfaces
// in ScoreBreakdown.MatchedPatterns, per the original classifier's
// per-penalty tags (see SPEC_FULL.md §12).
package penalty

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/formsender/core/internal/models"
)

const (
	visibilityPenalty = -200
	disabledPenalty   = -100 // half of visibilityPenalty
	tabindexPenalty   = -100
)

var opacityRe = regexp.MustCompile(`opacity\s*:\s*([0-9.]+)`)

// Calculate returns the total penalty (always <= 0) and the ordered list of
// reason tags that fired, mirroring the original's
// calculate_penalties(element, element_info, score_weights).
func Calculate(el models.ElementDescriptor) (int, []string) {
	total := 0
	var reasons []string

	if !el.Visible {
		total += visibilityPenalty
		reasons = append(reasons, "not_visible")
	}
	if !el.Enabled {
		total += disabledPenalty
		reasons = append(reasons, "disabled")
	}
	if el.Type == "hidden" {
		total += visibilityPenalty
		reasons = append(reasons, "type_hidden")
	}
	if el.AriaHidden {
		total += visibilityPenalty
		reasons = append(reasons, "aria_hidden")
	}
	if el.TabIndex == "-1" {
		total += tabindexPenalty
		reasons = append(reasons, "tabindex_negative")
	}

	style := strings.ToLower(el.Style)
	if style != "" {
		switch {
		case strings.Contains(style, "display:none") || strings.Contains(style, "display: none"):
			total += visibilityPenalty
			reasons = append(reasons, "style_hidden")
		case strings.Contains(style, "visibility:hidden") || strings.Contains(style, "visibility: hidden"):
			total += visibilityPenalty
			reasons = append(reasons, "style_hidden")
		case strings.Contains(style, "pointer-events:none") || strings.Contains(style, "pointer-events: none"):
			total += visibilityPenalty
			reasons = append(reasons, "pointer_events_none")
		}

		if m := opacityRe.FindStringSubmatch(style); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v == 0.0 {
				total += visibilityPenalty
				reasons = append(reasons, "opacity_zero")
			}
		}
	}

	if isHoneypotStyle(el) {
		total += visibilityPenalty
		reasons = append(reasons, "honeypot_style_detected")
	}

	return total, reasons
}

// isHoneypotStyle matches elements pinned to a 1px box, clipped with
// overflow:hidden, or pushed far off-screen — the classic honeypot trap
// signature from SPEC_FULL.md §4.5.
func isHoneypotStyle(el models.ElementDescriptor) bool {
	style := strings.ToLower(el.Style)
	positionedAbsolute := strings.Contains(style, "position:absolute") || strings.Contains(style, "position: absolute")
	if positionedAbsolute {
		if strings.Contains(style, "height:1px") || strings.Contains(style, "height: 1px") ||
			strings.Contains(style, "width:1px") || strings.Contains(style, "width: 1px") ||
			strings.Contains(style, "overflow:hidden") || strings.Contains(style, "overflow: hidden") {
			return true
		}
	}
	return el.BoundingBox.Offscreen()
}
