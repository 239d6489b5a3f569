package models

// SourceType enumerates where a TextContext's text came from. Ordering here
// is documentation only; priority is enforced by internal/ctxextract.
type SourceType string

const (
	SourceLabelFor       SourceType = "label_for"
	SourceLabelParent    SourceType = "label_parent"
	SourceLabelElement   SourceType = "label_element"
	SourceAriaLabelledBy SourceType = "aria_labelledby"
	SourceDTLabel        SourceType = "dt_label"
	SourceDTLabelIndex   SourceType = "dt_label_index"
	SourceTHLabel        SourceType = "th_label"
	SourceTHLabelIndex   SourceType = "th_label_index"
	SourceULLILabel      SourceType = "ul_li_label"
	SourceParentElement  SourceType = "parent_element"
	SourceFieldsetLegend SourceType = "fieldset_legend"
	SourcePrevSibling    SourceType = "prev_sibling"
	SourceNextSibling    SourceType = "next_sibling"
	SourcePositionAbove  SourceType = "position_above"
	SourcePositionBelow  SourceType = "position_below"
	SourcePositionLeft   SourceType = "position_left"
	SourcePositionRight  SourceType = "position_right"
	SourcePositionNearby SourceType = "position_nearby"
)

// StrongSources is the set of source types considered authoritative labels,
// as opposed to proximity heuristics. Used by internal/ctxextract's
// short-circuit checks and internal/scorer's raised context cap;
// internal/exclusion keeps its own strong-source set.
var StrongSources = map[SourceType]bool{
	SourceLabelFor:       true,
	SourceLabelParent:    true,
	SourceLabelElement:   true,
	SourceAriaLabelledBy: true,
	SourceDTLabel:        true,
	SourceDTLabelIndex:   true,
	SourceTHLabel:        true,
	SourceTHLabelIndex:   true,
	SourceULLILabel:      true,
}

// TextContext is one piece of textual evidence about what an element
// represents, as produced by internal/ctxextract.
type TextContext struct {
	Text             string
	SourceType       SourceType
	Confidence       float64 // [0,1]
	PositionRelative string
	DistancePx       float64 // 0 when not position-based
}

// IsStrong reports whether this context's source is in StrongSources.
func (c TextContext) IsStrong() bool {
	return StrongSources[c.SourceType]
}
