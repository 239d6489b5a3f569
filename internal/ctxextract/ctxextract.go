// Package ctxextract implements the Context Extractor (C3): for each
// element, a ranked list of TextContext built from labels, dl/dt/dd and
// th/td indexes, siblings, and proximity search.
package ctxextract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/formsender/core/internal/models"
)

// Reader is the narrow DOM-reading contract the extractor needs. A page's
// browser driver (or a goquery snapshot, for the static code path) supplies
// one implementation per page; see internal/browser and internal/formscan.
type Reader interface {
	// LabelForText returns the text of label[for=elementID], if any.
	LabelForText(elementID string) (string, bool)
	// AncestorLabelText returns the text of the nearest ancestor <label>.
	AncestorLabelText(elementID string) (string, bool)
	// AriaLabelledByText resolves aria-labelledby into concatenated text.
	AriaLabelledByText(elementID string) (string, bool)
	// ULLIHeadingText returns the nearest preceding <li> heading text, when
	// the element lives inside a <ul>/<li> layout.
	ULLIHeadingText(elementID string) (string, bool)
	// ParentRemainderText returns the parent's text with child-element
	// texts subtracted, when long enough to be meaningful.
	ParentRemainderText(elementID string) (string, bool)
	// DTIndexText looks up the page-scoped dl/dt/dd index built once per
	// page (see Index).
	DTIndexText(elementID string) (string, bool)
	// THIndexText looks up the page-scoped table/th/td index.
	THIndexText(elementID string) (string, bool)
	// SiblingTexts returns up to 3 previous and 2 next element-sibling
	// texts, nearest first, excluding input elements.
	SiblingTexts(elementID string) (prev []string, next []string)
	// PositionContexts returns proximity-based contexts within radiusPx,
	// already classified into above/below/left/right/nearby with an
	// assigned DistancePx and a Confidence that already carries the
	// distance decay; the extractor adds them unchanged.
	PositionContexts(elementID string, radiusPx float64) []models.TextContext
}

const (
	defaultRadiusPx      = 150
	shortCircuitConfidence = 0.7
	maxContextsPerElement  = 5
)

var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[\s\p{P}\p{S}]+$`), // symbols/punctuation only
	regexp.MustCompile(`^.$`),               // single letter
	regexp.MustCompile(`(?i)^(cookie|javascript|submit|検索|戻る)$`),
}

// Extract builds the ranked TextContext list for one element, per
// SPEC_FULL.md §4.3's probing order and short-circuit rule.
func Extract(elementID string, r Reader) []models.TextContext {
	var contexts []models.TextContext

	add := func(text string, ok bool, source models.SourceType, confidence float64) {
		if !ok || isNoise(text) {
			return
		}
		contexts = append(contexts, models.TextContext{
			Text: strings.TrimSpace(collapseWhitespace(text)), SourceType: source, Confidence: confidence,
		})
	}

	// 1. Associated label.
	t, ok := r.LabelForText(elementID)
	add(t, ok, models.SourceLabelFor, 0.95)
	if !hasStrongHit(contexts) {
		t, ok = r.AncestorLabelText(elementID)
		add(t, ok, models.SourceLabelElement, 0.9)
	}
	if !hasStrongHit(contexts) {
		t, ok = r.AriaLabelledByText(elementID)
		add(t, ok, models.SourceAriaLabelledBy, 0.9)
	}

	// 2. UL/LI headings.
	if !hasStrongHit(contexts) {
		t, ok = r.ULLIHeadingText(elementID)
		add(t, ok, models.SourceULLILabel, 0.85)
	}

	// 3. Parent element remainder.
	t, ok = r.ParentRemainderText(elementID)
	add(t, ok, models.SourceParentElement, 0.5)

	// 4. DT/DD index.
	if !hasStrongHit(contexts) {
		t, ok = r.DTIndexText(elementID)
		add(t, ok, models.SourceDTLabel, 0.88)
	}

	// 5. TH/TD index.
	if !hasStrongHit(contexts) {
		t, ok = r.THIndexText(elementID)
		add(t, ok, models.SourceTHLabel, 0.82)
	}

	// 6. Siblings, confidence decaying by position.
	prevSiblings, nextSiblings := r.SiblingTexts(elementID)
	for i, s := range prevSiblings {
		add(s, s != "", models.SourcePrevSibling, 0.6-float64(i)*0.1)
	}
	for i, s := range nextSiblings {
		add(s, s != "", models.SourceNextSibling, 0.5-float64(i)*0.1)
	}

	// 7. Position-based search, unless a strong short-circuit already fired.
	if !shortCircuit(contexts) {
		contexts = append(contexts, r.PositionContexts(elementID, defaultRadiusPx)...)
	}

	return finalize(contexts)
}

// hasStrongHit reports whether any already-collected context is from a
// strong source with decent confidence, used to skip weaker same-tier
// probes (e.g. aria-labelledby once label[for] already matched).
func hasStrongHit(contexts []models.TextContext) bool {
	for _, c := range contexts {
		if c.IsStrong() && c.Confidence >= 0.8 {
			return true
		}
	}
	return false
}

// shortCircuit implements SPEC_FULL.md §4.3: any strong context at
// confidence >= 0.7 skips the position-based search entirely.
func shortCircuit(contexts []models.TextContext) bool {
	for _, c := range contexts {
		if c.IsStrong() && c.Confidence >= shortCircuitConfidence {
			return true
		}
	}
	return false
}

func finalize(contexts []models.TextContext) []models.TextContext {
	seen := make(map[string]bool, len(contexts))
	out := make([]models.TextContext, 0, len(contexts))
	for _, c := range contexts {
		key := string(c.SourceType) + "|" + c.Text
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})

	if len(out) > maxContextsPerElement {
		out = out[:maxContextsPerElement]
	}
	return out
}

func isNoise(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	for _, re := range noisePatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}
