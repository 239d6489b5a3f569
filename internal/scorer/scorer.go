// Package scorer implements the Element Scorer (C6): it combines the field
// pattern catalog (C2), exclusion rules (C4), and penalty engine (C5) to
// produce a score and breakdown for one (element, logical field) pair.
package scorer

import (
	"strings"

	"github.com/formsender/core/internal/exclusion"
	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/penalty"
	"github.com/formsender/core/internal/textutil"
)

// Weight constants from SPEC_FULL.md §4.6 step 4.
const (
	typeWeight        = 100
	typeGenericText   = 20
	tagWeight         = 50
	nameWeight        = 60
	idWeight          = 60
	placeholderWeight = 40
	classWeight       = 30
	morphologyWeight  = 25

	contextCapDefault = 100
	contextCapStrong  = 200
	contextCapPostal  = 40

	textareaMessageBonus = 20
	loneTextPenalty      = -40

	metadataSofteningThreshold = 40
	metadataSofteningFactor    = 0.7
)

var sourceWeights = map[models.SourceType]float64{
	models.SourceDTLabel:        3.0,
	models.SourceDTLabelIndex:   3.0,
	models.SourceTHLabel:        2.0,
	models.SourceTHLabelIndex:   2.0,
	models.SourceLabelFor:       2.5,
	models.SourceAriaLabelledBy: 2.5,
	models.SourceULLILabel:      2.5,
	models.SourceLabelParent:    1.8,
}

// whitelistedCoreFields never take the loneTextPenalty even with zero
// context, per SPEC_FULL.md §4.6 step 7.
var whitelistedCoreFields = map[string]bool{
	"company_name": true, "email": true, "last_name": true, "first_name": true,
	"unified_full_name": true, "message_body": true, "subject": true,
}

// Scorer scores (element, field) pairs using its own Normalizer instance
// for lexical matching.
type Scorer struct {
	norm *textutil.Normalizer
}

// New builds a Scorer with its own normalization cache.
func New() *Scorer {
	return &Scorer{norm: textutil.NewNormalizer(0)}
}

// Score produces (total, breakdown) for el against field, given the
// contexts previously extracted by internal/ctxextract.
func (s *Scorer) Score(el models.ElementDescriptor, field models.LogicalField, contexts []models.TextContext) *models.ScoreBreakdown {
	b := models.NewScoreBreakdown()

	if excluded, reason := applyKanaGuard(el, field); excluded {
		b.Exclude(reason)
		return b
	}
	if excluded, reason := applySplitUnifiedGuard(el, field); excluded {
		b.Exclude(reason)
		return b
	}
	if !field.HasAllowedTag(el.TagName) || !field.HasAllowedType(el.Type) {
		b.Exclude("tag_or_type_not_allowed")
		return b
	}
	if exclusion.IsExcludedWithContext(el, field, contexts) {
		b.Exclude("attribute_or_context_pattern_excluded")
		return b
	}

	typeScore := s.scoreType(el, field)
	tagScore := s.scoreTag(el, field)
	nameScore := s.scoreAttr(el.Name, field.NamePatterns, field.StrictPatterns, nameWeight)
	idScore := s.scoreAttr(el.ID, field.IDPatterns, field.StrictPatterns, idWeight)
	placeholderScore := s.scoreAttr(el.Placeholder, field.PlaceholderPatterns, nil, placeholderWeight)
	classScore := s.scoreAttr(el.Class, field.ClassPatterns, nil, classWeight)
	morphScore := s.scoreMorphology(el, field)

	contextScore, matched := s.scoreContext(field, contexts)

	if contextScore >= metadataSofteningThreshold {
		typeScore = int(float64(typeScore) * metadataSofteningFactor)
		nameScore = int(float64(nameScore) * metadataSofteningFactor)
		idScore = int(float64(idScore) * metadataSofteningFactor)
	}

	b.Add("type", typeScore)
	b.Add("tag", tagScore)
	b.Add("name", nameScore)
	b.Add("id", idScore)
	b.Add("placeholder", placeholderScore)
	b.Add("class", classScore)
	b.Add("japanese_morphology", morphScore)
	b.Add("context", contextScore)
	b.MatchedPatterns = append(b.MatchedPatterns, matched...)

	if field.Name == "message_body" && el.TagName == "textarea" {
		b.Add("textarea_bonus", textareaMessageBonus)
	}

	if isLoneGenericText(el, nameScore, idScore, placeholderScore, classScore, contextScore) && !whitelistedCoreFields[field.Name] {
		b.Add("lone_text_penalty", loneTextPenalty)
	}

	penaltyTotal, reasons := penalty.Calculate(el)
	if penaltyTotal != 0 {
		b.Add("penalty", penaltyTotal)
		b.MatchedPatterns = append(b.MatchedPatterns, reasons...)
	}

	b.Clamp()
	return b
}

func (s *Scorer) scoreType(el models.ElementDescriptor, field models.LogicalField) int {
	if !field.HasAllowedType(el.Type) {
		return 0
	}
	if el.Type == "text" || el.Type == "" {
		return typeGenericText
	}
	return typeWeight
}

func (s *Scorer) scoreTag(el models.ElementDescriptor, field models.LogicalField) int {
	if field.HasAllowedTag(el.TagName) {
		return tagWeight
	}
	return 0
}

// scoreAttr implements the "pattern ⊂ element_attr, never the reverse"
// lexical rule with boundary matching for short/ambiguous tokens.
func (s *Scorer) scoreAttr(attrValue string, patterns, strictPatterns []string, weight int) int {
	if attrValue == "" || len(patterns) == 0 {
		return 0
	}
	normAttr := s.norm.Normalize(attrValue)

	for _, p := range strictPatterns {
		if normAttr == s.norm.Normalize(p) {
			return weight
		}
	}

	for _, p := range patterns {
		normPattern := s.norm.Normalize(p)
		if normPattern == "" {
			continue
		}
		if requiresBoundary(normPattern) {
			if textutil.ContainsTokenWithBoundary(normAttr, normPattern) {
				return weight
			}
			continue
		}
		if strings.Contains(normAttr, normPattern) {
			return weight
		}
	}
	return 0
}

var ambiguousShortTokens = map[string]bool{"firm": true, "corp": true, "org": true}

func requiresBoundary(pattern string) bool {
	if ambiguousShortTokens[pattern] {
		return true
	}
	return len([]rune(pattern)) <= 4 && !textutil.HasCJK(pattern)
}

func (s *Scorer) scoreMorphology(el models.ElementDescriptor, field models.LogicalField) int {
	if !textutil.HasCJK(el.Name) && !textutil.HasCJK(el.Placeholder) {
		return 0
	}
	for _, p := range field.StrictPatterns {
		if textutil.HasCJK(p) && (strings.Contains(el.Name, p) || strings.Contains(el.Placeholder, p)) {
			return morphologyWeight
		}
	}
	return 0
}

func isLoneGenericText(el models.ElementDescriptor, nameScore, idScore, placeholderScore, classScore, contextScore int) bool {
	return el.Type == "text" && nameScore == 0 && idScore == 0 && placeholderScore == 0 && classScore == 0 && contextScore == 0
}
