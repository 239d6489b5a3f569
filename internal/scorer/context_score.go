package scorer

import (
	"strings"

	"github.com/formsender/core/internal/models"
)

// personalNameFields are the fields the "〇〇名" composite guard and the
// strong-negative clipping rule apply to, per SPEC_FULL.md §4.6 step 5.
var personalNameFields = map[string]bool{
	"last_name": true, "first_name": true, "unified_full_name": true,
}

// companyNameComposites are Japanese "〇〇名" compounds that are never
// personal names, per the GLOSSARY.
var companyNameComposites = []string{"会社名", "法人名", "団体名", "部署名", "建物名", "商品名", "件名", "題名", "書名", "名称"}

var managementCompanyTerms = []string{"管理会社", "竣工", "年月日"}

var emailTerms = []string{"email", "メール", "mail"}

// conflictScore returns the semantic-consistency penalty for one context
// against one field, per the named rules in SPEC_FULL.md §4.6 step 5.
func conflictScore(fieldName, text string) int {
	lower := strings.ToLower(text)

	if personalNameFields[fieldName] && containsAny(lower, emailTerms) {
		return -80
	}

	if personalNameFields[fieldName] && containsAny(lower, kanaLikeTokens) {
		return -90
	}

	if fieldName == "company_name" {
		if containsAny(lower, managementCompanyTerms) {
			return -70
		}
		if looksLikePersonalNameContext(lower) {
			return -75
		}
	}

	if personalNameFields[fieldName] && containsCompanyComposite(text) {
		return -75
	}

	if strings.HasPrefix(fieldName, "unified_") && (hasSeiHintText(lower) || hasMeiHintText(lower)) {
		return -60
	}

	return 0
}

func containsCompanyComposite(text string) bool {
	for _, c := range companyNameComposites {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

func looksLikePersonalNameContext(text string) bool {
	return strings.Contains(text, "お名前") || strings.Contains(text, "氏名")
}

func hasSeiHintText(text string) bool {
	return containsAny(text, seiTokens)
}

func hasMeiHintText(text string) bool {
	return containsAny(text, meiTokens)
}

// scoreContext implements step 5: best-match-across-contexts with
// source-weight multiplication, the strong-context cap override, the
// strong-negative clip for personal-name fields, and the postal-code
// position-based cap.
func (s *Scorer) scoreContext(field models.LogicalField, contexts []models.TextContext) (int, []string) {
	if len(contexts) == 0 {
		return 0, nil
	}

	best := 0
	var matched []string
	strongHitAtOrAbove60 := false

	for _, ctx := range contexts {
		base := s.scoreAttr(ctx.Text, field.NamePatterns, field.StrictPatterns, nameWeight)
		weight, hasWeight := sourceWeights[ctx.SourceType]
		if !hasWeight {
			weight = 1.0
		}
		weighted := int(float64(base) * weight)

		if conflict := conflictScore(field.Name, ctx.Text); conflict != 0 {
			weighted += conflict
		}

		if isPostalField(field.Name) && isPositionSource(ctx.SourceType) && weighted > contextCapPostal {
			weighted = contextCapPostal
		}

		if ctx.IsStrong() && base >= 60 {
			strongHitAtOrAbove60 = true
		}

		if weighted > best {
			best = weighted
			if base > 0 {
				matched = append(matched, string(ctx.SourceType)+":"+ctx.Text)
			}
		}
		if weighted <= -80 && personalNameFields[field.Name] {
			best = 0
		}
	}

	cap := contextCapDefault
	if strongHitAtOrAbove60 {
		cap = contextCapStrong
	}
	if best > cap {
		best = cap
	}

	return best, matched
}

func isPostalField(name string) bool {
	return strings.HasPrefix(name, "postal_") || name == "unified_postal"
}

func isPositionSource(s models.SourceType) bool {
	switch s {
	case models.SourcePositionAbove, models.SourcePositionBelow, models.SourcePositionLeft, models.SourcePositionRight, models.SourcePositionNearby:
		return true
	}
	return false
}
