// Package mapper implements the Field Mapper (C7): it selects the best
// candidate element per logical field, in descending catalog weight order,
// enforcing duplicate prevention and the promotion/demotion policies named
// in SPEC_FULL.md §4.7.
package mapper

import (
	"sort"

	"github.com/formsender/core/internal/catalog"
	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/scorer"
)

// minMappableScore is the floor below which a "best" candidate is still
// considered unmapped, leaving the field for internal/unmapped.
const minMappableScore = 1

// Scorer is the subset of *scorer.Scorer the mapper depends on.
type Scorer interface {
	Score(el models.ElementDescriptor, field models.LogicalField, contexts []models.TextContext) *models.ScoreBreakdown
}

// Mapper assigns DOM elements to logical fields.
type Mapper struct {
	catalog *catalog.Catalog
	scorer  Scorer
}

// New builds a Mapper against the process-wide catalog and a fresh Scorer.
func New() *Mapper {
	return &Mapper{catalog: catalog.Default(), scorer: scorer.New()}
}

// NewWithDeps allows tests to inject a fake catalog/scorer.
func NewWithDeps(cat *catalog.Catalog, s Scorer) *Mapper {
	return &Mapper{catalog: cat, scorer: s}
}

// Map produces a Mapping over elements, consulting contexts (keyed by
// ElementID) for each element's extracted text context.
func (m *Mapper) Map(elements []models.ElementDescriptor, contexts map[string][]models.TextContext) *models.Mapping {
	mapping := models.NewMapping()

	for _, field := range m.catalog.Fields() {
		candidates := m.quickFilter(elements, field, mapping)
		best, bestScore := m.fullScore(candidates, field, contexts)
		if best == nil || bestScore.Excluded || bestScore.TotalScore < minMappableScore {
			continue
		}

		mapping.Set(field.Name, &models.FieldMapping{
			FieldName: field.Name,
			Element:   *best,
			Score:     bestScore.TotalScore,
			TagName:   best.TagName,
			InputType: best.Type,
			Name:      best.Name,
			ID:        best.ID,
			Required:  best.Required,
			Visible:   best.Visible,
			Enabled:   best.Enabled,
			Source:    models.SourceScored,
		})
	}

	applyPromotionDemotion(mapping)
	return mapping
}

// quickFilter is the cheap bucketing pass: elements already claimed, or
// whose tag/type the field disallows, never reach the expensive full score.
func (m *Mapper) quickFilter(elements []models.ElementDescriptor, field models.LogicalField, mapping *models.Mapping) []models.ElementDescriptor {
	out := make([]models.ElementDescriptor, 0, len(elements))
	for _, el := range elements {
		if mapping.HasElement(el.ElementID) {
			continue
		}
		if !field.HasAllowedTag(el.TagName) || !field.HasAllowedType(el.Type) {
			continue
		}
		out = append(out, el)
	}
	return out
}

// fullScore runs the Element Scorer over every surviving candidate and
// returns the highest-scoring one.
func (m *Mapper) fullScore(candidates []models.ElementDescriptor, field models.LogicalField, contexts map[string][]models.TextContext) (*models.ElementDescriptor, *models.ScoreBreakdown) {
	// Deterministic iteration order for tie-break stability.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ElementID < candidates[j].ElementID })

	var best *models.ElementDescriptor
	var bestBreakdown *models.ScoreBreakdown

	for i := range candidates {
		el := candidates[i]
		breakdown := m.scorer.Score(el, field, contexts[el.ElementID])
		if breakdown.Excluded {
			continue
		}
		if bestBreakdown == nil || breakdown.TotalScore > bestBreakdown.TotalScore {
			best = &candidates[i]
			bestBreakdown = breakdown
		}
	}

	if best == nil {
		return nil, models.NewScoreBreakdown()
	}
	return best, bestBreakdown
}

// applyPromotionDemotion implements SPEC_FULL.md §4.7's post-mapping rules:
// a unified field is dropped once its split constituents are both mapped
// to distinct elements.
func applyPromotionDemotion(mapping *models.Mapping) {
	demoteIfSplit(mapping, "unified_full_name", "last_name", "first_name")
	demoteIfSplit(mapping, "unified_full_name_kana", "last_name_kana", "first_name_kana")
	demoteIfSplitPhone(mapping)
}

func demoteIfSplit(mapping *models.Mapping, unified, a, b string) {
	fa, okA := mapping.Get(a)
	fb, okB := mapping.Get(b)
	if !okA || !okB || fa.Element.ElementID == fb.Element.ElementID {
		return
	}
	if _, ok := mapping.Get(unified); ok {
		mapping.Delete(unified)
	}
}

func demoteIfSplitPhone(mapping *models.Mapping) {
	p1, ok1 := mapping.Get("phone_1")
	p2, ok2 := mapping.Get("phone_2")
	p3, ok3 := mapping.Get("phone_3")
	if !ok1 && !ok2 && !ok3 {
		return
	}
	unified, ok := mapping.Get("unified_phone")
	if !ok {
		return
	}
	ids := map[string]bool{}
	if ok1 {
		ids[p1.Element.ElementID] = true
	}
	if ok2 {
		ids[p2.Element.ElementID] = true
	}
	if ok3 {
		ids[p3.Element.ElementID] = true
	}
	if ids[unified.Element.ElementID] {
		mapping.Delete("unified_phone")
	}
}
