package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping_NoDuplicateElement(t *testing.T) {
	m := NewMapping()
	require.NotNil(t, m)

	el := ElementDescriptor{ElementID: "el-1"}
	m.Set("email", &FieldMapping{FieldName: "email", Element: el})

	assert.True(t, m.HasElement("el-1"))
	assert.False(t, m.HasElement("el-2"))

	fm, ok := m.Get("email")
	require.True(t, ok)
	assert.Equal(t, "el-1", fm.Element.ElementID)
}

func TestMapping_DeletePromotionDemotion(t *testing.T) {
	m := NewMapping()
	m.Set("unified_full_name", &FieldMapping{FieldName: "unified_full_name"})
	m.Delete("unified_full_name")

	_, ok := m.Get("unified_full_name")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestScoreBreakdown_ExclusionSentinel(t *testing.T) {
	b := NewScoreBreakdown()
	b.Add("name", 60)
	b.Exclude("kana_indicator_present")

	assert.True(t, b.Excluded)
	assert.Equal(t, ExcludedSentinel, b.TotalScore)
	assert.Equal(t, "kana_indicator_present", b.ExclusionReason)
}

func TestScoreBreakdown_ClampNeverGoesNegativeUnlessExcluded(t *testing.T) {
	b := NewScoreBreakdown()
	b.Add("penalty", -300)
	b.Clamp()
	assert.Equal(t, 0, b.TotalScore)

	excluded := NewScoreBreakdown()
	excluded.Exclude("reason")
	excluded.Clamp()
	assert.Equal(t, ExcludedSentinel, excluded.TotalScore)
}

func TestElementDescriptor_ClassTokens(t *testing.T) {
	e := ElementDescriptor{Class: "  form-control  required_field\tother "}
	assert.Equal(t, []string{"form-control", "required_field", "other"}, e.ClassTokens())
}

func TestBoundingBox_Offscreen(t *testing.T) {
	assert.True(t, BoundingBox{X: -9999}.Offscreen())
	assert.True(t, BoundingBox{Y: -10000}.Offscreen())
	assert.False(t, BoundingBox{X: 10, Y: 10}.Offscreen())
}

func TestTextContext_IsStrong(t *testing.T) {
	assert.True(t, TextContext{SourceType: SourceDTLabel}.IsStrong())
	assert.False(t, TextContext{SourceType: SourcePositionNearby}.IsStrong())
}
