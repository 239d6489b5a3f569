package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/catalog"
	"github.com/formsender/core/internal/models"
)

func field(t *testing.T, name string) models.LogicalField {
	t.Helper()
	f, ok := catalog.Default().Lookup(name)
	require.True(t, ok, "catalog must contain %q", name)
	return f
}

func TestScore_ExcludedElementHasSentinel(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "user_kana", Visible: true, Enabled: true}
	b := s.Score(el, field(t, "last_name"), nil)

	assert.True(t, b.Excluded)
	assert.Equal(t, models.ExcludedSentinel, b.TotalScore)
}

func TestScore_TotalNeverNegativeUnlessExcluded(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "xyz", Visible: false, Enabled: false}
	b := s.Score(el, field(t, "email"), nil)
	require.False(t, b.Excluded)
	assert.GreaterOrEqual(t, b.TotalScore, 0)
}

func TestScore_TextareaBonusForMessageBody(t *testing.T) {
	s := New()
	textarea := models.ElementDescriptor{TagName: "textarea", Name: "msg", Visible: true, Enabled: true}
	input := models.ElementDescriptor{TagName: "input", Type: "text", Name: "msg", Visible: true, Enabled: true}

	bText := s.Score(textarea, field(t, "message_body"), nil)
	bInput := s.Score(input, field(t, "message_body"), nil)

	assert.Greater(t, bText.TotalScore, bInput.TotalScore, "textarea must win message_body over an equal-context text input")
}

func TestScore_LoneTextPenaltyAppliesToNonWhitelisted(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Visible: true, Enabled: true}
	b := s.Score(el, field(t, "position"), nil)
	assert.Contains(t, b.Signals, "lone_text_penalty")
}

func TestScore_WhitelistedCoreFieldSkipsLoneTextPenalty(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{
		TagName: "input", Type: "text", Visible: true, Enabled: true,
		Class: "company",
	}
	b := s.Score(el, field(t, "company_name"), nil)
	_, hasPenalty := b.Signals["lone_text_penalty"]
	assert.False(t, hasPenalty)
}

func TestScore_KanaContextSuppressesLastNameField(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "name1", Visible: true, Enabled: true}
	contexts := []models.TextContext{
		{Text: "ふりがな", SourceType: models.SourceLabelFor, Confidence: 0.9},
	}
	b := s.Score(el, field(t, "last_name"), contexts)
	assert.LessOrEqual(t, b.Signals["context"], 0)
}

func TestScore_KanaContextSuppressesUnifiedFullNameField(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "name1", Visible: true, Enabled: true}
	contexts := []models.TextContext{
		{Text: "カナ", SourceType: models.SourceLabelFor, Confidence: 0.9},
	}
	b := s.Score(el, field(t, "unified_full_name"), contexts)
	assert.LessOrEqual(t, b.Signals["context"], 0)
}

func TestScore_CompanyCompositeSuppressesPersonalNameField(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "x", Visible: true, Enabled: true}
	contexts := []models.TextContext{
		{Text: "部署名", SourceType: models.SourceLabelFor, Confidence: 0.9},
	}
	b := s.Score(el, field(t, "last_name"), contexts)
	assert.Equal(t, 0, b.Signals["context"])
}

func TestScore_SplitHintExcludesUnifiedField(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "text", Name: "mei", Visible: true, Enabled: true}
	b := s.Score(el, field(t, "unified_full_name"), nil)
	assert.True(t, b.Excluded)
}

func TestScore_WeightNeverAddedToTotal(t *testing.T) {
	s := New()
	el := models.ElementDescriptor{TagName: "input", Type: "email", Name: "email", Visible: true, Enabled: true}
	b := s.Score(el, field(t, "email"), nil)
	assert.NotContains(t, b.Signals, "weight")
}
