package ctxextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/models"
)

type fakeReader struct {
	labelFor       string
	positionCalled bool
}

func (f *fakeReader) LabelForText(string) (string, bool)        { return f.labelFor, f.labelFor != "" }
func (f *fakeReader) AncestorLabelText(string) (string, bool)   { return "", false }
func (f *fakeReader) AriaLabelledByText(string) (string, bool)  { return "", false }
func (f *fakeReader) ULLIHeadingText(string) (string, bool)     { return "", false }
func (f *fakeReader) ParentRemainderText(string) (string, bool) { return "", false }
func (f *fakeReader) DTIndexText(string) (string, bool)         { return "", false }
func (f *fakeReader) THIndexText(string) (string, bool)         { return "", false }
func (f *fakeReader) SiblingTexts(string) ([]string, []string)  { return nil, nil }
func (f *fakeReader) PositionContexts(string, float64) []models.TextContext {
	f.positionCalled = true
	return []models.TextContext{{Text: "nearby text", SourceType: models.SourcePositionNearby, Confidence: 0.3}}
}

func TestExtract_StrongLabelShortCircuitsPositionSearch(t *testing.T) {
	r := &fakeReader{labelFor: "お名前"}
	contexts := Extract("el-1", r)

	require.NotEmpty(t, contexts)
	assert.Equal(t, models.SourceLabelFor, contexts[0].SourceType)
	assert.False(t, r.positionCalled, "position-based search must be skipped when a strong label >= 0.7 confidence exists")
}

func TestExtract_NoStrongLabelRunsPositionSearch(t *testing.T) {
	r := &fakeReader{}
	contexts := Extract("el-1", r)

	assert.True(t, r.positionCalled)
	require.Len(t, contexts, 1)
	assert.Equal(t, models.SourcePositionNearby, contexts[0].SourceType)
}

func TestExtract_CapsAtFiveAndSortsByConfidence(t *testing.T) {
	r := &manyContextsReader{}
	contexts := Extract("el-1", r)

	assert.LessOrEqual(t, len(contexts), 5)
	for i := 1; i < len(contexts); i++ {
		assert.GreaterOrEqual(t, contexts[i-1].Confidence, contexts[i].Confidence)
	}
}

type manyContextsReader struct{}

func (manyContextsReader) LabelForText(string) (string, bool)        { return "", false }
func (manyContextsReader) AncestorLabelText(string) (string, bool)   { return "", false }
func (manyContextsReader) AriaLabelledByText(string) (string, bool)  { return "", false }
func (manyContextsReader) ULLIHeadingText(string) (string, bool)     { return "", false }
func (manyContextsReader) ParentRemainderText(string) (string, bool) { return "parent wrapper text", true }
func (manyContextsReader) DTIndexText(string) (string, bool)         { return "", false }
func (manyContextsReader) THIndexText(string) (string, bool)         { return "", false }
func (manyContextsReader) SiblingTexts(string) ([]string, []string) {
	return []string{"prev1", "prev2", "prev3"}, []string{"next1", "next2"}
}
func (manyContextsReader) PositionContexts(string, float64) []models.TextContext {
	return []models.TextContext{
		{Text: "above", SourceType: models.SourcePositionAbove, Confidence: 0.4},
		{Text: "below", SourceType: models.SourcePositionBelow, Confidence: 0.35},
	}
}

func TestExtract_FiltersNoiseText(t *testing.T) {
	r := &noiseReader{}
	contexts := Extract("el-1", r)
	for _, c := range contexts {
		assert.NotEqual(t, "submit", c.Text)
	}
}

type noiseReader struct{}

func (noiseReader) LabelForText(string) (string, bool)        { return "submit", true }
func (noiseReader) AncestorLabelText(string) (string, bool)   { return "", false }
func (noiseReader) AriaLabelledByText(string) (string, bool)  { return "", false }
func (noiseReader) ULLIHeadingText(string) (string, bool)     { return "", false }
func (noiseReader) ParentRemainderText(string) (string, bool) { return "", false }
func (noiseReader) DTIndexText(string) (string, bool)         { return "", false }
func (noiseReader) THIndexText(string) (string, bool)         { return "", false }
func (noiseReader) SiblingTexts(string) ([]string, []string)  { return nil, nil }
func (noiseReader) PositionContexts(string, float64) []models.TextContext {
	return nil
}
