package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/models"
)

func client() models.Client {
	return models.Client{
		CompanyName: "株式会社テスト",
		LastName:    "山田", FirstName: "太郎",
		LastNameKana: "ヤマダ", FirstNameKana: "タロウ",
		LastNameHiragana: "やまだ", FirstNameHiragana: "たろう",
		Email1: "taro@example.com",
		Phone1: "03", Phone2: "1234", Phone3: "5678",
		PostalCode1: "123", PostalCode2: "4567",
	}
}

func TestAssignAll_UnifiedFullName(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("unified_full_name", &models.FieldMapping{FieldName: "unified_full_name"})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "山田 太郎", out[0].Value)
	assert.Equal(t, "fill", out[0].Action)
}

func TestAssignAll_UnifiedPhoneJoinsWithoutSeparatorByDefault(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("unified_phone", &models.FieldMapping{FieldName: "unified_phone"})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "0312345678", out[0].Value)
}

func TestAssignAll_UnifiedKanaDefaultsToKatakana(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("unified_full_name_kana", &models.FieldMapping{FieldName: "unified_full_name_kana", Name: "kana"})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "ヤマダ タロウ", out[0].Value)
}

func TestAssignAll_UnifiedKanaUsesHiraganaWhenHinted(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("unified_full_name_kana", &models.FieldMapping{FieldName: "unified_full_name_kana", Name: "name_hiragana"})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "やまだ たろう", out[0].Value)
}

func TestAssignAll_CopyFromResolvesSourceField(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("email", &models.FieldMapping{FieldName: "email"})
	mapping.Set("email_confirmation", &models.FieldMapping{
		FieldName:  "email_confirmation",
		AutoAction: &models.AutoAction{Kind: "copy_from", Source: "email"},
	})

	out := a.AssignAll(mapping, client())
	var confirmation Assignment
	for _, o := range out {
		if o.FieldName == "email_confirmation" {
			confirmation = o
		}
	}
	assert.Equal(t, "taro@example.com", confirmation.Value)
	assert.Equal(t, "fill", confirmation.Action)
}

func TestAssignAll_AutoActionCheckPassesThroughAction(t *testing.T) {
	a := New(DefaultOptions())
	mapping := models.NewMapping()
	mapping.Set("auto_checkbox_agree", &models.FieldMapping{
		FieldName:  "auto_checkbox_agree",
		AutoAction: &models.AutoAction{Kind: "check"},
	})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "check", out[0].Action)
}

func TestAssignAll_PostalUsesConfiguredSeparator(t *testing.T) {
	a := New(Options{PostalSeparator: ""})
	mapping := models.NewMapping()
	mapping.Set("unified_postal", &models.FieldMapping{FieldName: "unified_postal"})

	out := a.AssignAll(mapping, client())
	require.Len(t, out, 1)
	assert.Equal(t, "1234567", out[0].Value)
}
