package unmapped

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formsender/core/internal/models"
)

func TestRun_ConsentCheckboxAutoChecked(t *testing.T) {
	h := New(Options{})
	el := models.ElementDescriptor{
		ElementID: "c1", TagName: "input", Type: "checkbox", Name: "agree",
		Class: "privacy-consent", Required: true, Visible: true, Enabled: true,
	}
	mapping := models.NewMapping()
	h.Run([]models.ElementDescriptor{el}, nil, nil, models.Client{}, mapping)

	fm, ok := mapping.Get("auto_checkbox_agree")
	require.True(t, ok)
	require.NotNil(t, fm.AutoAction)
	assert.Equal(t, "check", fm.AutoAction.Kind)
}

func TestRun_GenderRadioMatchesClient(t *testing.T) {
	h := New(Options{})
	male := models.ElementDescriptor{ElementID: "g1", TagName: "input", Type: "radio", Name: "性別", LabelText: "男性", Visible: true, Enabled: true}
	female := models.ElementDescriptor{ElementID: "g2", TagName: "input", Type: "radio", Name: "性別", LabelText: "女性", Visible: true, Enabled: true}
	mapping := models.NewMapping()

	h.Run([]models.ElementDescriptor{male, female}, nil, nil, models.Client{Gender: "女性"}, mapping)

	fm, ok := mapping.Get("auto_radio_性別")
	require.True(t, ok)
	assert.Equal(t, "g2", fm.Element.ElementID)
}

func TestRun_PrefectureSelectMatchesAddress(t *testing.T) {
	h := New(Options{})
	sel := models.ElementDescriptor{
		ElementID: "pref1", TagName: "select", Name: "pref", Visible: true, Enabled: true,
		Options: []models.SelectOption{
			{Value: "", Text: "選択してください"},
			{Value: "13", Text: "東京都"},
			{Value: "27", Text: "大阪府"},
			{Value: "14", Text: "神奈川県"},
			{Value: "01", Text: "北海道"},
			{Value: "40", Text: "福岡県"},
		},
	}
	mapping := models.NewMapping()
	h.Run([]models.ElementDescriptor{sel}, nil, nil, models.Client{Address1: "神奈川県横浜市"}, mapping)

	fm, ok := mapping.Get("prefecture")
	require.True(t, ok)
	require.NotNil(t, fm.AutoAction)
	assert.Equal(t, "14", fm.AutoAction.Value)
}

func TestRun_EmailConfirmationPromotedWithCopyFrom(t *testing.T) {
	h := New(Options{})
	confirmEl := models.ElementDescriptor{ElementID: "ec1", TagName: "input", Type: "email", Name: "email_confirm", Visible: true, Enabled: true}
	mapping := models.NewMapping()
	mapping.Set("email", &models.FieldMapping{FieldName: "email", Name: "email", Element: models.ElementDescriptor{ElementID: "e1"}})

	h.Run([]models.ElementDescriptor{confirmEl}, nil, nil, models.Client{}, mapping)

	fm, ok := mapping.Get("email_confirmation")
	require.True(t, ok)
	require.NotNil(t, fm.AutoAction)
	assert.Equal(t, "copy_from", fm.AutoAction.Kind)
	assert.Equal(t, "email", fm.AutoAction.Source)
}

func TestRun_SplitPhonePromotedWhenUnclaimed(t *testing.T) {
	h := New(Options{})
	els := []models.ElementDescriptor{
		{ElementID: "t1", TagName: "input", Type: "tel", Name: "tel1", Visible: true, Enabled: true},
		{ElementID: "t2", TagName: "input", Type: "tel", Name: "tel2", Visible: true, Enabled: true},
		{ElementID: "t3", TagName: "input", Type: "tel", Name: "tel3", Visible: true, Enabled: true},
	}
	mapping := models.NewMapping()
	h.Run(els, nil, nil, models.Client{}, mapping)

	for i, field := range []string{"phone_1", "phone_2", "phone_3"} {
		fm, ok := mapping.Get(field)
		require.True(t, ok, field)
		assert.Equal(t, els[i].ElementID, fm.Element.ElementID)
	}
}

func TestRun_RequiredTextRescueFillsFullWidthSpace(t *testing.T) {
	h := New(Options{})
	el := models.ElementDescriptor{ElementID: "r1", TagName: "input", Type: "text", Name: "misc", Required: true, Visible: true, Enabled: true}
	mapping := models.NewMapping()
	h.Run([]models.ElementDescriptor{el}, nil, nil, models.Client{}, mapping)

	fm, ok := mapping.Get("auto_required_rescue_r1")
	require.True(t, ok)
	require.NotNil(t, fm.AutoAction)
	assert.Equal(t, "　", fm.AutoAction.Value)
}

func TestRun_RequiredTextRescueSkipsEmailLikeFields(t *testing.T) {
	h := New(Options{})
	el := models.ElementDescriptor{ElementID: "r2", TagName: "input", Type: "text", Name: "email_confirm", Required: true, Visible: true, Enabled: true}
	mapping := models.NewMapping()
	h.Run([]models.ElementDescriptor{el}, nil, nil, models.Client{}, mapping)

	_, ok := mapping.Get("auto_required_rescue_r2")
	assert.False(t, ok)
}

func TestRun_DepartmentPromotion(t *testing.T) {
	h := New(Options{})
	el := models.ElementDescriptor{ElementID: "d1", TagName: "input", Type: "text", Name: "department", Visible: true, Enabled: true}
	mapping := models.NewMapping()
	h.Run([]models.ElementDescriptor{el}, nil, nil, models.Client{}, mapping)

	fm, ok := mapping.Get("department")
	require.True(t, ok)
	assert.Equal(t, "d1", fm.Element.ElementID)
}

func TestRun_OptionalFaxFillCopiesFromPhone(t *testing.T) {
	h := New(Options{EnableOptionalFaxFill: true})
	fax := models.ElementDescriptor{ElementID: "fax1", TagName: "input", Type: "text", Name: "fax", Visible: true, Enabled: true}
	mapping := models.NewMapping()
	mapping.Set("phone_1", &models.FieldMapping{FieldName: "phone_1", Element: models.ElementDescriptor{ElementID: "p1"}})

	h.Run([]models.ElementDescriptor{fax}, nil, nil, models.Client{}, mapping)

	fm, ok := mapping.Get("fax")
	require.True(t, ok)
	require.NotNil(t, fm.AutoAction)
	assert.Equal(t, "copy_from", fm.AutoAction.Kind)
}

func TestRun_OutsideFormConsentRescue(t *testing.T) {
	h := New(Options{})
	outside := models.ElementDescriptor{ElementID: "o1", TagName: "input", Type: "checkbox", Class: "agree-terms", Visible: true, Enabled: true}
	mapping := models.NewMapping()
	h.Run(nil, []models.ElementDescriptor{outside}, nil, models.Client{}, mapping)

	_, ok := mapping.Get("auto_outside_consent_o1")
	assert.True(t, ok)
}

func TestRun_OutsideFormBlacklistedNeverTouched(t *testing.T) {
	h := New(Options{})
	outside := models.ElementDescriptor{ElementID: "o2", TagName: "input", Type: "checkbox", Class: "newsletter agree", Visible: true, Enabled: true}
	mapping := models.NewMapping()
	h.Run(nil, []models.ElementDescriptor{outside}, nil, models.Client{}, mapping)

	_, ok := mapping.Get("auto_outside_consent_o2")
	assert.False(t, ok)
}
