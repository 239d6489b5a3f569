// Package unmapped implements the Unmapped Handler (C8): it runs after
// internal/mapper to close gaps the scorer could not confidently fill —
// checkbox/radio/select groups, email confirmation, split phone/name/kana,
// required-field rescue, prefecture/department promotion, optional FAX
// fill, and outside-form consent checkboxes.
package unmapped

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/formsender/core/internal/models"
)

// Options tunes the handler's optional behaviors.
type Options struct {
	EnableOptionalFaxFill bool
}

// Handler runs the unmapped-gap-closing pass over one page's elements.
type Handler struct {
	opts Options
}

// New builds a Handler with the given options.
func New(opts Options) *Handler {
	return &Handler{opts: opts}
}

// Run mutates mapping in place, promoting and auto-handling residual
// elements. outsideForm holds elements the caller determined live outside
// the selected contact form (only consent checkboxes from this set are
// ever touched).
func (h *Handler) Run(elements, outsideForm []models.ElementDescriptor, contexts map[string][]models.TextContext, client models.Client, mapping *models.Mapping) {
	residual := unmappedOf(elements, mapping)

	h.handleCheckboxGroups(residual, contexts, mapping)
	h.handleRadioGroups(residual, contexts, client, mapping)
	h.handleSelects(residual, contexts, client, mapping)

	residual = unmappedOf(elements, mapping)
	h.handleEmailConfirmation(residual, contexts, mapping)
	h.handleSplitPhone(residual, mapping)
	h.handleSplitNamesKana(residual, mapping)

	residual = unmappedOf(elements, mapping)
	h.requiredTextRescue(residual, mapping)
	h.promotePrefectureDepartment(residual, contexts, client, mapping)

	if h.opts.EnableOptionalFaxFill {
		residual = unmappedOf(elements, mapping)
		h.fillOptionalFax(residual, mapping)
	}

	h.outsideFormConsentRescue(outsideForm, contexts, mapping)
}

func unmappedOf(elements []models.ElementDescriptor, mapping *models.Mapping) []models.ElementDescriptor {
	out := make([]models.ElementDescriptor, 0, len(elements))
	for _, el := range elements {
		if !mapping.HasElement(el.ElementID) {
			out = append(out, el)
		}
	}
	return out
}

func attrBlob(el models.ElementDescriptor) string {
	return el.Name + " " + el.ID + " " + el.Class + " " + el.Placeholder
}

func optionText(el models.ElementDescriptor, contexts map[string][]models.TextContext) string {
	if el.LabelText != "" {
		return el.LabelText
	}
	if ctxs, ok := contexts[el.ElementID]; ok && len(ctxs) > 0 {
		return ctxs[0].Text
	}
	return el.Value
}

func groupByName(elements []models.ElementDescriptor, elementType string) map[string][]models.ElementDescriptor {
	groups := map[string][]models.ElementDescriptor{}
	for _, el := range elements {
		if el.Type != elementType || el.Name == "" {
			continue
		}
		groups[el.Name] = append(groups[el.Name], el)
	}
	return groups
}

func groupBlob(group []models.ElementDescriptor, contexts map[string][]models.TextContext) string {
	var sb strings.Builder
	for _, el := range group {
		sb.WriteString(attrBlob(el))
		sb.WriteByte(' ')
		sb.WriteString(optionText(el, contexts))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func anyRequired(group []models.ElementDescriptor) bool {
	for _, el := range group {
		if el.Required {
			return true
		}
	}
	return false
}

// --- checkboxes ------------------------------------------------------

func (h *Handler) handleCheckboxGroups(elements []models.ElementDescriptor, contexts map[string][]models.TextContext, mapping *models.Mapping) {
	for name, group := range groupByName(elements, "checkbox") {
		blob := groupBlob(group, contexts)
		required := anyRequired(group)
		isConsent := containsAnyFold(blob, consentGroupTokens)
		isContactMethod := containsAnyFold(blob, contactMethodGroupTokens)

		if !required && !isConsent && !isContactMethod {
			continue
		}

		chosen := chooseCheckboxOption(group, contexts, isConsent, isContactMethod)
		if chosen == nil {
			continue
		}
		fieldName := fmt.Sprintf("auto_checkbox_%s", name)
		mapping.Set(fieldName, &models.FieldMapping{
			FieldName: fieldName,
			Element:   *chosen,
			TagName:   chosen.TagName,
			InputType: chosen.Type,
			Name:      chosen.Name,
			ID:        chosen.ID,
			Required:  chosen.Required,
			Visible:   chosen.Visible,
			Enabled:   chosen.Enabled,
			AutoAction: &models.AutoAction{
				Kind: "check",
			},
			Source: models.SourceAutoHandled,
		})
	}
}

func chooseCheckboxOption(group []models.ElementDescriptor, contexts map[string][]models.TextContext, isConsent, isContactMethod bool) *models.ElementDescriptor {
	if isConsent {
		for i, el := range group {
			if containsAnyFold(optionText(el, contexts), consentTokens) {
				return &group[i]
			}
		}
		return &group[0]
	}
	if isContactMethod {
		for i, el := range group {
			if containsAnyFold(optionText(el, contexts), emailOptionTokens) {
				return &group[i]
			}
		}
	}
	return pickByPriority(group, contexts)
}

func pickByPriority(group []models.ElementDescriptor, contexts map[string][]models.TextContext) *models.ElementDescriptor {
	bestTier := -1
	var best *models.ElementDescriptor
	for i, el := range group {
		tier := choicePriorityIndex(optionText(el, contexts))
		if tier == -1 {
			continue
		}
		if best == nil || tier < bestTier {
			bestTier = tier
			best = &group[i]
		}
	}
	if best != nil {
		return best
	}
	return &group[0]
}

// --- radios ------------------------------------------------------

func (h *Handler) handleRadioGroups(elements []models.ElementDescriptor, contexts map[string][]models.TextContext, client models.Client, mapping *models.Mapping) {
	for name, group := range groupByName(elements, "radio") {
		blob := groupBlob(group, contexts)

		var chosen *models.ElementDescriptor
		switch {
		case strings.Contains(blob, "性別") && client.Gender != "":
			chosen = pickGenderOption(group, contexts, client.Gender)
		case containsAnyFold(blob, corporateTokens) && containsAnyFold(blob, individualTokens) && client.CompanyName != "":
			chosen = pickTokenOption(group, contexts, corporateTokens)
		}
		if chosen == nil {
			chosen = pickRadioFallback(group, contexts)
		}
		if chosen == nil {
			continue
		}

		fieldName := fmt.Sprintf("auto_radio_%s", name)
		mapping.Set(fieldName, &models.FieldMapping{
			FieldName:  fieldName,
			Element:    *chosen,
			TagName:    chosen.TagName,
			InputType:  chosen.Type,
			Name:       chosen.Name,
			ID:         chosen.ID,
			Required:   chosen.Required,
			Visible:    chosen.Visible,
			Enabled:    chosen.Enabled,
			AutoAction: &models.AutoAction{Kind: "check"},
			Source:     models.SourceAutoHandled,
		})
	}
}

func pickGenderOption(group []models.ElementDescriptor, contexts map[string][]models.TextContext, gender string) *models.ElementDescriptor {
	tokens := maleTokens
	if containsAnyFold(gender, femaleTokens) {
		tokens = femaleTokens
	}
	return pickTokenOption(group, contexts, tokens)
}

func pickTokenOption(group []models.ElementDescriptor, contexts map[string][]models.TextContext, tokens []string) *models.ElementDescriptor {
	for i, el := range group {
		if containsAnyFold(optionText(el, contexts), tokens) {
			return &group[i]
		}
	}
	return nil
}

// pickRadioFallback avoids その他 where another tier matches, per
// SPEC_FULL.md §4.8's "avoid その他 when possible" rule.
func pickRadioFallback(group []models.ElementDescriptor, contexts map[string][]models.TextContext) *models.ElementDescriptor {
	for i, el := range group {
		tier := choicePriorityIndex(optionText(el, contexts))
		if tier == 0 || tier == 2 {
			return &group[i]
		}
	}
	for i, el := range group {
		if choicePriorityIndex(optionText(el, contexts)) == 1 {
			return &group[i]
		}
	}
	if len(group) > 0 {
		return &group[0]
	}
	return nil
}

// --- selects ------------------------------------------------------

func (h *Handler) handleSelects(elements []models.ElementDescriptor, contexts map[string][]models.TextContext, client models.Client, mapping *models.Mapping) {
	for i := range elements {
		el := elements[i]
		if el.TagName != "select" || len(el.Options) == 0 {
			continue
		}

		prefectureCount := 0
		for _, opt := range el.Options {
			if prefectureSuffixed(opt.Text) {
				prefectureCount++
			}
		}
		blob := attrBlob(el) + " " + optionText(el, contexts)

		switch {
		case prefectureCount >= 5 || containsAnyFold(blob, prefectureAttrTokens):
			h.promoteSelectPrefecture(el, client, mapping)
		case containsAnyFold(blob, inquirySelectTokens):
			h.autoHandleSelect(el, pickOptionByTokensThenPriority(el.Options, inquiryOtherTokens, inquiryGenericTokens), mapping)
		default:
			h.autoHandleSelect(el, pickOptionByPriority(el.Options), mapping)
		}
	}
}

func (h *Handler) promoteSelectPrefecture(el models.ElementDescriptor, client models.Client, mapping *models.Mapping) {
	if _, ok := mapping.Get("prefecture"); ok {
		return
	}
	value := matchPrefectureOption(el.Options, client.Address1)
	if value == "" {
		return
	}
	mapping.Set("prefecture", &models.FieldMapping{
		FieldName:  "prefecture",
		Element:    el,
		TagName:    el.TagName,
		InputType:  el.Type,
		Name:       el.Name,
		ID:         el.ID,
		Required:   el.Required,
		Visible:    el.Visible,
		Enabled:    el.Enabled,
		AutoAction: &models.AutoAction{Kind: "select_by_algorithm", Value: value},
		Source:     models.SourcePromoted,
	})
}

// matchPrefectureOption: last substring match wins, else falls back to
// 東京都 then 大阪府, per SPEC_FULL.md §4.8.
func matchPrefectureOption(options []models.SelectOption, address1 string) string {
	match := ""
	for _, opt := range options {
		if opt.Text == "" {
			continue
		}
		if strings.Contains(address1, opt.Text) || strings.Contains(opt.Text, address1) && address1 != "" {
			match = opt.Value
		}
	}
	if match != "" {
		return match
	}
	for _, want := range []string{"東京都", "大阪府"} {
		for _, opt := range options {
			if opt.Text == want {
				return opt.Value
			}
		}
	}
	return ""
}

func pickOptionByTokensThenPriority(options []models.SelectOption, primary, secondary []string) models.SelectOption {
	for _, opt := range options {
		if isDummyOption(opt) {
			continue
		}
		if containsAnyFold(opt.Text, primary) {
			return opt
		}
	}
	for _, opt := range options {
		if isDummyOption(opt) {
			continue
		}
		if containsAnyFold(opt.Text, secondary) {
			return opt
		}
	}
	return models.SelectOption{}
}

func pickOptionByPriority(options []models.SelectOption) models.SelectOption {
	bestTier := -1
	var best models.SelectOption
	for _, opt := range options {
		if isDummyOption(opt) {
			continue
		}
		tier := choicePriorityIndex(opt.Text)
		if tier == -1 {
			continue
		}
		if best.Value == "" || tier < bestTier {
			bestTier = tier
			best = opt
		}
	}
	return best
}

func isDummyOption(opt models.SelectOption) bool {
	if opt.Value == "" {
		return true
	}
	return containsAnyFold(opt.Text, placeholderOptionTokens)
}

func (h *Handler) autoHandleSelect(el models.ElementDescriptor, opt models.SelectOption, mapping *models.Mapping) {
	if opt.Value == "" {
		return
	}
	fieldName := fmt.Sprintf("auto_select_%s", el.Name)
	mapping.Set(fieldName, &models.FieldMapping{
		FieldName:  fieldName,
		Element:    el,
		TagName:    el.TagName,
		InputType:  el.Type,
		Name:       el.Name,
		ID:         el.ID,
		Required:   el.Required,
		Visible:    el.Visible,
		Enabled:    el.Enabled,
		AutoAction: &models.AutoAction{Kind: "select_by_algorithm", Value: opt.Value},
		Source:     models.SourceAutoHandled,
	})
}

// --- email confirmation ------------------------------------------------------

func (h *Handler) handleEmailConfirmation(elements []models.ElementDescriptor, contexts map[string][]models.TextContext, mapping *models.Mapping) {
	emailEntry, ok := mapping.Get("email")
	if !ok {
		return
	}
	primaryName := emailEntry.Name

	for _, el := range elements {
		if el.TagName != "input" || (el.Type != "text" && el.Type != "email" && el.Type != "") {
			continue
		}
		blob := attrBlob(el) + " " + optionText(el, contexts)
		isNamingVariant := primaryName != "" && (el.Name == primaryName+"2" ||
			el.Name == primaryName+"_confirm" ||
			el.Name == "confirm_"+primaryName ||
			el.Name == "_"+primaryName)

		if !containsAnyFold(blob, emailConfirmTokens) && !isNamingVariant {
			continue
		}

		mapping.Set("email_confirmation", &models.FieldMapping{
			FieldName:  "email_confirmation",
			Element:    el,
			TagName:    el.TagName,
			InputType:  el.Type,
			Name:       el.Name,
			ID:         el.ID,
			Required:   el.Required,
			Visible:    el.Visible,
			Enabled:    el.Enabled,
			AutoAction: &models.AutoAction{Kind: "copy_from", Source: "email"},
			Source:     models.SourcePromoted,
		})
		return
	}
}

// --- split phone / names / kana ------------------------------------------------------

var phoneIndexRe = regexp.MustCompile(`(?i)(?:tel|phone|電話)[_\[]?([1-3]|first|center|last)\]?$`)

func (h *Handler) handleSplitPhone(elements []models.ElementDescriptor, mapping *models.Mapping) {
	indexed := map[int]models.ElementDescriptor{}
	for _, el := range elements {
		if el.TagName != "input" {
			continue
		}
		m := phoneIndexRe.FindStringSubmatch(strings.ToLower(el.Name))
		if m == nil {
			continue
		}
		idx := indexFromToken(m[1])
		if idx == 0 {
			continue
		}
		if _, taken := indexed[idx]; !taken {
			indexed[idx] = el
		}
	}
	for idx, el := range indexed {
		fieldName := fmt.Sprintf("phone_%d", idx)
		if _, ok := mapping.Get(fieldName); ok {
			continue
		}
		promoteDirect(mapping, fieldName, el)
	}
}

func indexFromToken(tok string) int {
	switch strings.ToLower(tok) {
	case "1", "first":
		return 1
	case "2", "center":
		return 2
	case "3", "last":
		return 3
	}
	return 0
}

func (h *Handler) handleSplitNamesKana(elements []models.ElementDescriptor, mapping *models.Mapping) {
	promoteSplitPair(elements, mapping, "last_name", "first_name",
		regexp.MustCompile(`(?i)(name\[0\]|name1|family_name|last[-_]name)$`),
		regexp.MustCompile(`(?i)(name\[1\]|name2|given_name|first[-_]name)$`))
	promoteSplitPair(elements, mapping, "last_name_kana", "first_name_kana",
		regexp.MustCompile(`(?i)kana1$|kana\[0\]$`),
		regexp.MustCompile(`(?i)kana2$|kana\[1\]$`))
}

func promoteSplitPair(elements []models.ElementDescriptor, mapping *models.Mapping, lastField, firstField string, lastRe, firstRe *regexp.Regexp) {
	var lastEl, firstEl *models.ElementDescriptor
	for i, el := range elements {
		if el.TagName != "input" {
			continue
		}
		name := strings.ToLower(el.Name)
		if lastEl == nil && lastRe.MatchString(name) {
			lastEl = &elements[i]
			continue
		}
		if firstEl == nil && firstRe.MatchString(name) {
			firstEl = &elements[i]
		}
	}
	if lastEl != nil {
		if _, ok := mapping.Get(lastField); !ok {
			promoteDirect(mapping, lastField, *lastEl)
		}
	}
	if firstEl != nil {
		if _, ok := mapping.Get(firstField); !ok {
			promoteDirect(mapping, firstField, *firstEl)
		}
	}
}

func promoteDirect(mapping *models.Mapping, fieldName string, el models.ElementDescriptor) {
	mapping.Set(fieldName, &models.FieldMapping{
		FieldName: fieldName,
		Element:   el,
		TagName:   el.TagName,
		InputType: el.Type,
		Name:      el.Name,
		ID:        el.ID,
		Required:  el.Required,
		Visible:   el.Visible,
		Enabled:   el.Enabled,
		Source:    models.SourcePromoted,
	})
}

// --- required-field rescue ------------------------------------------------------

func (h *Handler) requiredTextRescue(elements []models.ElementDescriptor, mapping *models.Mapping) {
	for _, el := range elements {
		if !el.Visible || !el.Required {
			continue
		}
		if el.TagName != "textarea" && !(el.TagName == "input" && (el.Type == "text" || el.Type == "")) {
			continue
		}
		if containsAnyFold(attrBlob(el), excludedFromRequiredRescue) {
			continue
		}
		fieldName := fmt.Sprintf("auto_required_rescue_%s", el.ElementID)
		mapping.Set(fieldName, &models.FieldMapping{
			FieldName:  fieldName,
			Element:    el,
			TagName:    el.TagName,
			InputType:  el.Type,
			Name:       el.Name,
			ID:         el.ID,
			Required:   el.Required,
			Visible:    el.Visible,
			Enabled:    el.Enabled,
			AutoAction: &models.AutoAction{Kind: "fill", Value: "　"},
			Source:     models.SourceAutoHandled,
		})
	}
}

// --- department promotion for stray text inputs (prefecture selects are promoted in handleSelects) ---

func (h *Handler) promotePrefectureDepartment(elements []models.ElementDescriptor, contexts map[string][]models.TextContext, client models.Client, mapping *models.Mapping) {
	if _, ok := mapping.Get("department"); !ok {
		for _, el := range elements {
			if el.TagName != "input" {
				continue
			}
			blob := attrBlob(el) + " " + optionText(el, contexts)
			if containsAnyFold(blob, departmentTokens) {
				promoteDirect(mapping, "department", el)
				break
			}
		}
	}
}

// --- optional FAX fill ------------------------------------------------------

func (h *Handler) fillOptionalFax(elements []models.ElementDescriptor, mapping *models.Mapping) {
	if _, ok := mapping.Get("unified_phone"); !ok {
		if _, ok := mapping.Get("phone_1"); !ok {
			return
		}
	}
	for _, el := range elements {
		if el.Required {
			continue
		}
		if !containsAnyFold(attrBlob(el), faxTokens) {
			continue
		}
		source := "unified_phone"
		if _, ok := mapping.Get("unified_phone"); !ok {
			source = "phone_1"
		}
		mapping.Set("fax", &models.FieldMapping{
			FieldName:  "fax",
			Element:    el,
			TagName:    el.TagName,
			InputType:  el.Type,
			Name:       el.Name,
			ID:         el.ID,
			Required:   el.Required,
			Visible:    el.Visible,
			Enabled:    el.Enabled,
			AutoAction: &models.AutoAction{Kind: "copy_from", Source: source},
			Source:     models.SourceAutoHandled,
		})
		return
	}
}

// --- outside-form consent rescue ------------------------------------------------------

var blacklistedOutsideFormTokens = []string{"newsletter", "marketing", "メルマガ"}

func (h *Handler) outsideFormConsentRescue(outsideForm []models.ElementDescriptor, contexts map[string][]models.TextContext, mapping *models.Mapping) {
	for _, el := range outsideForm {
		if el.Type != "checkbox" {
			continue
		}
		blob := attrBlob(el) + " " + optionText(el, contexts)
		if !containsAnyFold(blob, consentTokens) {
			continue
		}
		if containsAnyFold(blob, blacklistedOutsideFormTokens) {
			continue
		}
		fieldName := fmt.Sprintf("auto_outside_consent_%s", el.ElementID)
		mapping.Set(fieldName, &models.FieldMapping{
			FieldName:  fieldName,
			Element:    el,
			TagName:    el.TagName,
			InputType:  el.Type,
			Name:       el.Name,
			ID:         el.ID,
			Required:   el.Required,
			Visible:    el.Visible,
			Enabled:    el.Enabled,
			AutoAction: &models.AutoAction{Kind: "check"},
			Source:     models.SourceAutoHandled,
		})
	}
}
