// Package values implements the Input Value Assigner (C9): it produces a
// concrete fill value (or a non-fill action) for every entry in a Mapping,
// honoring auto_action first and falling back to combined-value computation
// from the client record.
package values

import (
	"strings"

	"github.com/formsender/core/internal/models"
)

// Options configures the combined-value separators, which sites vary.
type Options struct {
	NameSeparator  string // default " "
	PhoneSeparator string // default ""
	PostalSeparator string // default "-"
}

// DefaultOptions matches the source catalog's common defaults.
func DefaultOptions() Options {
	return Options{NameSeparator: " ", PhoneSeparator: "", PostalSeparator: "-"}
}

// Assignment is the resolved instruction internal/submission executes for
// one mapped field.
type Assignment struct {
	FieldName string
	Action    string // "fill", "check", "uncheck", "select_index", "select_by_algorithm"
	Value     string
}

// Assigner computes Assignments from a Mapping and a ClientRecord.
type Assigner struct {
	opts Options
}

// New builds an Assigner with the given combined-value options.
func New(opts Options) *Assigner {
	return &Assigner{opts: opts}
}

// AssignAll resolves every mapped field into an Assignment.
func (a *Assigner) AssignAll(mapping *models.Mapping, client models.Client) []Assignment {
	out := make([]Assignment, 0, mapping.Len())
	mapping.Each(func(fieldName string, fm *models.FieldMapping) {
		out = append(out, a.resolve(fieldName, fm, client, mapping, 0))
	})
	return out
}

const maxCopyFromDepth = 4

func (a *Assigner) resolve(fieldName string, fm *models.FieldMapping, client models.Client, mapping *models.Mapping, depth int) Assignment {
	if fm.AutoAction != nil {
		switch fm.AutoAction.Kind {
		case "copy_from":
			value := ""
			if depth < maxCopyFromDepth {
				if src, ok := mapping.Get(fm.AutoAction.Source); ok {
					value = a.resolve(fm.AutoAction.Source, src, client, mapping, depth+1).Value
				} else {
					value = a.directValue(fm.AutoAction.Source, client, fm)
				}
			}
			return Assignment{FieldName: fieldName, Action: "fill", Value: value}
		case "fill":
			return Assignment{FieldName: fieldName, Action: "fill", Value: fm.AutoAction.Value}
		default:
			return Assignment{FieldName: fieldName, Action: fm.AutoAction.Kind, Value: fm.AutoAction.Value}
		}
	}
	return Assignment{FieldName: fieldName, Action: "fill", Value: a.directValue(fieldName, client, fm)}
}

// directValue computes the value for a logical field with no auto_action,
// including the combined-value fields named in SPEC_FULL.md §4.9.
func (a *Assigner) directValue(fieldName string, client models.Client, fm *models.FieldMapping) string {
	switch fieldName {
	case "unified_full_name":
		return join(a.opts.NameSeparator, client.LastName, client.FirstName)
	case "unified_full_name_kana":
		if fm != nil && looksHiragana(fm) {
			return join(a.opts.NameSeparator, client.LastNameHiragana, client.FirstNameHiragana)
		}
		return join(a.opts.NameSeparator, client.LastNameKana, client.FirstNameKana)
	case "unified_phone":
		return join(a.opts.PhoneSeparator, client.Phone1, client.Phone2, client.Phone3)
	case "unified_postal":
		return join(a.opts.PostalSeparator, client.PostalCode1, client.PostalCode2)
	case "postal_1":
		return client.PostalCode1
	case "postal_2":
		return client.PostalCode2
	case "phone_1":
		return client.Phone1
	case "phone_2":
		return client.Phone2
	case "phone_3":
		return client.Phone3
	case "address":
		return join("", client.Address1, client.Address2, client.Address3, client.Address4, client.Address5)
	case "company_name":
		return client.CompanyName
	case "company_name_kana":
		return ""
	case "last_name":
		return client.LastName
	case "first_name":
		return client.FirstName
	case "last_name_kana":
		return client.LastNameKana
	case "first_name_kana":
		return client.FirstNameKana
	case "last_name_hiragana":
		return client.LastNameHiragana
	case "first_name_hiragana":
		return client.FirstNameHiragana
	case "email":
		return client.Email1
	case "position":
		return client.Position
	case "gender":
		return client.Gender
	case "subject":
		return client.Subject
	case "message_body":
		return client.Message
	case "prefecture", "department", "website_url":
		return ""
	default:
		return ""
	}
}

// looksHiragana inspects the mapped element's attributes for a hiragana
// kana-indicator hint, per SPEC_FULL.md §4.9's hiragana/katakana branch.
func looksHiragana(fm *models.FieldMapping) bool {
	blob := strings.ToLower(fm.Name + " " + fm.ID)
	return strings.Contains(blob, "hiragana") || strings.Contains(fm.Name+fm.ID, "ひらがな")
}

func join(sep string, parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}
