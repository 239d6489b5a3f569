// Package clientsource decodes the Client Record Source payload described in
// SPEC_FULL.md §3/§6: arbitrary bytes of unknown encoding carrying either a
// nested {client, targeting} object or a flattened record, with escaped
// newlines inside message/subject fields.
package clientsource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"

	"github.com/formsender/core/internal/models"
)

// EscapeTargetFields names the fields escape-decoding is applied to, per §3.
var EscapeTargetFields = []string{"message", "subject"}

// DefaultEscapeDepth is the nesting depth escape decoding is applied at
// when the caller does not specify one, per §6.
const DefaultEscapeDepth = 1

// candidateEncodings is tried in order after UTF-8 fails to validate,
// matching §6's fallback chain.
var candidateEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"Shift_JIS", japanese.ShiftJIS},
	{"EUC-JP", japanese.EUCJP},
	{"ISO-2022-JP", japanese.ISO2022JP},
	{"CP932", japanese.ShiftJIS}, // CP932 is a Shift_JIS superset; decoded via the same table.
	{"Latin-1", charmap.ISO8859_1},
}

// flatRecord is the flattened shape accepted alongside the nested one.
type flatRecord struct {
	CompanyName string `json:"company_name"`

	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`

	LastNameKana  string `json:"last_name_kana"`
	FirstNameKana string `json:"first_name_kana"`

	LastNameHiragana  string `json:"last_name_hiragana"`
	FirstNameHiragana string `json:"first_name_hiragana"`

	Email1 string `json:"email_1"`

	Phone1 string `json:"phone_1"`
	Phone2 string `json:"phone_2"`
	Phone3 string `json:"phone_3"`

	PostalCode1 string `json:"postal_code_1"`
	PostalCode2 string `json:"postal_code_2"`

	Address1 string `json:"address_1"`
	Address2 string `json:"address_2"`
	Address3 string `json:"address_3"`
	Address4 string `json:"address_4"`
	Address5 string `json:"address_5"`

	Position string `json:"position"`
	Gender   string `json:"gender"`

	Subject string `json:"subject"`
	Message string `json:"message"`

	Targeting *targetingJSON `json:"targeting"`
}

type nestedRecord struct {
	Client    *flatRecord    `json:"client"`
	Targeting *targetingJSON `json:"targeting"`
}

type targetingJSON struct {
	ID string `json:"id"`
}

// Decode detects the payload's encoding, transcodes it to UTF-8, parses
// either the nested or flattened JSON shape, and decodes escape sequences in
// message/subject up to depth. A depth of 0 or less is treated as
// DefaultEscapeDepth, matching "invalid types -> fallback to defaults".
func Decode(raw []byte, depth int) (models.ClientRecord, error) {
	if depth <= 0 {
		depth = DefaultEscapeDepth
	}

	text, err := toUTF8(raw)
	if err != nil {
		return models.ClientRecord{}, fmt.Errorf("clientsource: %w", err)
	}

	flat, err := parse(text)
	if err != nil {
		return models.ClientRecord{}, fmt.Errorf("clientsource: decode json: %w", err)
	}

	for i := 0; i < depth; i++ {
		flat.Message = unescape(flat.Message)
		flat.Subject = unescape(flat.Subject)
	}

	return toClientRecord(flat), nil
}

// toUTF8 returns raw as a UTF-8 string, trying UTF-8 first and falling
// through the candidate encodings in order on invalid-UTF-8 input.
func toUTF8(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	var lastErr error
	for _, c := range candidateEncodings {
		decoded, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil {
			lastErr = err
			continue
		}
		if utf8.Valid(decoded) {
			return string(decoded), nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate encoding produced valid utf-8")
	}
	return "", lastErr
}

func parse(text string) (*flatRecord, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	var nested nestedRecord
	if err := dec.Decode(&nested); err == nil && nested.Client != nil {
		if nested.Targeting != nil {
			nested.Client.Targeting = nested.Targeting
		}
		return nested.Client, nil
	}

	var flat flatRecord
	if err := json.Unmarshal([]byte(text), &flat); err != nil {
		return nil, err
	}
	return &flat, nil
}

// unescape decodes the closed set of escape sequences named in §6, leaving
// anything else (including an unpaired trailing backslash) untouched.
func unescape(s string) string {
	if s == "" {
		return s
	}
	var b bytes.Buffer
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i == len(runes)-1 {
			b.WriteRune(runes[i])
			continue
		}
		next := runes[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		default:
			b.WriteRune(runes[i])
			b.WriteRune(next)
			i++
			continue
		}
		i++
	}
	return b.String()
}

func toClientRecord(f *flatRecord) models.ClientRecord {
	rec := models.ClientRecord{
		Client: models.Client{
			CompanyName:       f.CompanyName,
			LastName:          f.LastName,
			FirstName:         f.FirstName,
			LastNameKana:      f.LastNameKana,
			FirstNameKana:     f.FirstNameKana,
			LastNameHiragana:  f.LastNameHiragana,
			FirstNameHiragana: f.FirstNameHiragana,
			Email1:            f.Email1,
			Phone1:            f.Phone1,
			Phone2:            f.Phone2,
			Phone3:            f.Phone3,
			PostalCode1:       f.PostalCode1,
			PostalCode2:       f.PostalCode2,
			Address1:          f.Address1,
			Address2:          f.Address2,
			Address3:          f.Address3,
			Address4:          f.Address4,
			Address5:          f.Address5,
			Position:          f.Position,
			Gender:            f.Gender,
			Subject:           f.Subject,
			Message:           f.Message,
		},
	}
	if f.Targeting != nil {
		rec.Targeting = models.Targeting{ID: f.Targeting.ID}
	}
	return rec
}
