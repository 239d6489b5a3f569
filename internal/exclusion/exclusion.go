// Package exclusion implements the attribute- and context-aware element
// exclusion checks (C4): given an ElementDescriptor and a LogicalField, is
// this element barred from ever being scored for that field.
package exclusion

import (
	"regexp"
	"strings"
	"sync"

	"github.com/formsender/core/internal/models"
	"github.com/formsender/core/internal/textutil"
)

// CriticalClassTokens are class-attribute tokens that, even short, are
// allowed to trigger a boundary-bounded substring match — the curated
// security-critical set from SPEC_FULL.md §4.4.
var CriticalClassTokens = map[string]bool{
	"auth": true, "login": true, "signin": true, "otp": true, "mfa": true,
	"totp": true, "password": true, "verify": true, "verification": true,
	"token": true, "captcha": true, "confirm": true, "confirmation": true,
	"confirm_email": true, "email_confirmation": true, "csrf": true,
	"session": true, "honeypot": true, "trap": true, "botfield": true,
	"no-print": true, "noprint": true, "hidden": true,
}

// StrongContextSources are the context source types consulted by
// IsExcludedWithContext, per SPEC_FULL.md §4.4.
var StrongContextSources = map[models.SourceType]bool{
	models.SourceDTLabel:        true,
	models.SourceTHLabel:        true,
	models.SourceLabelFor:       true,
	models.SourceLabelParent:    true,
	models.SourceAriaLabelledBy: true,
	models.SourceLabelElement:   true,
}

var boundaryRegexCache sync.Map // token -> *regexp.Regexp

func boundaryRegex(token string) *regexp.Regexp {
	if v, ok := boundaryRegexCache.Load(token); ok {
		return v.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b|[_-]` + regexp.QuoteMeta(token) + `[_-]`)
	boundaryRegexCache.Store(token, re)
	return re
}

// IsExcluded implements the attribute-only exclusion check.
func IsExcluded(el models.ElementDescriptor, field models.LogicalField) bool {
	if len(field.ExcludePatterns) == 0 {
		return false
	}

	if classExcluded(el.ClassTokens(), field.ExcludePatterns) {
		return true
	}

	for _, attrValue := range []string{strings.ToLower(el.Name), strings.ToLower(el.ID), strings.ToLower(el.Placeholder)} {
		if attrValue == "" {
			continue
		}
		if attrExcluded(attrValue, field.ExcludePatterns) {
			return true
		}
	}

	return false
}

func classExcluded(classTokens, excludePatterns []string) bool {
	if len(classTokens) == 0 {
		return false
	}
	lowerTokens := make([]string, len(classTokens))
	for i, t := range classTokens {
		lowerTokens[i] = strings.ToLower(t)
	}

	// Pass 1: exact per-token match.
	for _, pattern := range excludePatterns {
		p := strings.ToLower(pattern)
		for _, tok := range lowerTokens {
			if tok == p {
				return true
			}
		}
	}

	// Pass 2: boundary-bounded match, restricted to critical tokens or
	// tokens of length >= 5 (avoid over-triggering on generic words like
	// "name").
	for _, pattern := range excludePatterns {
		p := strings.ToLower(pattern)
		if !CriticalClassTokens[p] && len(p) < 5 {
			continue
		}
		re := boundaryRegex(p)
		for _, tok := range lowerTokens {
			if re.MatchString(tok) ||
				strings.HasPrefix(tok, p+"_") || strings.HasPrefix(tok, p+"-") ||
				strings.HasSuffix(tok, "_"+p) || strings.HasSuffix(tok, "-"+p) {
				return true
			}
		}
	}

	// Pass 3: unrestricted substring match for long tokens (>= 5 chars).
	for _, pattern := range excludePatterns {
		p := strings.ToLower(pattern)
		if len(p) < 5 {
			continue
		}
		for _, tok := range lowerTokens {
			if strings.Contains(tok, p) {
				return true
			}
		}
	}

	return false
}

func attrExcluded(attrValue string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		p := strings.ToLower(pattern)

		if runeLen(p) <= 2 || textutil.HasCJK(p) {
			if textutil.ContainsTokenWithBoundary(attrValue, p) {
				return true
			}
			continue
		}

		re := boundaryRegex(p)
		if re.MatchString(attrValue) ||
			strings.HasPrefix(attrValue, p+"_") || strings.HasPrefix(attrValue, p+"-") ||
			strings.HasSuffix(attrValue, "_"+p) || strings.HasSuffix(attrValue, "-"+p) {
			return true
		}

		if len(p) >= 5 && strings.Contains(attrValue, p) {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}

// IsExcludedWithContext extends IsExcluded with the strong-context text
// sources, applying the same attribute matching policy to context text.
func IsExcludedWithContext(el models.ElementDescriptor, field models.LogicalField, contexts []models.TextContext) bool {
	if IsExcluded(el, field) {
		return true
	}
	if len(field.ExcludePatterns) == 0 {
		return false
	}

	for _, ctx := range contexts {
		if !StrongContextSources[ctx.SourceType] {
			continue
		}
		text := strings.ToLower(ctx.Text)
		if text == "" {
			continue
		}
		if attrExcluded(text, field.ExcludePatterns) {
			return true
		}
	}
	return false
}
