package errclass

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/formsender/core/internal/models"
)

func TestClassify_HTTP429IsRateLimitRetryableWithCooldown(t *testing.T) {
	c := New()
	d := c.Classify(429, nil, "")
	assert.Equal(t, RateLimit, d.Code)
	assert.True(t, d.Retryable)
	assert.Equal(t, 300, d.CooldownSeconds)
	assert.Equal(t, models.CategoryHTTP, d.Category)
}

func TestClassify_HTTP403WithWAFSignatureIsWAFChallenge(t *testing.T) {
	c := New()
	d := c.Classify(403, nil, "Attention Required! | Cloudflare")
	assert.Equal(t, WAFChallenge, d.Code)
	assert.Equal(t, models.CategoryWAF, d.Category)
}

func TestClassify_HTTP403WithoutWAFSignatureIsAccess(t *testing.T) {
	c := New()
	d := c.Classify(403, nil, "Forbidden")
	assert.Equal(t, Access, d.Code)
	assert.True(t, d.Retryable)
}

func TestClassify_HTTP5xxIsServerError(t *testing.T) {
	c := New()
	d := c.Classify(503, nil, "")
	assert.Equal(t, ServerError, d.Code)
	assert.Equal(t, 60, d.CooldownSeconds)
}

func TestClassify_CaptchaTextIsBotDetected(t *testing.T) {
	c := New()
	d := c.Classify(0, nil, `<div class="g-recaptcha" data-sitekey="..."></div>`)
	assert.Equal(t, BotDetected, d.Code)
	assert.Equal(t, models.CategoryWAF, d.Category)
	assert.False(t, d.Retryable)
}

func TestClassify_RequiredFieldTextIsMapping(t *testing.T) {
	c := New()
	d := c.Classify(0, nil, "メールアドレスを入力してください")
	assert.Equal(t, Mapping, d.Code)
	assert.Equal(t, models.CategoryValidation, d.Category)
}

func TestClassify_DuplicateSubmissionText(t *testing.T) {
	c := New()
	d := c.Classify(0, nil, "このフォームは既に送信されています")
	assert.Equal(t, DuplicateSubmission, d.Code)
}

func TestClassify_CaptchaPriorityOverRequiredField(t *testing.T) {
	c := New()
	d := c.Classify(0, nil, "必須項目です g-recaptcha")
	assert.Equal(t, BotDetected, d.Code, "CAPTCHA rule has higher priority than required-field rule")
}

func TestClassify_RawErrorTimeoutFallback(t *testing.T) {
	c := New()
	d := c.Classify(0, fmt.Errorf("navigate https://example.com: %w", errors.New("navigation timeout of 15000ms exceeded")), "")
	assert.Equal(t, Timeout, d.Code)
	assert.True(t, d.Retryable)
}

func TestClassify_ContextDeadlineExceededIsTimeout(t *testing.T) {
	c := New()
	wrapped := fmt.Errorf("navigate https://example.com: %w", context.DeadlineExceeded)
	d := c.Classify(0, wrapped, "")
	assert.Equal(t, Timeout, d.Code)
	assert.True(t, d.Retryable)
	assert.Equal(t, models.CategoryNetwork, d.Category)
}

func TestClassify_UnknownFallsBackToExternalWithConfidenceFloor(t *testing.T) {
	c := New()
	d := c.Classify(0, nil, "")
	assert.Equal(t, External, d.Code)
	assert.Equal(t, 0.2, d.Confidence)
}
