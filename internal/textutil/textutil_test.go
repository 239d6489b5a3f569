package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCJK(t *testing.T) {
	assert.True(t, HasCJK("カナ"))
	assert.True(t, HasCJK("姓名"))
	assert.True(t, HasCJK("ふりがな"))
	assert.False(t, HasCJK("name"))
	assert.False(t, HasCJK(""))
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(0)
	for _, s := range []string{"Ｅメール", "KANA", "会社名", ""} {
		once := n.Normalize(s)
		twice := n.Normalize(once)
		assert.Equal(t, once, twice, "normalize(normalize(x)) == normalize(x) for %q", s)
	}
}

func TestNormalizer_Casefold(t *testing.T) {
	n := NewNormalizer(0)
	assert.Equal(t, n.Normalize("EMAIL"), n.Normalize("email"))
}

func TestNormalizer_CacheWholesaleClear(t *testing.T) {
	n := NewNormalizer(2)
	n.Normalize("a")
	n.Normalize("b")
	n.Normalize("c") // triggers wholesale clear before inserting "c"
	assert.LessOrEqual(t, len(n.cache), 2)
}

func TestContainsTokenWithBoundary_ASCIIBoundaries(t *testing.T) {
	for _, boundary := range []string{"_", "-", ".", "/", " "} {
		text := "prefix" + boundary + "email" + boundary + "suffix"
		assert.True(t, ContainsTokenWithBoundary(text, "email"), "boundary %q", boundary)
	}
}

func TestContainsTokenWithBoundary_CJKBoundary(t *testing.T) {
	text := "会社名（必須）"
	assert.True(t, ContainsTokenWithBoundary(text, "必須"))
}

func TestContainsTokenWithBoundary_NoBoundaryNoMatch(t *testing.T) {
	assert.False(t, ContainsTokenWithBoundary("emailaddress", "email"))
}

func TestContainsTokenWithBoundary_SpecialCaseMei(t *testing.T) {
	assert.False(t, ContainsTokenWithBoundary("お名前をご記入ください", "名"))
}

func TestContainsTokenWithBoundary_SpecialCaseSei(t *testing.T) {
	assert.True(t, ContainsTokenWithBoundary("姓名をご記入ください", "姓"))
}

func TestContainsTokenWithBoundary_CJKSubstring(t *testing.T) {
	assert.True(t, ContainsTokenWithBoundary("お問い合わせ内容", "問い合わせ"))
}
