package ctxextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `
<html><body>
<form>
  <label for="email">メールアドレス</label>
  <input id="email" name="email" type="email">

  <dl>
    <dt>お名前</dt>
    <dd><input id="name1" name="name1" type="text"></dd>
  </dl>

  <table>
    <tr><th>会社名</th><td><input id="company" name="company" type="text"></td></tr>
  </table>
</form>
</body></html>`

func TestGoqueryReader_LabelForText(t *testing.T) {
	r, err := NewGoqueryReader(sampleHTML)
	require.NoError(t, err)

	text, ok := r.LabelForText("email")
	require.True(t, ok)
	assert.Equal(t, "メールアドレス", text)
}

func TestGoqueryReader_DTIndex(t *testing.T) {
	r, err := NewGoqueryReader(sampleHTML)
	require.NoError(t, err)

	text, ok := r.DTIndexText("name1")
	require.True(t, ok)
	assert.Equal(t, "お名前", text)
}

func TestGoqueryReader_THIndex(t *testing.T) {
	r, err := NewGoqueryReader(sampleHTML)
	require.NoError(t, err)

	text, ok := r.THIndexText("company")
	require.True(t, ok)
	assert.Equal(t, "会社名", text)
}

func TestGoqueryReader_UnknownElementNoMatch(t *testing.T) {
	r, err := NewGoqueryReader(sampleHTML)
	require.NoError(t, err)

	_, ok := r.DTIndexText("does-not-exist")
	assert.False(t, ok)
}
