package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookup(t *testing.T) {
	tr := testTranslator(t)
	en := tr.Default()

	assert.Equal(t, "en", en.Tag.String())
	assert.Equal(t, "You Win!", en.T("popup.win"))
	assert.Equal(t, "Keep score", en.T("popup.button.keep"))
	assert.Equal(t, "popup.button.missing", en.T("popup.button.missing"))
	assert.Equal(t, "popup.button", en.T("popup.button"), "non-leaf keys miss")
	assert.Equal(t, "popup.win.extra", en.T("popup.win.extra"))
}

func TestTranslatorMatchesAcceptLanguage(t *testing.T) {
	tr := testTranslator(t)

	tests := []struct {
		header string
		want   string
	}{
		{header: "ja-JP,ja;q=0.9,en;q=0.8", want: "ja"},
		{header: "fr-FR,ja;q=0.5", want: "ja"},
		{header: "en-US", want: "en"},
		{header: "fr-FR", want: "en"},
		{header: "", want: "en"},
		{header: ";;;garbage", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Lookup(tt.header).Tag.String())
		})
	}

	assert.Equal(t, "初級", tr.Lookup("ja").T("grade.easy"))
}

func TestTranslatorFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.json"), []byte(`{"popup":{"win":"Gewonnen!"}}`), 0o644))

	tr, err := NewTranslator("de", dir)
	require.NoError(t, err)
	assert.Equal(t, "Gewonnen!", tr.Lookup("fr").T("popup.win"))

	_, err = NewTranslator("en", dir)
	assert.ErrorContains(t, err, "no catalog for default locale")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{`), 0o644))
	_, err = NewTranslator("de", dir)
	assert.ErrorContains(t, err, "failed to decode locale en")
}
