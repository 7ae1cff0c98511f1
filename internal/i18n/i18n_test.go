package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_AndTranslate(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "en.yaml", "wizard:\n  help: \"Say start\"\nerror:\n  generic: \"Oops\"\n")
	writeCatalog(t, dir, "ja.yaml", "wizard:\n  help: \"startと入力\"\n")

	m, err := Load(dir, "en")
	require.NoError(t, err)

	en := m.Translator("en")
	assert.Equal(t, "Say start", en.T("wizard.help"))

	ja := m.Translator("ja")
	assert.Equal(t, "startと入力", ja.T("wizard.help"))
	// missing key falls back to the default language
	assert.Equal(t, "Oops", ja.T("error.generic"))
	// unknown key falls back to the key itself
	assert.Equal(t, "no.such.key", ja.T("no.such.key"))
}

func TestLoad_UnknownLangFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "en.yaml", "wizard:\n  help: \"Say start\"\n")

	m, err := Load(dir, "en")
	require.NoError(t, err)

	tr := m.Translator("fr")
	assert.Equal(t, "en", tr.Lang())
	assert.Equal(t, "Say start", tr.T("wizard.help"))
}

func TestLoad_MissingDefaultLang(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "ja.yaml", "wizard:\n  help: \"x\"\n")

	_, err := Load(dir, "en")
	assert.Error(t, err)
}

func TestLoad_ShippedCatalogs(t *testing.T) {
	m, err := Load("catalogs", "en")
	require.NoError(t, err)

	en := m.Translator("en")
	for _, key := range []string{
		"wizard.help", "wizard.category_question", "wizard.confirm_question",
		"step.email", "step.url", "step.state",
		"error.validation", "error.session_expired", "error.generic",
	} {
		assert.NotEqual(t, key, en.T(key), "missing catalog entry %s", key)
	}
}
