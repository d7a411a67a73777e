package code

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalDefaultLang(t *testing.T) {
	t.Cleanup(func() { _ = SetGlobalDefaultLang(FALLBACK_LNG) })

	assert.Equal(t, FALLBACK_LNG, GetGlobalDefaultLang())
	assert.Equal(t, "Success", Success.Msg())

	require.NoError(t, SetGlobalDefaultLang("zh-CN"))
	assert.Equal(t, "zh_cn", GetGlobalDefaultLang())
	assert.Equal(t, "成功", Success.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, FALLBACK_LNG, GetGlobalDefaultLang())
}

func TestLangIn(t *testing.T) {
	assert.Equal(t, "成功", Success.Lang.In("zh"))
	assert.Equal(t, "成功", Success.Lang.In("zh-CN"))
	assert.Equal(t, "Success", Success.Lang.In("en"))
	assert.Equal(t, "Success", Success.Lang.In("de"))

	onlyEn := lang{en: "only"}
	assert.Equal(t, "only", onlyEn.In("zh_cn"))
}

func TestCatalogRegistered(t *testing.T) {
	assert.Equal(t, "Success", sussCodes[Success.Code()])
	assert.Equal(t, "Note doesn't exist!", codes[ErrorNoteNotFound.Code()])
	assert.NotEqual(t, SuccessNoteAdded.Code(), SuccessNoteModified.Code())
}

func TestCode_WithDetailsAndData(t *testing.T) {
	c := ErrorInvalidParams.WithDetails("id")
	assert.Equal(t, []string{"id"}, c.Details())
	assert.True(t, c.HaveDetails())
	assert.False(t, ErrorInvalidParams.HaveDetails(), "the registered code stays untouched")
	assert.ErrorIs(t, c, ErrorInvalidParams)

	d := Success.WithData(42)
	assert.True(t, d.HaveData())
	assert.Equal(t, 42, d.Data())
	assert.Nil(t, Success.Data())
}

func TestCode_StatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, ErrorSessionInvalid.StatusCode())
	assert.Equal(t, http.StatusOK, ErrorNoteNotFound.StatusCode())
	assert.Equal(t, http.StatusOK, Success.StatusCode())
	assert.True(t, Success.Status())
	assert.False(t, ErrorNotFound.Status())
}
