package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	assert.Equal(t, IntValue(3), ParseValue("3"))
	assert.Equal(t, IntValue(-2), ParseValue("-2"))
	assert.Equal(t, StrValue("3a"), ParseValue("3a"))
	assert.Equal(t, StrValue("3.5"), ParseValue("3.5"), "decimals stay strings")
	assert.Equal(t, StrValue(""), ParseValue(""))
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal(IntValue(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(data))

	data, err = json.Marshal(StrValue("abc"))
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(data))

	var v Value
	require.NoError(t, json.Unmarshal([]byte("7"), &v))
	assert.Equal(t, IntValue(7), v)
	require.NoError(t, json.Unmarshal([]byte(`"x"`), &v))
	assert.Equal(t, StrValue("x"), v)
	assert.Error(t, json.Unmarshal([]byte("[1]"), &v))
}

func TestVisibilityJSON(t *testing.T) {
	data, err := json.Marshal(VisibleAlways())
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	data, err = json.Marshal(VisibleWhen("a == 1"))
	require.NoError(t, err)
	assert.Equal(t, `"a == 1"`, string(data))

	var v Visibility
	require.NoError(t, json.Unmarshal([]byte("false"), &v))
	assert.False(t, v.Always)
	assert.False(t, v.Conditional())

	require.NoError(t, json.Unmarshal([]byte(`"b > 2"`), &v))
	assert.True(t, v.Conditional())
	assert.Equal(t, "b > 2", v.Expr)
}

func TestLangString(t *testing.T) {
	assert.Equal(t, "hi", NewLangString("hi").Text())
	assert.Nil(t, NewLangString(""))
	assert.Equal(t, "", LangString(nil).Text())
	assert.Equal(t, "fallback", LangString{"fr": "fallback"}.Text())
}
