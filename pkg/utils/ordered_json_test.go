package utils

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeOrdered_KeepsKeyOrder(t *testing.T) {
	v, err := DecodeOrdered(strings.NewReader(`{"zeta": 1, "alpha": {"b": "x", "a": [true, null]}, "mid": "s"}`))
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	require.Len(t, obj, 3)
	assert.Equal(t, "zeta", obj[0].Key)
	assert.Equal(t, json.Number("1"), obj[0].Value)
	assert.Equal(t, "alpha", obj[1].Key)
	assert.Equal(t, "s", obj.String("mid"))
	assert.Equal(t, "", obj.String("zeta"))

	inner := obj[1].Value.(Object)
	assert.Equal(t, "b", inner[0].Key)
	assert.Equal(t, []interface{}{true, nil}, inner[1].Value)
}

func TestDecodeOrdered_Errors(t *testing.T) {
	_, err := DecodeOrdered(strings.NewReader(`{"a": `))
	assert.Error(t, err)

	_, err = DecodeOrdered(strings.NewReader(`{"a": 1} {"b": 2}`))
	assert.Error(t, err)
}
