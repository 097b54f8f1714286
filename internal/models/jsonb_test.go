package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONBStringArrayRoundTrip(t *testing.T) {
	arr := JSONBStringArray{"pizza", "sushi"}

	value, err := arr.Value()
	require.NoError(t, err)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, arr, scanned)
}

func TestJSONBStringArrayEmpty(t *testing.T) {
	value, err := JSONBStringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)

	var scanned JSONBStringArray
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}

func TestJSONBMapRoundTrip(t *testing.T) {
	m := JSONBMap{"recipe_name": "Pasta", "servings": float64(2)}

	value, err := m.Value()
	require.NoError(t, err)

	var scanned JSONBMap
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, m, scanned)
}

func TestJSONBMapScanString(t *testing.T) {
	var scanned JSONBMap
	require.NoError(t, scanned.Scan(`{"k":"v"}`))
	assert.Equal(t, JSONBMap{"k": "v"}, scanned)
}

func TestJSONBMapEmpty(t *testing.T) {
	value, err := JSONBMap{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)

	var scanned JSONBMap
	require.NoError(t, scanned.Scan(nil))
	assert.Empty(t, scanned)
}
