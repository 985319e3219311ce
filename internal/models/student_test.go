package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFaceDescriptorRoundTrip(t *testing.T) {
	original := FaceDescriptor{-0.12345678901234, 0, 0.5, 1e-9, 0.1 + 0.2}

	stored, err := original.Value()
	require.NoError(t, err)

	var fromText FaceDescriptor
	require.NoError(t, fromText.Scan(stored))
	assert.Equal(t, original, fromText)

	var fromBytes FaceDescriptor
	require.NoError(t, fromBytes.Scan([]byte(stored.(string))))
	assert.Equal(t, original, fromBytes)
}

func TestFaceDescriptorNull(t *testing.T) {
	var d FaceDescriptor
	v, err := d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	d = FaceDescriptor{1}
	require.NoError(t, d.Scan(nil))
	assert.Nil(t, d)
}

func TestFaceDescriptorRejectsGarbage(t *testing.T) {
	var d FaceDescriptor
	assert.Error(t, d.Scan("not json"))
	assert.Error(t, d.Scan(42))
}
