package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vertexRequest struct {
	Name     string  `json:"name" validate:"required"`
	Latitude float64 `json:"latitude" validate:"min=-90,max=90"`
}

func TestCustomValidator(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&vertexRequest{Name: "HQ", Latitude: 25}))

	err := v.Validate(&vertexRequest{Latitude: 91})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertexRequest.name failed required")
	assert.Contains(t, err.Error(), "vertexRequest.latitude failed max=90")
}
