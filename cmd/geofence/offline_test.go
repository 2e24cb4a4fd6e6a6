package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/geofence"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const squareVertices = "0,0 0.001,0 0.001,0.001 0,0.001"

func TestDerive_FromVertices(t *testing.T) {
	var out bytes.Buffer

	err := runSubcommand(context.Background(), "derive", []string{"-vertices", squareVertices}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Vertices: 4")
	assert.Contains(t, out.String(), "Center:   0.000500, 0.000500 (lat, lng)")
	assert.Contains(t, out.String(), "Radius:   79 m")
	assert.NotContains(t, out.String(), "not a polygon")
}

func TestDerive_FromBoundaryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "square.geojson")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"Polygon","coordinates":[[[0,0],[0.001,0],[0.001,0.001],[0,0.001],[0,0]]]}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, runDerive(&out, path, "", ""))

	assert.Contains(t, out.String(), "Vertices: 5")
}

func TestDerive_SinglePoint(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runDerive(&out, "", "121.5,25.03", ""))

	assert.Contains(t, out.String(), "Radius:   0 m")
	assert.Contains(t, out.String(), "not a polygon")
}

func TestDerive_NoVertices(t *testing.T) {
	err := runDerive(&bytes.Buffer{}, "", "garbage", "")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidVertexInput))

	err = runDerive(&bytes.Buffer{}, "", "", "")
	assert.ErrorContains(t, err, "--vertices or --vertices-file is required")
}

func TestBuild_WritesMarkup(t *testing.T) {
	dir := t.TempDir()
	verticesFile := filepath.Join(dir, "hq.txt")
	output := filepath.Join(dir, "hq.kml")
	require.NoError(t, os.WriteFile(verticesFile, []byte(squareVertices+"\n"), 0o644))

	var out bytes.Buffer
	err := runSubcommand(context.Background(), "build",
		[]string{"-name", "HQ", "-vertices-file", verticesFile, "-output", output}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(4 vertices, ")

	document, err := os.ReadFile(output)
	require.NoError(t, err)

	points, err := geofence.ParseBoundaryMarkup(document)
	require.NoError(t, err)
	assert.Equal(t, geofence.ParseVertexText(squareVertices), points)
}

func TestBuild_ToStdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runBuild(&out, "HQ", squareVertices, "", ""))

	assert.Contains(t, out.String(), "<name>HQ</name>")
}

func TestBuild_Rejections(t *testing.T) {
	err := runBuild(&bytes.Buffer{}, " ", squareVertices, "", "")
	assert.True(t, errors.Is(err, domainerrors.ErrAreaNameRequired))

	err = runBuild(&bytes.Buffer{}, "HQ", "0,0 1,1", "", "")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidVertexInput))
}

func TestRunSubcommand_Unknown(t *testing.T) {
	var out bytes.Buffer

	err := runSubcommand(context.Background(), "frobnicate", nil, &out)

	assert.ErrorContains(t, err, `unknown subcommand "frobnicate"`)
	assert.Contains(t, out.String(), "Usage: geofence")
}
