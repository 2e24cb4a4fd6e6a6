package geofence

import (
	"testing"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeoJSONBoundary(t *testing.T) {
	square := []entity.GeoPoint{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
		{Latitude: 0, Longitude: 0},
	}

	tests := []struct {
		name string
		doc  string
		want []entity.GeoPoint
	}{
		{
			name: "bare polygon",
			doc:  `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			want: square,
		},
		{
			name: "feature",
			doc:  `{"type":"Feature","properties":{"name":"HQ"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`,
			want: square,
		},
		{
			name: "feature collection prefers polygon over earlier point",
			doc: `{"type":"FeatureCollection","features":[
				{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[5,6]}},
				{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}
			]}`,
			want: square,
		},
		{
			name: "multipolygon uses first outer ring",
			doc:  `{"type":"MultiPolygon","coordinates":[[[[0,0],[1,0],[1,1],[0,0]]],[[[9,9],[8,8],[7,7],[9,9]]]]}`,
			want: square,
		},
		{
			name: "point fallback",
			doc:  `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[121.5654,25.033]}}`,
			want: []entity.GeoPoint{{Latitude: 25.033, Longitude: 121.5654}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := ParseGeoJSONBoundary([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, points)
		})
	}
}

func TestParseGeoJSONBoundary_Failures(t *testing.T) {
	docs := []string{
		``,
		`not json`,
		`{"type":"LineString","coordinates":[[0,0],[1,1]]}`,
		`{"type":"FeatureCollection","features":[]}`,
	}

	for _, doc := range docs {
		_, err := ParseGeoJSONBoundary([]byte(doc))
		require.Error(t, err, doc)
		assert.True(t, errors.Is(err, domainerrors.ErrMarkupParseFailure), doc)
	}
}

func TestParseBoundaryFile_DispatchesOnFormat(t *testing.T) {
	kml := BuildBoundaryMarkup("x", []entity.GeoPoint{{Latitude: 1, Longitude: 2}, {Latitude: 3, Longitude: 4}, {Latitude: 5, Longitude: 6}})
	geo := []byte(`{"type":"Point","coordinates":[2,1]}`)

	points, err := ParseBoundaryFile("area.KML", kml)
	require.NoError(t, err)
	assert.Len(t, points, 3)

	points, err = ParseBoundaryFile("area.geojson", geo)
	require.NoError(t, err)
	assert.Equal(t, []entity.GeoPoint{{Latitude: 1, Longitude: 2}}, points)

	points, err = ParseBoundaryFile("upload", geo)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = ParseBoundaryFile("upload", kml)
	require.NoError(t, err)
	assert.Len(t, points, 3)
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "North Gate", BaseName("/tmp/North Gate.kml"))
	assert.Equal(t, "archive.tar", BaseName("archive.tar.gz"))
	assert.Equal(t, "", BaseName(""))
}
