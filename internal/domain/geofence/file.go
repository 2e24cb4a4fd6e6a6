package geofence

import (
	"bytes"
	"path/filepath"
	"strings"

	"attendance/internal/domain/entity"
)

// ParseBoundaryFile parses an uploaded boundary file, choosing KML or GeoJSON
// from the extension and falling back to sniffing the content.
func ParseBoundaryFile(filename string, document []byte) ([]entity.GeoPoint, error) {
	if IsGeoJSON(filename, document) {
		return ParseGeoJSONBoundary(document)
	}

	return ParseBoundaryMarkup(document)
}

// IsGeoJSON reports whether an uploaded boundary file holds GeoJSON rather than KML
func IsGeoJSON(filename string, document []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".kml":
		return false
	case ".json", ".geojson":
		return true
	}

	trimmed := bytes.TrimSpace(document)

	return len(trimmed) > 0 && trimmed[0] == '{'
}

// BaseName strips the directory and extension from an uploaded file name
func BaseName(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}

	return strings.TrimSuffix(base, filepath.Ext(base))
}
