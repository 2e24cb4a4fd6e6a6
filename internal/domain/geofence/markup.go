package geofence

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"

	"golang.org/x/net/html/charset"
)

// KMLContentType is the media type of boundary markup documents
const KMLContentType = "application/vnd.google-earth.kml+xml"

const kmlNamespace = "http://www.opengis.net/kml/2.2"

// ParseBoundaryMarkup extracts boundary vertices from a KML document.
//
// The outer ring of the first Polygon wins. Without a usable polygon the first
// Point is returned as a single-element slice. Malformed coordinate tuples are
// dropped rather than failing the parse. A document that is not well-formed, or
// has no usable coordinate at all, yields ErrMarkupParseFailure.
func ParseBoundaryMarkup(document []byte) ([]entity.GeoPoint, error) {
	polygonText, pointText, err := scanCoordinates(document)
	if err != nil {
		return nil, domainerrors.ErrMarkupParseFailure.WithDetails(err.Error())
	}

	if points := parseCoordinateList(polygonText); len(points) > 0 {
		return points, nil
	}

	if fields := strings.Fields(pointText); len(fields) > 0 {
		if p, ok := parseCoordinateTuple(fields[0]); ok {
			return []entity.GeoPoint{p}, nil
		}
	}

	return nil, domainerrors.ErrMarkupParseFailure.WithDetails("no polygon or point coordinates found")
}

// scanCoordinates returns the raw text of the first polygon outer-ring
// coordinates element and of the first point coordinates element.
func scanCoordinates(document []byte) (polygonText, pointText string, err error) {
	decoder := xml.NewDecoder(bytes.NewReader(document))
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		stack        []string
		buf          strings.Builder
		capturing    bool
		polygonFound bool
		pointFound   bool
	)

	for {
		tok, tokErr := decoder.Token()
		if tokErr == io.EOF {
			break
		}
		if tokErr != nil {
			return "", "", tokErr
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if t.Name.Local == "coordinates" {
				capturing = true
				buf.Reset()
			}

		case xml.CharData:
			if capturing {
				buf.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "coordinates" && capturing {
				capturing = false

				switch {
				case !polygonFound && within(stack, "Polygon") && !within(stack, "innerBoundaryIs"):
					polygonText = buf.String()
					polygonFound = true
				case !pointFound && within(stack, "Point"):
					pointText = buf.String()
					pointFound = true
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	return polygonText, pointText, nil
}

func within(stack []string, element string) bool {
	for _, name := range stack {
		if name == element {
			return true
		}
	}

	return false
}

// BuildBoundaryMarkup renders a minimal KML document holding one polygon
// placemark. Points are written in the given order without closing the ring,
// using full float64 precision so that parsing the document returns them exactly.
func BuildBoundaryMarkup(name string, points []entity.GeoPoint) []byte {
	var b bytes.Buffer

	b.WriteString(xml.Header)
	b.WriteString(`<kml xmlns="` + kmlNamespace + `">` + "\n")
	b.WriteString("  <Placemark>\n")
	b.WriteString("    <name>")
	// bytes.Buffer writes never fail
	_ = xml.EscapeText(&b, []byte(name))
	b.WriteString("</name>\n")
	b.WriteString("    <Polygon>\n")
	b.WriteString("      <outerBoundaryIs>\n")
	b.WriteString("        <LinearRing>\n")
	b.WriteString("          <coordinates>")
	b.WriteString(formatCoordinateList(points))
	b.WriteString("</coordinates>\n")
	b.WriteString("        </LinearRing>\n")
	b.WriteString("      </outerBoundaryIs>\n")
	b.WriteString("    </Polygon>\n")
	b.WriteString("  </Placemark>\n")
	b.WriteString("</kml>\n")

	return b.Bytes()
}
