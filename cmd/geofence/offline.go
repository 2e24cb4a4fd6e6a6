package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/geofence"
	"attendance/internal/util"

	"github.com/pkg/errors"
)

func runDerive(out io.Writer, file, vertices, verticesFile string) error {
	var points []entity.GeoPoint

	if file != "" {
		document, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "read %s", file)
		}

		points, err = geofence.ParseBoundaryFile(file, document)
		if err != nil {
			return err
		}
	} else {
		vertexText, err := readVertexText(vertices, verticesFile)
		if err != nil {
			return err
		}
		points = geofence.ParseVertexText(vertexText)
	}

	coverage, ok := geofence.DeriveCoverage(points)
	if !ok {
		return domainerrors.ErrInvalidVertexInput.WithDetails("no valid vertices")
	}

	fmt.Fprintf(out, "Vertices: %d\n", len(points))
	fmt.Fprintf(out, "Center:   %s, %s (lat, lng)\n",
		formatCoordinate(coverage.Center.Latitude), formatCoordinate(coverage.Center.Longitude))
	fmt.Fprintf(out, "Radius:   %.0f m\n", coverage.RadiusMeters)
	if !geofence.IsPolygon(points) {
		fmt.Fprintln(out, "Note:     fewer than 3 vertices, not a polygon")
	}

	return nil
}

func runBuild(out io.Writer, name, vertices, verticesFile, output string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domainerrors.ErrAreaNameRequired
	}

	vertexText, err := readVertexText(vertices, verticesFile)
	if err != nil {
		return err
	}

	points, err := geofence.ParsePolygonVertices(vertexText)
	if err != nil {
		return err
	}

	document := geofence.BuildBoundaryMarkup(name, points)
	if output == "" {
		_, err := out.Write(document)

		return errors.WithStack(err)
	}

	if err := os.WriteFile(output, document, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", output)
	}

	fmt.Fprintf(out, "Wrote %s (%d vertices, %s)\n", output, len(points), util.FormatBytes(int64(len(document))))

	return nil
}

// readVertexText takes vertices inline or from a file, preferring the inline value
func readVertexText(vertices, verticesFile string) (string, error) {
	if strings.TrimSpace(vertices) != "" {
		return vertices, nil
	}

	if verticesFile == "" {
		return "", errors.New("--vertices or --vertices-file is required")
	}

	raw, err := os.ReadFile(verticesFile)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", verticesFile)
	}

	return string(raw), nil
}

func formatCoordinate(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
