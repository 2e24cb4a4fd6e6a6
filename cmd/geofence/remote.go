package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"attendance/config"
	"attendance/internal/infra/archive"
	"attendance/internal/infra/backend"
	logs "attendance/internal/infra/log"
	"attendance/internal/usecase"
	"attendance/internal/usecase/impl"

	"github.com/pkg/errors"
)

type officeAreas = usecase.OfficeAreaUsecase

// withOfficeAreas wires the office area workflows against the configured backend
func withOfficeAreas(ctx context.Context, fn func(officeAreas) error) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger, err := logs.New(logs.Params{Config: cfg})
	if err != nil {
		return err
	}

	client, err := backend.New(cfg.Backend, logger)
	if err != nil {
		return err
	}

	boundaryArchive, err := archive.Open(ctx, cfg.Archive, logger)
	if err != nil {
		return err
	}
	defer boundaryArchive.Close()

	return fn(impl.NewOfficeAreaService(client, boundaryArchive, logger))
}

func runImport(ctx context.Context, out io.Writer, uc officeAreas, file, name string) error {
	document, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "read %s", file)
	}

	result, err := uc.ImportBoundary(ctx, &usecase.ImportBoundaryInput{
		Name:     name,
		Filename: file,
		Document: document,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Created office area %d %q\n", result.Area.ID, result.Area.Name)
	fmt.Fprintf(out, "Center:   %s, %s (lat, lng)\n",
		formatCoordinate(result.Coverage.Center.Latitude), formatCoordinate(result.Coverage.Center.Longitude))
	fmt.Fprintf(out, "Radius:   %.0f m\n", result.Coverage.RadiusMeters)
	if result.BoundaryAttached {
		fmt.Fprintln(out, "Boundary: attached")
	}
	if result.Warning != "" {
		fmt.Fprintf(out, "Warning:  %s\n", result.Warning)
	}

	return nil
}

func runList(ctx context.Context, out io.Writer, uc officeAreas) error {
	areas, err := uc.ListAreas(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tLAT\tLNG\tRADIUS\tBOUNDARY\tSTATUS")
	for _, area := range areas {
		radius := "-"
		if area.RadiusMeters != nil {
			radius = fmt.Sprintf("%.0f", *area.RadiusMeters)
		}
		boundary := "no"
		if area.HasBoundary() {
			boundary = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			area.ID, area.Name,
			formatCoordinate(area.Latitude), formatCoordinate(area.Longitude),
			radius, boundary, area.Status)
	}

	return errors.WithStack(w.Flush())
}

func runShow(ctx context.Context, out io.Writer, uc officeAreas, id int64, output string) error {
	view, err := uc.LoadBoundary(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Office area %d %q\n", view.Area.ID, view.Area.Name)
	fmt.Fprintf(out, "Center:   %s, %s (lat, lng)\n",
		formatCoordinate(view.Coverage.Center.Latitude), formatCoordinate(view.Coverage.Center.Longitude))
	fmt.Fprintf(out, "Radius:   %.0f m\n", view.Coverage.RadiusMeters)
	fmt.Fprintf(out, "Vertices: %d\n", len(view.Vertices))

	if output == "" {
		fmt.Fprintln(out, view.VertexText)

		return nil
	}

	if err := os.WriteFile(output, []byte(view.VertexText+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", output)
	}
	fmt.Fprintf(out, "Wrote vertices to %s\n", output)

	return nil
}

func runEdit(ctx context.Context, out io.Writer, uc officeAreas, id int64, name, vertexText string) error {
	view, err := uc.UpdateBoundary(ctx, id, &usecase.UpdateBoundaryInput{
		Name:       name,
		VertexText: vertexText,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Updated office area %d %q\n", view.Area.ID, view.Area.Name)
	fmt.Fprintf(out, "Center:   %s, %s (lat, lng)\n",
		formatCoordinate(view.Coverage.Center.Latitude), formatCoordinate(view.Coverage.Center.Longitude))
	fmt.Fprintf(out, "Radius:   %.0f m\n", view.Coverage.RadiusMeters)

	return nil
}
