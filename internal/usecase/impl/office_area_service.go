package impl

import (
	"context"
	"log/slog"
	"strings"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/geofence"
	"attendance/internal/domain/service"
	"attendance/internal/errors"
	"attendance/internal/usecase"
)

type officeAreaService struct {
	gateway service.OfficeAreaGateway
	archive service.BoundaryArchive
	logger  *slog.Logger
}

// NewOfficeAreaService creates a new office area service instance
func NewOfficeAreaService(
	gateway service.OfficeAreaGateway,
	archive service.BoundaryArchive,
	logger *slog.Logger,
) usecase.OfficeAreaUsecase {
	return &officeAreaService{
		gateway: gateway,
		archive: archive,
		logger:  logger,
	}
}

// ImportBoundary creates the area first, then attaches the polygon document.
// An unparseable document still creates the area as a plain circle at the
// origin and is reported as a warning.
func (s *officeAreaService) ImportBoundary(ctx context.Context, input *usecase.ImportBoundaryInput) (*usecase.ImportBoundaryResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = geofence.BaseName(input.Filename)
	}
	if name == "" {
		return nil, domainerrors.ErrAreaNameRequired
	}

	result := &usecase.ImportBoundaryResult{}

	points, err := geofence.ParseBoundaryFile(input.Filename, input.Document)
	if err != nil {
		if !errors.Is(err, domainerrors.ErrMarkupParseFailure) {
			return nil, err
		}

		s.logger.Warn("Boundary document could not be parsed, creating a plain circle",
			slog.String("filename", input.Filename),
			slog.Any("error", err),
		)
		result.Warning = err.Error()
	}

	if coverage, ok := geofence.DeriveCoverage(points); ok {
		result.Coverage = coverage
	}

	radius := result.Coverage.RadiusMeters
	area, err := s.gateway.CreateOfficeArea(ctx, &service.CreateOfficeAreaRequest{
		Name:         name,
		Latitude:     result.Coverage.Center.Latitude,
		Longitude:    result.Coverage.Center.Longitude,
		RadiusMeters: &radius,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create office area")
	}
	result.Area = area

	if !geofence.IsPolygon(points) {
		return result, nil
	}

	filename, document := input.Filename, input.Document
	if geofence.IsGeoJSON(input.Filename, input.Document) {
		filename = name + ".kml"
		document = geofence.BuildBoundaryMarkup(name, points)
	}

	attached, err := s.attachBoundary(ctx, area.ID, filename, document)
	if err != nil {
		return nil, errors.Wrapf(err, "office area %d created but polygon upload failed", area.ID)
	}
	result.Area = attached
	result.BoundaryAttached = true

	s.logger.Info("Imported office area boundary",
		slog.Int64("area_id", area.ID),
		slog.String("name", name),
		slog.Int("vertices", len(points)),
		slog.Float64("radius_meters", result.Coverage.RadiusMeters),
	)

	return result, nil
}

func (s *officeAreaService) LoadBoundary(ctx context.Context, id int64) (*usecase.BoundaryView, error) {
	area, err := s.gateway.GetOfficeArea(ctx, id)
	if err != nil {
		return nil, err
	}
	if !area.HasBoundary() {
		return nil, domainerrors.ErrBoundaryNotFound
	}

	document, err := s.gateway.FetchPolygon(ctx, area.PolygonFileURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download polygon document")
	}

	points, err := geofence.ParseBoundaryFile(area.PolygonFileURL, document)
	if err != nil {
		return nil, err
	}

	return newBoundaryView(area, points), nil
}

// UpdateBoundary validates the vertices before any backend call, then writes
// the derived center and radius and uploads the rebuilt document.
func (s *officeAreaService) UpdateBoundary(ctx context.Context, id int64, input *usecase.UpdateBoundaryInput) (*usecase.BoundaryView, error) {
	points, err := geofence.ParsePolygonVertices(input.VertexText)
	if err != nil {
		return nil, err
	}

	area, err := s.gateway.GetOfficeArea(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = area.Name
	}

	coverage, _ := geofence.DeriveCoverage(points)
	req := &service.UpdateOfficeAreaRequest{
		Latitude:     &coverage.Center.Latitude,
		Longitude:    &coverage.Center.Longitude,
		RadiusMeters: &coverage.RadiusMeters,
	}
	if name != area.Name {
		req.Name = &name
	}

	if _, err := s.gateway.UpdateOfficeArea(ctx, id, req); err != nil {
		return nil, errors.Wrap(err, "failed to update office area")
	}

	updated, err := s.attachBoundary(ctx, id, name+".kml", geofence.BuildBoundaryMarkup(name, points))
	if err != nil {
		return nil, errors.Wrap(err, "failed to upload polygon document")
	}

	s.logger.Info("Updated office area boundary",
		slog.Int64("area_id", id),
		slog.Int("vertices", len(points)),
		slog.Float64("radius_meters", coverage.RadiusMeters),
	)

	return newBoundaryView(updated, points), nil
}

func (s *officeAreaService) CreateCircle(ctx context.Context, input *usecase.CreateCircleInput) (*entity.OfficeArea, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.ErrAreaNameRequired
	}

	area, err := s.gateway.CreateOfficeArea(ctx, &service.CreateOfficeAreaRequest{
		Name:         name,
		Latitude:     input.Center.Latitude,
		Longitude:    input.Center.Longitude,
		RadiusMeters: input.RadiusMeters,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create office area")
	}

	return area, nil
}

// UpdateArea applies a partial update. Center and radius of a polygon area
// are derived from its boundary and cannot be edited directly.
func (s *officeAreaService) UpdateArea(ctx context.Context, id int64, input *usecase.UpdateAreaInput) (*entity.OfficeArea, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, domainerrors.ErrAreaNameRequired
	}

	editsGeometry := input.Latitude != nil || input.Longitude != nil || input.RadiusMeters != nil
	if editsGeometry {
		area, err := s.gateway.GetOfficeArea(ctx, id)
		if err != nil {
			return nil, err
		}
		if area.HasBoundary() {
			return nil, domainerrors.ErrDerivedFieldEdit
		}
	}

	area, err := s.gateway.UpdateOfficeArea(ctx, id, &service.UpdateOfficeAreaRequest{
		Name:         input.Name,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
		Status:       input.Status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update office area")
	}

	return area, nil
}

func (s *officeAreaService) ListAreas(ctx context.Context) ([]*entity.OfficeArea, error) {
	areas, err := s.gateway.ListOfficeAreas(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list office areas")
	}

	return areas, nil
}

func (s *officeAreaService) DeactivateArea(ctx context.Context, id int64) error {
	if err := s.gateway.DeactivateOfficeArea(ctx, id); err != nil {
		return errors.Wrap(err, "failed to deactivate office area")
	}

	s.logger.Info("Deactivated office area", slog.Int64("area_id", id))

	return nil
}

// attachBoundary uploads the document and keeps an archive copy.
// Archive failures are logged only; the backend already holds the document.
func (s *officeAreaService) attachBoundary(ctx context.Context, id int64, filename string, document []byte) (*entity.OfficeArea, error) {
	area, err := s.gateway.UploadPolygon(ctx, id, filename, document)
	if err != nil {
		return nil, err
	}

	if _, err := s.archive.Store(ctx, id, filename, document); err != nil {
		s.logger.Warn("Failed to archive boundary document",
			slog.Int64("area_id", id),
			slog.Any("error", err),
		)
	}

	return area, nil
}

func newBoundaryView(area *entity.OfficeArea, points []entity.GeoPoint) *usecase.BoundaryView {
	view := &usecase.BoundaryView{
		Area:       area,
		Vertices:   points,
		VertexText: geofence.FormatVertexText(points),
	}
	if coverage, ok := geofence.DeriveCoverage(points); ok {
		view.Coverage = coverage
	}

	return view
}
