package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"attendance/internal/domain/entity"
	domainerrors "attendance/internal/domain/errors"
	"attendance/internal/domain/geofence"
	"attendance/internal/domain/service"

	"github.com/pkg/errors"
)

const officeAreasPath = "/api/admin/office-areas"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func officeAreaPath(id int64) string {
	return officeAreasPath + "/" + strconv.FormatInt(id, 10)
}

// ListOfficeAreas returns every geofence known to the backend
func (c *Client) ListOfficeAreas(ctx context.Context) ([]*entity.OfficeArea, error) {
	var areas []*entity.OfficeArea
	if err := c.do(ctx, &request{method: http.MethodGet, path: officeAreasPath}, &areas); err != nil {
		return nil, err
	}

	return areas, nil
}

// GetOfficeArea returns one geofence
func (c *Client) GetOfficeArea(ctx context.Context, id int64) (*entity.OfficeArea, error) {
	var area entity.OfficeArea
	if err := c.do(ctx, &request{
		method:   http.MethodGet,
		path:     officeAreaPath(id),
		notFound: domainerrors.ErrOfficeAreaNotFound,
	}, &area); err != nil {
		return nil, err
	}

	return &area, nil
}

// CreateOfficeArea creates a geofence from a center and optional radius
func (c *Client) CreateOfficeArea(ctx context.Context, req *service.CreateOfficeAreaRequest) (*entity.OfficeArea, error) {
	return c.sendArea(ctx, http.MethodPost, officeAreasPath, req)
}

// UpdateOfficeArea applies a partial update
func (c *Client) UpdateOfficeArea(ctx context.Context, id int64, req *service.UpdateOfficeAreaRequest) (*entity.OfficeArea, error) {
	return c.sendArea(ctx, http.MethodPut, officeAreaPath(id), req)
}

// DeactivateOfficeArea marks a geofence inactive
func (c *Client) DeactivateOfficeArea(ctx context.Context, id int64) error {
	return c.do(ctx, &request{
		method:   http.MethodDelete,
		path:     officeAreaPath(id),
		notFound: domainerrors.ErrOfficeAreaNotFound,
	}, nil)
}

func (c *Client) sendArea(ctx context.Context, method, path string, payload any) (*entity.OfficeArea, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var area entity.OfficeArea
	if err := c.do(ctx, &request{
		method:      method,
		path:        path,
		body:        body,
		contentType: "application/json",
		notFound:    domainerrors.ErrOfficeAreaNotFound,
	}, &area); err != nil {
		return nil, err
	}

	return &area, nil
}

// UploadPolygon attaches a KML boundary document as multipart field "file"
func (c *Client) UploadPolygon(ctx context.Context, id int64, filename string, document []byte) (*entity.OfficeArea, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+quoteEscaper.Replace(filename)+`"`)
	header.Set("Content-Type", geofence.KMLContentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := part.Write(document); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.WithStack(err)
	}

	var area entity.OfficeArea
	if err := c.do(ctx, &request{
		method:      http.MethodPost,
		path:        officeAreaPath(id) + "/polygon",
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
		notFound:    domainerrors.ErrOfficeAreaNotFound,
	}, &area); err != nil {
		return nil, err
	}

	return &area, nil
}

// FetchPolygon downloads a boundary document. Relative URLs resolve against the
// backend base URL; the bearer token is only sent to the backend host.
func (c *Client) FetchPolygon(ctx context.Context, fileURL string) ([]byte, error) {
	ref, err := url.Parse(fileURL)
	if err != nil {
		return nil, domainerrors.ErrBackendFailure.WithDetails("invalid polygon file url " + strconv.Quote(fileURL))
	}

	target := c.baseURL.ResolveReference(ref)
	if !ref.IsAbs() && !strings.HasPrefix(ref.Path, "/") {
		target = c.resolve("/" + ref.Path)
		target.RawQuery = ref.RawQuery
	}

	req := &request{
		method:   http.MethodGet,
		path:     target.Path,
		notFound: domainerrors.ErrBoundaryNotFound,
	}

	sameHost := target.Host == c.baseURL.Host
	if sameHost && c.token() == "" && c.HasCredentials() {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	document, err := c.roundTrip(ctx, req, target, sameHost)
	if errors.Is(err, domainerrors.ErrBackendUnauthorized) && sameHost && c.HasCredentials() {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		document, err = c.roundTrip(ctx, req, target, sameHost)
	}
	if err != nil {
		return nil, err
	}

	return document, nil
}
