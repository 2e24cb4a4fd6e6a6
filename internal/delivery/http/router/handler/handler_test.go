package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"attendance/internal/delivery/http/middleware"
	"attendance/internal/delivery/http/response"
	"attendance/internal/delivery/http/validator"
	"attendance/internal/domain/entity"
	"attendance/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool                `json:"success"`
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).HandleHTTPError

	return e
}

func serve(t *testing.T, e *echo.Echo, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func uploadRequest(t *testing.T, target, filename string, document []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(document)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func decodeData[T any](t *testing.T, body envelope) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(body.Data, &out))

	return out
}

type mockRotationUsecase struct {
	mock.Mock
}

func (m *mockRotationUsecase) Open(ctx context.Context) {
	m.Called(ctx)
}

func (m *mockRotationUsecase) Close() {
	m.Called()
}

func (m *mockRotationUsecase) Start(ctx context.Context) (entity.RotationSnapshot, error) {
	args := m.Called(ctx)

	return args.Get(0).(entity.RotationSnapshot), args.Error(1)
}

func (m *mockRotationUsecase) Stop() entity.RotationSnapshot {
	return m.Called().Get(0).(entity.RotationSnapshot)
}

func (m *mockRotationUsecase) Snapshot() entity.RotationSnapshot {
	return m.Called().Get(0).(entity.RotationSnapshot)
}

func (m *mockRotationUsecase) CurrentToken() (*entity.DisplayToken, error) {
	args := m.Called()
	token, _ := args.Get(0).(*entity.DisplayToken)

	return token, args.Error(1)
}

type mockQRCodeService struct {
	mock.Mock
}

func (m *mockQRCodeService) RenderPNG(content string) ([]byte, error) {
	args := m.Called(content)
	png, _ := args.Get(0).([]byte)

	return png, args.Error(1)
}

func (m *mockQRCodeService) RenderTerminal(content string) (string, error) {
	args := m.Called(content)

	return args.String(0), args.Error(1)
}

type mockOfficeAreaUsecase struct {
	mock.Mock
}

func (m *mockOfficeAreaUsecase) ImportBoundary(ctx context.Context, input *usecase.ImportBoundaryInput) (*usecase.ImportBoundaryResult, error) {
	args := m.Called(ctx, input)
	result, _ := args.Get(0).(*usecase.ImportBoundaryResult)

	return result, args.Error(1)
}

func (m *mockOfficeAreaUsecase) LoadBoundary(ctx context.Context, id int64) (*usecase.BoundaryView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*usecase.BoundaryView)

	return view, args.Error(1)
}

func (m *mockOfficeAreaUsecase) UpdateBoundary(ctx context.Context, id int64, input *usecase.UpdateBoundaryInput) (*usecase.BoundaryView, error) {
	args := m.Called(ctx, id, input)
	view, _ := args.Get(0).(*usecase.BoundaryView)

	return view, args.Error(1)
}

func (m *mockOfficeAreaUsecase) CreateCircle(ctx context.Context, input *usecase.CreateCircleInput) (*entity.OfficeArea, error) {
	args := m.Called(ctx, input)
	area, _ := args.Get(0).(*entity.OfficeArea)

	return area, args.Error(1)
}

func (m *mockOfficeAreaUsecase) UpdateArea(ctx context.Context, id int64, input *usecase.UpdateAreaInput) (*entity.OfficeArea, error) {
	args := m.Called(ctx, id, input)
	area, _ := args.Get(0).(*entity.OfficeArea)

	return area, args.Error(1)
}

func (m *mockOfficeAreaUsecase) ListAreas(ctx context.Context) ([]*entity.OfficeArea, error) {
	args := m.Called(ctx)
	areas, _ := args.Get(0).([]*entity.OfficeArea)

	return areas, args.Error(1)
}

func (m *mockOfficeAreaUsecase) DeactivateArea(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
