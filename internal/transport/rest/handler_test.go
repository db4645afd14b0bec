package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	perrors "github.com/teiprometal/inventory/internal/errors"
	"github.com/teiprometal/inventory/internal/service"
)

// mockInventoryService is a mock implementation of the InventoryService interface
type mockInventoryService struct {
	product   *service.ProductDto
	catalog   *service.CatalogDto
	valuation *service.ValuationDto
	error     error

	lastQuery  string
	lastUpdate service.ProductUpdateDto
}

func (m *mockInventoryService) FindByID(_ context.Context, _ int64) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) List(_ context.Context, query string) (*service.CatalogDto, error) {
	m.lastQuery = query
	if m.error != nil {
		return nil, m.error
	}
	return m.catalog, nil
}

func (m *mockInventoryService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) Update(_ context.Context, _ int64, product service.ProductUpdateDto) (*service.ProductDto, error) {
	m.lastUpdate = product
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockInventoryService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockInventoryService) Valuation(_ context.Context) (*service.ValuationDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.valuation, nil
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v any) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func newTestRouter(svc service.InventoryService) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func nailDto() *service.ProductDto {
	return &service.ProductDto{
		ID: 1, Name: "Clavo 2\"", Quantity: 500, Price: 0.03,
		Value: decimal.RequireFromString("15"),
	}
}

func Test_InventoryAPI_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockInventoryService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockService:  mockInventoryService{product: nailDto()},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, nailDto()),
		},
		{
			name:         "Error - invalid id",
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: abc"}),
		},
		{
			name:         "Error - zero id",
			productID:    "0",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid ID: 0"}),
		},
		{
			name:         "Error - product not found",
			mockService:  mockInventoryService{error: fmt.Errorf("failed to fetch: %w", perrors.ErrProductNotFound)},
			productID:    "7",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 7 not found"}),
		},
		{
			name:         "Error - storage failure",
			mockService:  mockInventoryService{error: perrors.ErrStorageFailure},
			productID:    "7",
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to retrieve product with ID 7"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
			api := NewHandler(&tc.mockService, logger)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.productID, nil)
			req.SetPathValue("id", tc.productID)
			rr := httptest.NewRecorder()

			// when
			api.FindByID(rr, req)

			// then
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_InventoryAPI_List(t *testing.T) {
	catalog := &service.CatalogDto{
		Products:   []service.ProductDto{*nailDto()},
		TotalValue: decimal.RequireFromString("24.6"),
		Query:      "clavo",
	}
	testCases := []struct {
		name          string
		mockService   mockInventoryService
		url           string
		expectedQuery string
		expectedCode  int
		expectedBody  string
	}{
		{
			name:          "Success - search by name",
			mockService:   mockInventoryService{catalog: catalog},
			url:           "/api/v1/products?q=clavo",
			expectedQuery: "clavo",
			expectedCode:  http.StatusOK,
			expectedBody:  toJSON(t, catalog),
		},
		{
			name:          "Success - no query",
			mockService:   mockInventoryService{catalog: &service.CatalogDto{Products: []service.ProductDto{}, TotalValue: decimal.Zero}},
			url:           "/api/v1/products",
			expectedQuery: "",
			expectedCode:  http.StatusOK,
			expectedBody:  `{"products":[],"total_value":"0"}`,
		},
		{
			name:          "Error - service error",
			mockService:   mockInventoryService{error: errors.New("service unavailable")},
			url:           "/api/v1/products?q=x",
			expectedQuery: "x",
			expectedCode:  http.StatusInternalServerError,
			expectedBody:  toJSON(t, ErrorResponse{Error: "Failed to fetch products"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			rr := httptest.NewRecorder()

			// when
			router.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectedQuery, tc.mockService.lastQuery)
		})
	}
}

func Test_InventoryAPI_Create(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockInventoryService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product created",
			mockService:  mockInventoryService{product: nailDto()},
			body:         `{"id":1,"name":"Clavo 2\"","quantity":500,"price":0.03}`,
			expectedCode: http.StatusCreated,
			expectedBody: toJSON(t, nailDto()),
		},
		{
			name:         "Error - malformed body",
			body:         `{"id":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: "Invalid request body"}),
		},
		{
			name:         "Error - validation failed",
			body:         `{"id":0,"name":"C","quantity":-1,"price":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"ID":       "failed on rule: required",
				"Name":     "failed on rule: min",
				"Quantity": "failed on rule: gte",
			}}),
		},
		{
			name:         "Error - duplicate id",
			mockService:  mockInventoryService{error: fmt.Errorf("failed to create product: %w", perrors.ErrDuplicateIdentifier)},
			body:         `{"id":1,"name":"Clavo","quantity":1,"price":1}`,
			expectedCode: http.StatusConflict,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 1 already exists"}),
		},
		{
			name:         "Error - blank name after trimming",
			mockService:  mockInventoryService{error: fmt.Errorf("failed to create product: %w", perrors.ErrInvalidName)},
			body:         `{"id":1,"name":"   ","quantity":1,"price":1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ErrorResponse{Error: perrors.ErrInvalidName.Error()}),
		},
		{
			name:         "Error - storage failure",
			mockService:  mockInventoryService{error: perrors.ErrStorageFailure},
			body:         `{"id":1,"name":"Clavo","quantity":1,"price":1}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to create product"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			router.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_InventoryAPI_Update(t *testing.T) {
	updated := &service.ProductDto{ID: 1, Name: "Clavo 3\"", Quantity: 50, Price: 0.05, Value: decimal.RequireFromString("2.5")}
	testCases := []struct {
		name         string
		method       string
		mockService  mockInventoryService
		body         string
		expectedCode int
		expectedBody string
		expectedName *string
		expectQty    bool
	}{
		{
			name:         "Success - patch quantity only",
			method:       http.MethodPatch,
			mockService:  mockInventoryService{product: updated},
			body:         `{"quantity":50}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, updated),
			expectQty:    true,
		},
		{
			name:         "Success - put every field",
			method:       http.MethodPut,
			mockService:  mockInventoryService{product: updated},
			body:         `{"name":"Clavo 3\"","quantity":50,"price":0.05}`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, updated),
			expectedName: ptr("Clavo 3\""),
			expectQty:    true,
		},
		{
			name:         "Error - put without price",
			method:       http.MethodPut,
			body:         `{"name":"Clavo 3\"","quantity":50}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Price": "failed on rule: required",
			}}),
		},
		{
			name:         "Error - patch negative price",
			method:       http.MethodPatch,
			body:         `{"price":-1}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, ValidationErrorResponse{ValidationErrors: map[string]string{
				"Price": "failed on rule: gte",
			}}),
		},
		{
			name:         "Error - product not found",
			method:       http.MethodPatch,
			mockService:  mockInventoryService{error: perrors.ErrProductNotFound},
			body:         `{"quantity":50}`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 1 not found"}),
			expectQty:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(&tc.mockService)
			req := httptest.NewRequest(tc.method, "/api/v1/products/1", strings.NewReader(tc.body))
			rr := httptest.NewRecorder()

			// when
			router.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
			assert.Equal(t, tc.expectedName, tc.mockService.lastUpdate.Name)
			if tc.expectQty {
				require.NotNil(t, tc.mockService.lastUpdate.Quantity)
				assert.Equal(t, int64(50), *tc.mockService.lastUpdate.Quantity)
			}
		})
	}
}

func Test_InventoryAPI_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockInventoryService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product deleted",
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Error - product not found",
			mockService:  mockInventoryService{error: perrors.ErrProductNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, ErrorResponse{Error: "Product with ID 3 not found"}),
		},
		{
			name:         "Error - storage failure",
			mockService:  mockInventoryService{error: perrors.ErrStorageFailure},
			expectedCode: http.StatusInternalServerError,
			expectedBody: toJSON(t, ErrorResponse{Error: "Failed to delete product with ID 3"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newTestRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/3", nil)
			rr := httptest.NewRecorder()

			// when
			router.ServeHTTP(rr, req)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			if tc.expectedBody == "" {
				assert.Empty(t, rr.Body.String())
				return
			}
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_InventoryAPI_Valuation(t *testing.T) {
	// given
	router := newTestRouter(&mockInventoryService{valuation: &service.ValuationDto{
		TotalValue: decimal.RequireFromString("24.6"),
		Count:      2,
	}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/inventory/value", nil)
	rr := httptest.NewRecorder()

	// when
	router.ServeHTTP(rr, req)

	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"total_value":"24.6","count":2}`, rr.Body.String())
}

func Test_InventoryAPI_HealthCheck(t *testing.T) {
	router := newTestRouter(&mockInventoryService{})
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func ptr[T any](v T) *T { return &v }
