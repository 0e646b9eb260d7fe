package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facefind/internal/backend"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

type MockCases struct {
	mock.Mock
}

func (m *MockCases) Create(ctx context.Context, input backend.CaseInput) (*domain.Case, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCases) Update(ctx context.Context, id int, input backend.CaseInput) (*domain.Case, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Case), args.Error(1)
}

func (m *MockCases) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func TestCasesHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockCases)
		expectedStatus int
	}{
		{
			name: "english status is sent in backend spelling",
			body: `{"person_name":" Ana Torres ","age":17,"status":"active"}`,
			setupMock: func(m *MockCases) {
				m.On("Create", mock.Anything, backend.CaseInput{Nombre: "Ana Torres", Edad: 17, Estado: "activo"}).
					Return(&domain.Case{ID: 9, PersonName: "Ana Torres", Status: domain.CaseStatusActive}, nil)
			},
			expectedStatus: 201,
		},
		{
			name:           "missing name",
			body:           `{"age":17}`,
			setupMock:      func(m *MockCases) {},
			expectedStatus: 422,
		},
		{
			name:           "unknown status",
			body:           `{"person_name":"Ana Torres","status":"lost"}`,
			setupMock:      func(m *MockCases) {},
			expectedStatus: 422,
		},
		{
			name:           "malformed body",
			body:           `{`,
			setupMock:      func(m *MockCases) {},
			expectedStatus: 400,
		},
		{
			name: "backend unavailable",
			body: `{"person_name":"Ana Torres"}`,
			setupMock: func(m *MockCases) {
				m.On("Create", mock.Anything, backend.CaseInput{Nombre: "Ana Torres"}).Return(nil, backend.ErrUnsuccessful)
			},
			expectedStatus: 502,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cases := new(MockCases)
			tt.setupMock(cases)

			app := newTestApp()
			app.Post("/cases", NewCasesHandler(cases, discardLogger()).Create)

			resp, err := app.Test(jsonRequest("POST", "/cases", tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			cases.AssertExpectations(t)
		})
	}
}

func TestCasesHandler_UpdateAndDelete(t *testing.T) {
	cases := new(MockCases)
	cases.On("Update", mock.Anything, 9, backend.CaseInput{Nombre: "Ana Torres", Estado: "encontrado"}).
		Return(&domain.Case{ID: 9, PersonName: "Ana Torres", Status: domain.CaseStatusFound}, nil)
	cases.On("Update", mock.Anything, 10, mock.Anything).Return(nil, &backend.StatusError{StatusCode: 404})
	cases.On("Delete", mock.Anything, 9).Return(nil)
	cases.On("Delete", mock.Anything, 10).Return(&backend.StatusError{StatusCode: 404})

	h := NewCasesHandler(cases, discardLogger())
	app := newTestApp()
	app.Put("/cases/:id", h.Update)
	app.Delete("/cases/:id", h.Delete)

	resp, err := app.Test(jsonRequest("PUT", "/cases/9", `{"person_name":"Ana Torres","status":"Encontrado"}`))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, domain.CaseStatusFound, decode[domain.Case](t, resp).Status)

	resp, err = app.Test(jsonRequest("PUT", "/cases/10", `{"person_name":"Ana Torres"}`))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "CASE_NOT_FOUND", decode[errorBody](t, resp).Error.Code)

	resp, err = app.Test(jsonRequest("PUT", "/cases/abc", `{"person_name":"Ana Torres"}`))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = app.Test(jsonRequest("DELETE", "/cases/9", ""))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	resp, err = app.Test(jsonRequest("DELETE", "/cases/10", ""))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	cases.AssertExpectations(t)
}
