package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"academy-map-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAcademyService is a mock implementation of the AcademyService interface
type MockAcademyService struct {
	mock.Mock
}

func (m *MockAcademyService) Search(ctx context.Context, q models.SearchQuery) ([]models.ResultItem, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.ResultItem), args.Error(1)
}

func (m *MockAcademyService) AllAcademies(ctx context.Context) ([]models.AcademyView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AcademyView), args.Error(1)
}

func (m *MockAcademyService) ReputedAcademies(ctx context.Context) ([]models.AcademyView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.AcademyView), args.Error(1)
}

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func float(v float64) *float64 { return &v }

func TestAcademyHandler_Search(t *testing.T) {
	gin.SetMode(gin.TestMode)

	bounds := url.Values{
		"neLat": {"37.5045"},
		"neLng": {"127.0057"},
		"swLat": {"37.4955"},
		"swLng": {"126.9943"},
	}
	withBounds := func(extra map[string]string) string {
		v := url.Values{}
		for k, vs := range bounds {
			v[k] = vs
		}
		for k, s := range extra {
			v.Set(k, s)
		}
		return "/api/academies?" + v.Encode()
	}
	wantQuery := models.SearchQuery{
		NorthEast: models.LatLng{Lat: 37.5045, Lng: 127.0057},
		SouthWest: models.LatLng{Lat: 37.4955, Lng: 126.9943},
	}

	member := models.AcademyView{Academy: models.Academy{ID: "a1", Name: "대치수학학원", Latitude: float(37.5), Longitude: float(127)}}
	reputed := models.AcademyView{
		Academy:    models.Academy{ID: "a2", Name: "ABC Academy", Latitude: float(37.5), Longitude: float(127)},
		Reputation: &models.Reputation{AcademyName: "abc academy", Score: 90},
	}

	tests := []struct {
		name           string
		target         string
		callService    bool
		query          models.SearchQuery
		mockItems      []models.ResultItem
		mockError      error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "missing bounds",
			target:         "/api/academies?neLat=37.5&neLng=127.0",
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "blank bound",
			target:         "/api/academies?neLat=37.5&neLng=127.0&swLat=&swLng=126.9",
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "unparseable bound",
			target:         withBounds(map[string]string{"swLng": "east"}),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid bounds format"}`,
		},
		{
			name:           "bound out of range",
			target:         withBounds(map[string]string{"neLat": "91"}),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"bounds out of range"}`,
		},
		{
			name:        "grouped result",
			target:      withBounds(map[string]string{"keyword": " abc ", "course": "보습"}),
			callService: true,
			query: func() models.SearchQuery {
				q := wantQuery
				q.Keyword = "abc"
				q.Course = "보습"
				return q
			}(),
			mockItems: []models.ResultItem{{
				AcademyView:  reputed,
				IsGroup:      true,
				GroupCount:   2,
				GroupMembers: []models.AcademyView{member, reputed},
			}},
			expectedStatus: http.StatusOK,
			expectedBody: `[{
				"id":"a2","name":"ABC Academy","course":"","address":"","phone":"","lat":37.5,"lng":127,
				"region_code":"","region_name":"","district_area":"",
				"reputationData":{"academy_name":"abc academy","display_name":"","reputation_score_100":90,"raw_reputation_score":0,"total_reviews":0},
				"isGroup":true,"groupCount":2,
				"groupMembers":[
					{"id":"a1","name":"대치수학학원","course":"","address":"","phone":"","lat":37.5,"lng":127,"region_code":"","region_name":"","district_area":""},
					{"id":"a2","name":"ABC Academy","course":"","address":"","phone":"","lat":37.5,"lng":127,"region_code":"","region_name":"","district_area":"",
					 "reputationData":{"academy_name":"abc academy","display_name":"","reputation_score_100":90,"raw_reputation_score":0,"total_reviews":0}}
				]
			}]`,
		},
		{
			name:           "no results",
			target:         withBounds(nil),
			callService:    true,
			query:          wantQuery,
			mockItems:      []models.ResultItem(nil),
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "service error",
			target:         withBounds(nil),
			callService:    true,
			query:          wantQuery,
			mockItems:      []models.ResultItem(nil),
			mockError:      assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockAcademyService)
			handler := NewAcademyHandler(mockSvc)
			if tt.callService {
				mockSvc.On("Search", mock.Anything, tt.query).Return(tt.mockItems, tt.mockError)
			}

			c, w := newTestContext(tt.target)

			// Execute
			handler.Search(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestAcademyHandler_Listings(t *testing.T) {
	gin.SetMode(gin.TestMode)

	views := []models.AcademyView{{Academy: models.Academy{ID: "a1", Name: "대치수학학원"}}}

	t.Run("all", func(t *testing.T) {
		mockSvc := new(MockAcademyService)
		mockSvc.On("AllAcademies", mock.Anything).Return(views, nil)

		c, w := newTestContext("/api/academies/all")
		NewAcademyHandler(mockSvc).All(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":"a1","name":"대치수학학원","course":"","address":"","phone":"","lat":null,"lng":null,"region_code":"","region_name":"","district_area":""}]`, w.Body.String())
	})

	t.Run("reputed empty", func(t *testing.T) {
		mockSvc := new(MockAcademyService)
		mockSvc.On("ReputedAcademies", mock.Anything).Return([]models.AcademyView(nil), nil)

		c, w := newTestContext("/api/academies/reputed")
		NewAcademyHandler(mockSvc).Reputed(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("error", func(t *testing.T) {
		mockSvc := new(MockAcademyService)
		mockSvc.On("AllAcademies", mock.Anything).Return([]models.AcademyView(nil), assert.AnError)

		c, w := newTestContext("/api/academies/all")
		NewAcademyHandler(mockSvc).All(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	})
}
