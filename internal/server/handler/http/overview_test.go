package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/boardkit/boardkit/internal/models"
)

// fakeOverviewService implements OverviewService for testing.
type fakeOverviewService struct {
	dueReturn      []models.CardDetails
	dueErr         error
	upcomingReturn map[string][]models.CardDetails
	upcomingErr    error
}

func (f *fakeOverviewService) AllWithDue(ctx context.Context, userID string) ([]models.CardDetails, error) {
	return f.dueReturn, f.dueErr
}

func (f *fakeOverviewService) Upcoming(ctx context.Context, userID string) (map[string][]models.CardDetails, error) {
	return f.upcomingReturn, f.upcomingErr
}

func TestOverviewHandler_AllWithDue(t *testing.T) {
	duedate := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		service      *fakeOverviewService
		expectedCode int
		expectedLen  int
	}{
		{
			name: "two cards",
			service: &fakeOverviewService{dueReturn: []models.CardDetails{
				{Card: models.Card{ID: "c1", Duedate: &duedate}},
				{Card: models.Card{ID: "c2", Duedate: &duedate}},
			}},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name:         "no cards",
			service:      &fakeOverviewService{dueReturn: []models.CardDetails{}},
			expectedCode: http.StatusOK,
			expectedLen:  0,
		},
		{
			name:         "service error",
			service:      &fakeOverviewService{dueErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/overview/due", nil)
			h := &OverviewHandler{OverviewService: tt.service}
			h.AllWithDue(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}
			if tt.expectedCode != http.StatusOK {
				return
			}
			var cards []models.CardDetails
			if err := json.NewDecoder(res.Body).Decode(&cards); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if len(cards) != tt.expectedLen {
				t.Errorf("got %d cards; want %d", len(cards), tt.expectedLen)
			}
		})
	}
}

func TestOverviewHandler_Upcoming(t *testing.T) {
	service := &fakeOverviewService{upcomingReturn: map[string][]models.CardDetails{
		models.BucketToday: {{Card: models.Card{ID: "c1"}}},
	}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/overview/upcoming", nil)
	h := &OverviewHandler{OverviewService: service}
	h.Upcoming(rec, req)
	res := rec.Result()
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	var overview map[string][]models.CardDetails
	if err := json.NewDecoder(res.Body).Decode(&overview); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(overview) != 1 {
		t.Fatalf("got %d buckets; want 1", len(overview))
	}
	if overview[models.BucketToday][0].ID != "c1" {
		t.Errorf("today bucket = %+v; want c1", overview[models.BucketToday])
	}
}

func TestOverviewHandler_UpcomingError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/overview/upcoming", nil)
	h := &OverviewHandler{OverviewService: &fakeOverviewService{upcomingErr: errors.New("db down")}}
	h.Upcoming(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
