package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdantstack/farmops-backend/internal/platform/logger"
	"github.com/verdantstack/farmops-backend/internal/services"
)

// stubRFIDService answers from a fixed taken-tag set.
type stubRFIDService struct {
	taken map[string]services.RFIDUsage
}

func (s *stubRFIDService) ValidateFormat(tag string) bool {
	return len(services.NormalizeRFIDTag(tag)) == 9
}

func (s *stubRFIDService) CheckUniqueness(_ context.Context, _ *gorm.DB, tag string) (bool, error) {
	_, held := s.taken[services.NormalizeRFIDTag(tag)]
	return !held, nil
}

func (s *stubRFIDService) FindCurrentUsage(_ context.Context, _ *gorm.DB, tag string) (*services.RFIDUsage, error) {
	usage, held := s.taken[services.NormalizeRFIDTag(tag)]
	if !held {
		return nil, nil
	}
	return &usage, nil
}

func (s *stubRFIDService) Validate(ctx context.Context, tag string) (*services.RFIDValidationResult, error) {
	result := &services.RFIDValidationResult{FormatValid: s.ValidateFormat(tag)}
	unique, _ := s.CheckUniqueness(ctx, nil, tag)
	result.IsUnique = unique
	result.IsValid = result.FormatValid && result.IsUnique
	return result, nil
}

func rfidTestRouter(t *testing.T, stub *stubRFIDService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewRFIDHandler(log, stub)
	r := gin.New()
	r.POST("/api/rfid/validate", h.Validate)
	r.GET("/api/rfid/:tag/availability", h.Availability)
	return r
}

func TestAvailabilityPayloadShape(t *testing.T) {
	stub := &stubRFIDService{taken: map[string]services.RFIDUsage{
		"TRY100001": {Kind: "tray", OccupantID: uuid.New(), ContainerID: uuid.New()},
	}}
	r := rfidTestRouter(t, stub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rfid/TRY100001/availability", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body["is_available"]) != "false" {
		t.Fatalf("is_available = %s, want false", body["is_available"])
	}
	if _, ok := body["current_usage"]; !ok {
		t.Fatal("taken tag must include current_usage")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rfid/TRY999999/availability", nil))
	body = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body["is_available"]) != "true" {
		t.Fatalf("is_available = %s, want true", body["is_available"])
	}
	if _, ok := body["current_usage"]; ok {
		t.Fatal("free tag must omit current_usage")
	}
}

func TestValidateAcceptsTypeField(t *testing.T) {
	r := rfidTestRouter(t, &stubRFIDService{taken: map[string]services.RFIDUsage{}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rfid/validate",
		strings.NewReader(`{"rfid_tag":"try100002","type":"tray"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var result services.RFIDValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.IsValid || !result.FormatValid || !result.IsUnique {
		t.Fatalf("result = %+v, want fully valid", result)
	}
}
