package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"earcare-app-server/internal/models"
	"earcare-app-server/internal/treatment"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandler(t *testing.T) (*TreatmentHandler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return NewTreatmentHandler(db), db
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role, firstName string) models.User {
	t.Helper()
	user := models.User{
		Email:     fmt.Sprintf("%s-%s@example.com", firstName, uuid.New().String()[:8]),
		FirstName: firstName,
		LastName:  "Test",
		Role:      role,
	}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// testContext builds a gin context carrying the claims AuthMiddleware would
// have stored for the given user.
func testContext(t *testing.T, user models.User, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set("userID", user.ID)
	c.Set("userRole", user.Role)
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope
}

func TestCreateTreatmentEndpoint(t *testing.T) {
	h, db := setupHandler(t)
	doctor := seedUser(t, db, models.RoleDoctor, "Greg")
	patient := seedUser(t, db, models.RolePatient, "Paula")

	c, rec := testContext(t, doctor, http.MethodPost, "/api/v1/treatments", gin.H{
		"patientId":     patient.ID,
		"treatmentDate": "2025-06-15",
		"complaint":     "Ear pain and ringing",
		"earAffected":   "left",
		// Any doctorId in the payload is ignored by the input type
		"doctorId": uuid.New().String(),
	})
	h.CreateTreatment(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]interface{})
	assert.Equal(t, doctor.ID, data["doctorId"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "2025-06-15", data["treatmentDate"])
	assert.NotNil(t, data["patient"])
	assert.NotNil(t, data["doctor"])
}

func TestCreateTreatmentEndpointValidationEnvelope(t *testing.T) {
	h, db := setupHandler(t)
	doctor := seedUser(t, db, models.RoleDoctor, "Greg")

	c, rec := testContext(t, doctor, http.MethodPost, "/api/v1/treatments", gin.H{
		"earAffected": "middle",
	})
	h.CreateTreatment(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])

	errs := envelope["errors"].(map[string]interface{})
	assert.Contains(t, errs, "patientId")
	assert.Contains(t, errs, "complaint")
	assert.Contains(t, errs, "earAffected")
}

func TestGetTreatmentEndpointNotFound(t *testing.T) {
	h, db := setupHandler(t)
	doctor := seedUser(t, db, models.RoleDoctor, "Greg")

	c, rec := testContext(t, doctor, http.MethodGet, "/api/v1/treatments/"+uuid.New().String(), nil)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	h.GetTreatmentByID(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
}

func TestStatisticsEndpointForbiddenForPatients(t *testing.T) {
	h, db := setupHandler(t)
	patient := seedUser(t, db, models.RolePatient, "Paula")

	c, rec := testContext(t, patient, http.MethodGet, "/api/v1/treatments/statistics", nil)
	h.GetStatistics(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, false, envelope["success"])
}

func TestListTreatmentsEndpoint(t *testing.T) {
	h, db := setupHandler(t)
	doctor := seedUser(t, db, models.RoleDoctor, "Greg")
	patient := seedUser(t, db, models.RolePatient, "Paula")

	svc := treatment.NewService(db)
	caller := treatment.Identity{UserID: doctor.ID, Roles: []models.Role{models.RoleDoctor}}
	for i := 0; i < 2; i++ {
		_, err := svc.Create(caller, treatment.CreateInput{
			PatientID:     patient.ID,
			TreatmentDate: time.Now().UTC().Format(time.DateOnly),
			Complaint:     "Ear pain",
			EarAffected:   "both",
		})
		if err != nil {
			t.Fatalf("failed to seed treatment: %v", err)
		}
	}

	c, rec := testContext(t, patient, http.MethodGet, "/api/v1/treatments", nil)
	h.ListTreatments(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["success"])

	pagination := envelope["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(15), pagination["per_page"])
	assert.Equal(t, float64(1), pagination["total_pages"])

	data := envelope["data"].([]interface{})
	for _, item := range data {
		record := item.(map[string]interface{})
		assert.Equal(t, patient.ID, record["patientId"])
	}
}

func TestListTreatmentsEndpointRejectsBadFilters(t *testing.T) {
	h, db := setupHandler(t)
	doctor := seedUser(t, db, models.RoleDoctor, "Greg")

	c, rec := testContext(t, doctor, http.MethodGet, "/api/v1/treatments?status=selesai", nil)
	h.ListTreatments(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = testContext(t, doctor, http.MethodGet, "/api/v1/treatments?dateFrom=15-06-2025", nil)
	h.ListTreatments(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
