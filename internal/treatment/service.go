package treatment

import (
	"errors"
	"time"

	"earcare-app-server/internal/models"

	"gorm.io/gorm"
)

// Service implements the treatment operations: scoped listing and lookup,
// doctor-only mutation, statistics and the patient directory. Every operation
// runs the caller's capability check first and goes through ResolveScope for
// row access.
type Service struct {
	db *gorm.DB
}

// NewService creates a treatment Service on top of a database handle.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns one page of treatments visible to the caller, newest first,
// with patient and doctor associations preloaded.
func (s *Service) List(caller Identity, f ListFilter) ([]models.Treatment, Pagination, error) {
	if !caller.Allowed(CapRead) {
		return nil, Pagination{}, ErrForbidden
	}
	scope := ResolveScope(caller, f.MineOnly)

	query := func(db *gorm.DB) *gorm.DB {
		return f.apply(scope.Apply(db.Model(&models.Treatment{})))
	}

	var total int64
	if err := query(s.db).Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}
	current, page := f.page(total)

	var treatments []models.Treatment
	err := latest(query(s.db)).
		Preload("Patient").
		Preload("Doctor").
		Limit(PerPage).
		Offset((current - 1) * PerPage).
		Find(&treatments).Error
	if err != nil {
		return nil, Pagination{}, err
	}

	return treatments, page, nil
}

// Get returns a single treatment by id if it lies within the caller's scope.
// A record outside the scope is reported as not found, same as an absent one.
func (s *Service) Get(caller Identity, id string) (*models.Treatment, error) {
	if !caller.Allowed(CapRead) {
		return nil, ErrForbidden
	}
	scope := ResolveScope(caller, false)

	var t models.Treatment
	err := scope.Apply(s.db.Preload("Patient").Preload("Doctor")).
		First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create validates the payload, verifies the patient reference and persists a
// new treatment. The doctor is always the caller; a client-supplied doctor id
// never reaches this point. The insert and the association read-back run in
// one transaction.
func (s *Service) Create(caller Identity, in CreateInput) (*models.Treatment, error) {
	if !caller.Allowed(CapWrite) {
		return nil, ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// The referenced user must exist and hold the patient role
	var patient models.User
	err := s.db.Where("id = ? AND role = ?", in.PatientID, models.RolePatient).
		First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ReferenceError{Field: "patientId", Message: "selected user is not a patient"}
	}
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(time.DateOnly, in.TreatmentDate)
	if err != nil {
		return nil, err
	}

	status := models.StatusPending
	if in.Status != "" {
		status = models.TreatmentStatus(in.Status)
	}

	t := models.Treatment{
		PatientID:      in.PatientID,
		DoctorID:       caller.UserID,
		TreatmentDate:  date,
		Complaint:      in.Complaint,
		MedicalHistory: in.MedicalHistory,
		Diagnosis:      in.Diagnosis,
		EarAffected:    models.EarSide(in.EarAffected),
		Action:         in.Action,
		Status:         status,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		return tx.Preload("Patient").Preload("Doctor").First(&t, "id = ?", t.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies the supplied fields to a treatment within the caller's
// scope. Unsupplied fields are left untouched. Any status value may be set;
// no transition table is enforced.
func (s *Service) Update(caller Identity, id string, in UpdateInput) (*models.Treatment, error) {
	if !caller.Allowed(CapWrite) {
		return nil, ErrForbidden
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	scope := ResolveScope(caller, false)

	var t models.Treatment
	err := scope.Apply(s.db).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.TreatmentDate != nil {
		date, err := time.Parse(time.DateOnly, *in.TreatmentDate)
		if err != nil {
			return nil, err
		}
		t.TreatmentDate = date
	}
	if in.Complaint != nil {
		t.Complaint = *in.Complaint
	}
	if in.MedicalHistory != nil {
		t.MedicalHistory = *in.MedicalHistory
	}
	if in.Diagnosis != nil {
		t.Diagnosis = *in.Diagnosis
	}
	if in.EarAffected != nil {
		t.EarAffected = models.EarSide(*in.EarAffected)
	}
	if in.Action != nil {
		t.Action = *in.Action
	}
	if in.Status != nil {
		t.Status = models.TreatmentStatus(*in.Status)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&t).Error; err != nil {
			return err
		}
		return tx.Preload("Patient").Preload("Doctor").First(&t, "id = ?", t.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete soft-deletes a treatment within the caller's scope. The row keeps
// existing with a deletion timestamp and disappears from reads and counts.
func (s *Service) Delete(caller Identity, id string) error {
	if !caller.Allowed(CapWrite) {
		return ErrForbidden
	}
	scope := ResolveScope(caller, false)

	var t models.Treatment
	err := scope.Apply(s.db).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Delete(&t).Error
}

// Statistics computes the aggregate counts over the caller's scope, narrowed
// to the caller's own treatments when mineOnly is set. All six counts are
// taken inside one transaction so they describe a single snapshot.
func (s *Service) Statistics(caller Identity, mineOnly bool) (*Stats, error) {
	if !caller.Allowed(CapStatistics) {
		return nil, ErrForbidden
	}
	scope := ResolveScope(caller, mineOnly)

	now := time.Now()
	monthStart := startOfMonth(now)
	weekStart := startOfWeek(now)

	stats := &Stats{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		base := func() *gorm.DB {
			return scope.Apply(tx.Model(&models.Treatment{}))
		}
		if err := base().Count(&stats.Total).Error; err != nil {
			return err
		}
		if err := base().Where("status = ?", models.StatusPending).Count(&stats.Pending).Error; err != nil {
			return err
		}
		if err := base().Where("status = ?", models.StatusCompleted).Count(&stats.Completed).Error; err != nil {
			return err
		}
		if err := base().Where("status = ?", models.StatusCancelled).Count(&stats.Cancelled).Error; err != nil {
			return err
		}
		if err := base().Where("treatment_date >= ? AND treatment_date < ?",
			monthStart, monthStart.AddDate(0, 1, 0)).Count(&stats.ThisMonth).Error; err != nil {
			return err
		}
		return base().Where("treatment_date >= ? AND treatment_date < ?",
			weekStart, weekStart.AddDate(0, 0, 7)).Count(&stats.ThisWeek).Error
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// ListPatients returns the directory of patients for the treatment form,
// ordered by name.
func (s *Service) ListPatients(caller Identity) ([]models.PersonSummary, error) {
	if !caller.Allowed(CapListPatients) {
		return nil, ErrForbidden
	}

	var patients []models.User
	err := s.db.Where("role = ?", models.RolePatient).
		Order("first_name ASC").Order("last_name ASC").
		Find(&patients).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PersonSummary, len(patients))
	for i, p := range patients {
		summaries[i] = p.Summary()
	}
	return summaries, nil
}
