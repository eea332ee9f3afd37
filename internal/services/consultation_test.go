package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medconnect-server/internal/models"
)

type consultationFixture struct {
	store   *fakeStore
	service *ConsultationService
	clock   *fixedClock
	doctor  *models.DoctorProfile
	patient *models.PatientProfile
}

// newConsultationFixture pins now to 10:00 inside a 09:00-17:00 window.
func newConsultationFixture(t *testing.T) *consultationFixture {
	t.Helper()
	store := newFakeStore()
	clock := &fixedClock{now: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}
	doctor := store.addDoctor("Dr. Ahmed", "+100200300", timeOfDay("09:00"), timeOfDay("17:00"))
	patient := store.addPatient("Lina")
	notifications := NewNotificationService(store, clock, NotificationConfig{
		ReminderLeadMinutes:   15,
		ReminderWindowMinutes: 5,
		ArrivalWindowMinutes:  5,
	}, zerolog.Nop())
	service := NewConsultationService(store, clock, notifications, zerolog.Nop())
	return &consultationFixture{
		store:   store,
		service: service,
		clock:   clock,
		doctor:  doctor,
		patient: patient,
	}
}

func (f *consultationFixture) patientIdentity() Identity {
	return Identity{UserID: f.patient.UserID, Role: models.RolePatient, PatientID: f.patient.ID}
}

func (f *consultationFixture) doctorIdentity() Identity {
	return Identity{UserID: f.doctor.UserID, Role: models.RoleDoctor, DoctorID: f.doctor.ID}
}

func requireKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok, "expected a typed service error, got %v", err)
	assert.Equal(t, want, kind)
}

func TestBookCallNow(t *testing.T) {
	f := newConsultationFixture(t)

	result, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConsultationPending, result.Consultation.Status)
	assert.Equal(t, models.CallModeNow, result.Consultation.CallMode)
	require.NotNil(t, result.Consultation.StartTime)
	assert.True(t, result.Consultation.StartTime.Equal(f.clock.now))
	assert.Nil(t, result.Consultation.ScheduledAt)
	assert.Equal(t, "+100200300", result.DoctorPhone)

	// The doctor is notified of the new request.
	require.Len(t, f.store.notifications, 1)
	assert.Equal(t, models.NotificationBookingRequest, f.store.notifications[0].Kind)
	assert.Equal(t, f.doctor.UserID, f.store.notifications[0].RecipientID)
}

func TestBookCallNowDoctorBusy(t *testing.T) {
	f := newConsultationFixture(t)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	require.NoError(t, err)

	// A second patient hits the same doctor while the first consultation
	// is still pending.
	second := f.store.addPatient("Omar")
	_, err = f.service.Book(Identity{UserID: second.UserID, Role: models.RolePatient, PatientID: second.ID}, BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	requireKind(t, err, KindConflict)
}

func TestBookCallNowOutsideWorkingHours(t *testing.T) {
	f := newConsultationFixture(t)
	f.clock.now = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	requireKind(t, err, KindConflict)
}

func TestBookSchedule(t *testing.T) {
	f := newConsultationFixture(t)
	scheduledAt := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)

	result, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID:    f.doctor.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &scheduledAt,
	})
	require.NoError(t, err)

	assert.Equal(t, models.ConsultationPending, result.Consultation.Status)
	require.NotNil(t, result.Consultation.ScheduledAt)
	assert.True(t, result.Consultation.ScheduledAt.Equal(scheduledAt))
	assert.Nil(t, result.Consultation.StartTime)
	assert.Empty(t, result.DoctorPhone)
}

func TestBookScheduleMissingTime(t *testing.T) {
	f := newConsultationFixture(t)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeSchedule,
	})
	requireKind(t, err, KindUnprocessable)
}

func TestBookScheduleOutsideWindow(t *testing.T) {
	f := newConsultationFixture(t)
	scheduledAt := time.Date(2026, 3, 11, 18, 30, 0, 0, time.UTC)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID:    f.doctor.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &scheduledAt,
	})
	requireKind(t, err, KindUnprocessable)
}

func TestBookScheduleSlotAlreadyTaken(t *testing.T) {
	f := newConsultationFixture(t)
	scheduledAt := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID:    f.doctor.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &scheduledAt,
	})
	require.NoError(t, err)

	second := f.store.addPatient("Omar")
	_, err = f.service.Book(Identity{UserID: second.UserID, Role: models.RolePatient, PatientID: second.ID}, BookInput{
		DoctorID:    f.doctor.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &scheduledAt,
	})
	requireKind(t, err, KindConflict)
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newConsultationFixture(t)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: "missing",
		CallMode: models.CallModeNow,
	})
	requireKind(t, err, KindNotFound)
}

func TestBookWithoutPatientProfile(t *testing.T) {
	f := newConsultationFixture(t)
	user := f.store.addUser(models.RolePatient, "Nour")

	_, err := f.service.Book(Identity{UserID: user.ID, Role: models.RolePatient}, BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	requireKind(t, err, KindNotFound)
}

func TestBookUnauthenticated(t *testing.T) {
	f := newConsultationFixture(t)

	_, err := f.service.Book(Identity{}, BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	requireKind(t, err, KindUnauthenticated)
}

func TestBookDoctorWithoutWindowFailsClosed(t *testing.T) {
	f := newConsultationFixture(t)
	bare := f.store.addDoctor("Dr. Hall", "", nil, nil)
	scheduledAt := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)

	_, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID:    bare.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &scheduledAt,
	})
	requireKind(t, err, KindUnprocessable)
}

func (f *consultationFixture) bookScheduled(t *testing.T, at time.Time) *models.Consultation {
	t.Helper()
	result, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID:    f.doctor.ID,
		CallMode:    models.CallModeSchedule,
		ScheduledAt: &at,
	})
	require.NoError(t, err)
	return result.Consultation
}

func TestStartScheduledBeforeTime(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(10*time.Minute))

	_, err := f.service.Start(f.doctorIdentity(), consultation.ID)
	requireKind(t, err, KindConflict)
	assert.Equal(t, models.ConsultationPending, f.store.consultations[consultation.ID].Status)
}

func TestStartScheduledAfterTime(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(10*time.Minute))

	f.clock.now = f.clock.now.Add(11 * time.Minute)
	result, err := f.service.Start(f.doctorIdentity(), consultation.ID)
	require.NoError(t, err)

	assert.False(t, result.IsJoining)
	assert.Equal(t, models.RoleDoctor, result.Role)
	assert.Equal(t, models.ConsultationInProgress, result.Consultation.Status)
	require.NotNil(t, result.Consultation.StartTime)
}

func TestStartSecondPartyJoins(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))

	_, err := f.service.Start(f.patientIdentity(), consultation.ID)
	require.NoError(t, err)

	result, err := f.service.Start(f.doctorIdentity(), consultation.ID)
	require.NoError(t, err)
	assert.True(t, result.IsJoining)
	assert.Equal(t, models.ConsultationInProgress, result.Consultation.Status)
}

func TestStartCallNowImmediately(t *testing.T) {
	f := newConsultationFixture(t)
	booked, err := f.service.Book(f.patientIdentity(), BookInput{
		DoctorID: f.doctor.ID,
		CallMode: models.CallModeNow,
	})
	require.NoError(t, err)

	result, err := f.service.Start(f.patientIdentity(), booked.Consultation.ID)
	require.NoError(t, err)
	assert.False(t, result.IsJoining)
	assert.Equal(t, models.RolePatient, result.Role)
}

func TestStartCompletedConsultation(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))
	consultation.Status = models.ConsultationCompleted

	_, err := f.service.Start(f.doctorIdentity(), consultation.ID)
	requireKind(t, err, KindConflict)
}

func TestStartWithoutProfile(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))

	_, err := f.service.Start(Identity{UserID: "someone", Role: models.RoleAdmin}, consultation.ID)
	requireKind(t, err, KindForbidden)
}

func TestStartScopedToOwnConsultations(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))

	other := f.store.addDoctor("Dr. Webb", "", timeOfDay("09:00"), timeOfDay("17:00"))
	_, err := f.service.Start(Identity{UserID: other.UserID, Role: models.RoleDoctor, DoctorID: other.ID}, consultation.ID)
	requireKind(t, err, KindNotFound)
}

func TestEndInProgressConsultation(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))
	_, err := f.service.Start(f.doctorIdentity(), consultation.ID)
	require.NoError(t, err)

	result, err := f.service.End(f.patientIdentity(), consultation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConsultationCompleted, result.Consultation.Status)
	assert.Equal(t, models.RolePatient, result.EndedBy)
}

func TestEndRequiresInProgress(t *testing.T) {
	f := newConsultationFixture(t)
	consultation := f.bookScheduled(t, f.clock.now.Add(-10*time.Minute))

	// Still pending.
	_, err := f.service.End(f.doctorIdentity(), consultation.ID)
	requireKind(t, err, KindConflict)
	assert.Equal(t, models.ConsultationPending, f.store.consultations[consultation.ID].Status)

	// Completed is terminal.
	consultation.Status = models.ConsultationCompleted
	_, err = f.service.End(f.doctorIdentity(), consultation.ID)
	requireKind(t, err, KindConflict)
	assert.Equal(t, models.ConsultationCompleted, f.store.consultations[consultation.ID].Status)
}

func TestListScopedByRole(t *testing.T) {
	f := newConsultationFixture(t)
	f.bookScheduled(t, f.clock.now.Add(30*time.Minute))

	mine, err := f.service.List(f.patientIdentity())
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.service.List(f.doctorIdentity())
	require.NoError(t, err)
	assert.Len(t, theirs, 1)

	_, err = f.service.List(Identity{UserID: "someone"})
	requireKind(t, err, KindForbidden)
}
