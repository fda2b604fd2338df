package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StackAlchemist/healthbridge-api/models"
)

// memStore is an in-memory AppointmentStore that mimics the partial
// unique index on the doctor-side mirror.
type memStore struct {
	mu            sync.Mutex
	doctorCopies  []*models.DoctorAppointment
	patientCopies []*models.PatientAppointment
	nextID        uint
}

func (m *memStore) CreatePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.doctorCopies {
		if existing.DoctorID == doctorCopy.DoctorID &&
			existing.Date.Equal(doctorCopy.Date) &&
			existing.TimeSlot == doctorCopy.TimeSlot &&
			existing.Status.Active() {
			return ErrSlotTaken
		}
	}
	m.nextID++
	doctorCopy.ID = m.nextID
	m.nextID++
	patientCopy.ID = m.nextID
	m.doctorCopies = append(m.doctorCopies, doctorCopy)
	m.patientCopies = append(m.patientCopies, patientCopy)
	return nil
}

func (m *memStore) SavePair(ctx context.Context, doctorCopy *models.DoctorAppointment, patientCopy *models.PatientAppointment) error {
	// Copies are pointers into the store; nothing further to do.
	return nil
}

func (m *memStore) DoctorCopy(ctx context.Context, doctorID uint, uid uuid.UUID) (*models.DoctorAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.doctorCopies {
		if a.DoctorID == doctorID && a.AppointmentUID == uid {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memStore) PatientCopy(ctx context.Context, patientID uint, uid uuid.UUID) (*models.PatientAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.patientCopies {
		if a.PatientID == patientID && a.AppointmentUID == uid {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memStore) DoctorCopyBySlot(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) (*models.DoctorAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.doctorCopies {
		if a.DoctorID == doctorID && a.PatientID == patientID && a.Date.Equal(date) && a.TimeSlot == slot {
			return a, nil
		}
	}
	return nil, nil
}

func (m *memStore) PatientCopyBySlot(ctx context.Context, patientID, doctorID uint, date time.Time, slot string) (*models.PatientAppointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.patientCopies {
		if a.PatientID == patientID && a.DoctorID == doctorID && a.Date.Equal(date) && a.TimeSlot == slot {
			return a, nil
		}
	}
	return nil, nil
}

type fakePatients struct {
	patients map[uint]*models.Patient
}

func (f *fakePatients) GetPatient(ctx context.Context, id uint) (*models.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// fakeDoctors reflects the store's doctor-side mirror into the
// doctor's appointment list the way the gorm preload does.
type fakeDoctors struct {
	doctors map[uint]*models.Doctor
	store   *memStore
}

func (f *fakeDoctors) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	loaded := *d
	loaded.Appointments = nil
	for _, a := range f.store.doctorCopies {
		if a.DoctorID == id {
			loaded.Appointments = append(loaded.Appointments, *a)
		}
	}
	return &loaded, nil
}

type fixture struct {
	service *Service
	store   *memStore
}

// A fixed clock: Tuesday 2026-09-01 noon. The doctor works
// Mon/Wed/Fri 09:00-17:00, so the next bookable Wednesday is 09-02.
var (
	testNow       = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	testWednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	testTuesday   = time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &memStore{}
	patients := &fakePatients{patients: map[uint]*models.Patient{
		1: {PatientID: 1, Name: "Adaeze Obi", Phone: "08012345678"},
	}}
	doctors := &fakeDoctors{
		doctors: map[uint]*models.Doctor{
			10: {
				DoctorID:       10,
				Name:           "Ngozi Eze",
				Specialization: "Cardiology",
				AvailableDays:  "Monday,Wednesday,Friday",
				AvailableStart: "09:00",
				AvailableEnd:   "17:00",
			},
		},
		store: store,
	}
	svc := NewService(patients, doctors, store, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return &fixture{service: svc, store: store}
}

func TestBookCreatesBothMirrors(t *testing.T) {
	f := newFixture(t)

	appt, err := f.service.Book(context.Background(), 1, 10, testWednesday, "14:30")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, appt.Status)
	assert.False(t, appt.ReminderSent)
	assert.Equal(t, "Ngozi Eze", appt.DoctorName)
	assert.Equal(t, testWednesday, appt.Date)

	require.Len(t, f.store.doctorCopies, 1)
	require.Len(t, f.store.patientCopies, 1)
	doctorCopy := f.store.doctorCopies[0]
	assert.Equal(t, appt.AppointmentUID, doctorCopy.AppointmentUID)
	assert.Equal(t, "Adaeze Obi", doctorCopy.PatientName)
	assert.Equal(t, models.StatusPending, doctorCopy.Status)
}

func TestBookNormalizesDateToMidnight(t *testing.T) {
	f := newFixture(t)

	withTime := testWednesday.Add(11*time.Hour + 45*time.Minute)
	appt, err := f.service.Book(context.Background(), 1, 10, withTime, "14:30")
	require.NoError(t, err)
	assert.Equal(t, testWednesday, appt.Date)
}

func TestBookRejectsUnavailableDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), 1, 10, testTuesday, "14:30")
	assert.ErrorIs(t, err, ErrUnavailableDay)
	assert.Empty(t, f.store.doctorCopies)
}

func TestBookWindowBoundary(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), 1, 10, testWednesday, "17:00")
	assert.ErrorIs(t, err, ErrUnavailableTime)

	_, err = f.service.Book(context.Background(), 1, 10, testWednesday, "16:59")
	assert.NoError(t, err)
}

func TestBookRejectsBadTimeFormat(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), 1, 10, testWednesday, "2pm")
	assert.ErrorIs(t, err, ErrBadTimeFormat)
}

func TestBookRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, err := f.service.Book(context.Background(), 1, 10, monday, "10:00")
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestBookUnknownPatientAndDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Book(context.Background(), 99, 10, testWednesday, "14:30")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	_, err = f.service.Book(context.Background(), 1, 99, testWednesday, "14:30")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestDoubleBookingThenCancelFreesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)

	_, err = f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, models.StatusPending, f.store.patientCopies[0].Status)

	require.NoError(t, f.service.CancelByDoctor(ctx, 10, first.AppointmentUID))
	assert.Equal(t, models.StatusCancelled, f.store.doctorCopies[0].Status)
	assert.Equal(t, models.StatusCancelled, f.store.patientCopies[0].Status)

	_, err = f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	assert.NoError(t, err)
}

func TestApproveSyncsBothMirrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)

	require.NoError(t, f.service.Approve(ctx, 10, appt.AppointmentUID))
	assert.Equal(t, models.StatusConfirmed, f.store.doctorCopies[0].Status)
	assert.Equal(t, models.StatusConfirmed, f.store.patientCopies[0].Status)
}

func TestApproveTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)

	require.NoError(t, f.service.Approve(ctx, 10, appt.AppointmentUID))
	err = f.service.Approve(ctx, 10, appt.AppointmentUID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusConfirmed, f.store.doctorCopies[0].Status)
}

func TestApproveUnknownAppointment(t *testing.T) {
	f := newFixture(t)

	err := f.service.Approve(context.Background(), 10, uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCancelByPatientSyncsBothMirrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)

	require.NoError(t, f.service.CancelByPatient(ctx, 1, appt.AppointmentUID))
	assert.Equal(t, models.StatusCancelled, f.store.doctorCopies[0].Status)
	assert.Equal(t, models.StatusCancelled, f.store.patientCopies[0].Status)

	err = f.service.CancelByPatient(ctx, 1, appt.AppointmentUID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelConfirmedAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)
	require.NoError(t, f.service.Approve(ctx, 10, appt.AppointmentUID))

	require.NoError(t, f.service.CancelByDoctor(ctx, 10, appt.AppointmentUID))
	assert.Equal(t, models.StatusCancelled, f.store.doctorCopies[0].Status)
	assert.Equal(t, models.StatusCancelled, f.store.patientCopies[0].Status)
}

func TestAttendedIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.service.Book(ctx, 1, 10, testWednesday, "14:30")
	require.NoError(t, err)
	f.store.doctorCopies[0].Status = models.StatusAttended
	f.store.patientCopies[0].Status = models.StatusAttended

	assert.ErrorIs(t, f.service.CancelByDoctor(ctx, 10, appt.AppointmentUID), ErrInvalidTransition)
	assert.ErrorIs(t, f.service.CancelByPatient(ctx, 1, appt.AppointmentUID), ErrInvalidTransition)
	assert.ErrorIs(t, f.service.Approve(ctx, 10, appt.AppointmentUID), ErrInvalidTransition)
	assert.Equal(t, models.StatusAttended, f.store.doctorCopies[0].Status)
}

// Rows written before the two sides shared an appointment uid can only
// be matched by the composite (counterpart, date, slot) key.
func TestApproveFallsBackToSlotMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctorUID := uuid.New()
	f.store.doctorCopies = append(f.store.doctorCopies, &models.DoctorAppointment{
		ID: 1, AppointmentUID: doctorUID, DoctorID: 10, PatientID: 1,
		Date: testWednesday, TimeSlot: "14:30", Status: models.StatusPending,
	})
	f.store.patientCopies = append(f.store.patientCopies, &models.PatientAppointment{
		ID: 2, AppointmentUID: uuid.New(), PatientID: 1, DoctorID: 10,
		Date: testWednesday, TimeSlot: "14:30", Status: models.StatusPending,
	})

	require.NoError(t, f.service.Approve(ctx, 10, doctorUID))
	assert.Equal(t, models.StatusConfirmed, f.store.doctorCopies[0].Status)
	assert.Equal(t, models.StatusConfirmed, f.store.patientCopies[0].Status)
}

// A missing patient copy must not block the doctor-side update.
func TestApproveWithMissingPatientCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctorUID := uuid.New()
	f.store.doctorCopies = append(f.store.doctorCopies, &models.DoctorAppointment{
		ID: 1, AppointmentUID: doctorUID, DoctorID: 10, PatientID: 1,
		Date: testWednesday, TimeSlot: "14:30", Status: models.StatusPending,
	})

	require.NoError(t, f.service.Approve(ctx, 10, doctorUID))
	assert.Equal(t, models.StatusConfirmed, f.store.doctorCopies[0].Status)
}
