package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StackAlchemist/healthbridge-api/models"
)

type fakeStore struct {
	mu           sync.Mutex
	candidates   []Candidate
	patientFlags map[uint]bool
	doctorFlags  []string
	markErr      error
}

func newFakeStore(candidates ...Candidate) *fakeStore {
	return &fakeStore{candidates: candidates, patientFlags: map[uint]bool{}}
}

func (f *fakeStore) PendingReminders(ctx context.Context) ([]Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidates, nil
}

func (f *fakeStore) MarkPatientReminded(ctx context.Context, appointmentID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.patientFlags[appointmentID] = true
	return nil
}

func (f *fakeStore) MarkDoctorReminded(ctx context.Context, doctorID, patientID uint, date time.Time, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doctorFlags = append(f.doctorFlags, fmt.Sprintf("%d/%d/%s/%s", doctorID, patientID, date.Format("2006-01-02"), slot))
	return nil
}

type fakeDoctors struct {
	doctors map[uint]*models.Doctor
}

func (f *fakeDoctors) GetDoctor(ctx context.Context, id uint) (*models.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, errors.New("doctor not found")
	}
	return d, nil
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []string // destinations
	bodies  []string
	failFor map[string]bool
	block   chan struct{} // when set, Send waits until closed
	started chan struct{} // signalled once per Send entry
}

func (f *fakeSender) Send(ctx context.Context, body, to string) (string, error) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return "", errors.New("transport error")
	}
	f.sent = append(f.sent, to)
	f.bodies = append(f.bodies, body)
	return "SM123", nil
}

var scanNow = time.Date(2026, 9, 2, 8, 30, 0, 0, time.UTC)

func candidateAt(id uint, slot string) Candidate {
	return Candidate{
		Appointment: models.PatientAppointment{
			ID:        id,
			PatientID: 1,
			DoctorID:  10,
			Date:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
			TimeSlot:  slot,
			Status:    models.StatusPending,
		},
		Patient: models.Patient{PatientID: 1, Name: "Adaeze Obi", Phone: "08012345678"},
	}
}

func testDoctors() *fakeDoctors {
	return &fakeDoctors{doctors: map[uint]*models.Doctor{
		10: {DoctorID: 10, Name: "Ngozi Eze", Specialization: "Cardiology"},
	}}
}

func newScanner(store CandidateStore, doctors DoctorLookup, sender *fakeSender) *Scanner {
	s := NewScanner(store, doctors, sender, zerolog.Nop())
	s.now = func() time.Time { return scanNow }
	return s
}

func TestWindowEdges(t *testing.T) {
	store := newFakeStore(
		candidateAt(1, "09:30"), // exactly 60 minutes out: reminded
		candidateAt(2, "09:31"), // exactly 61 minutes out: not yet
		candidateAt(3, "09:29"), // already inside the hour: missed window
	)
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "+2348012345678", sender.sent[0])
	assert.Contains(t, sender.bodies[0], "Adaeze Obi")
	assert.Contains(t, sender.bodies[0], "Ngozi Eze")
	assert.Contains(t, sender.bodies[0], "Cardiology")
	assert.Contains(t, sender.bodies[0], "09:30")

	assert.True(t, store.patientFlags[1])
	assert.False(t, store.patientFlags[2])
	require.Len(t, store.doctorFlags, 1)
	assert.Equal(t, "10/1/2026-09-02/09:30", store.doctorFlags[0])
}

func TestFlaggedNeverRedispatched(t *testing.T) {
	c := candidateAt(1, "09:30")
	c.Appointment.ReminderSent = true
	store := newFakeStore(c)
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, sender.sent)
}

func TestTerminalStatusesSkipped(t *testing.T) {
	cancelled := candidateAt(1, "09:30")
	cancelled.Appointment.Status = models.StatusCancelled
	attended := candidateAt(2, "09:30")
	attended.Appointment.Status = models.StatusAttended

	store := newFakeStore(cancelled, attended)
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, sender.sent)
}

func TestMissingDoctorSkipsWithoutFlagging(t *testing.T) {
	c := candidateAt(1, "09:30")
	c.Appointment.DoctorID = 99
	store := newFakeStore(c)
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, sender.sent)
	assert.False(t, store.patientFlags[1])
}

func TestMissingPhoneSkips(t *testing.T) {
	c := candidateAt(1, "09:30")
	c.Patient.Phone = ""
	store := newFakeStore(c)
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	assert.Empty(t, sender.sent)
}

func TestSendFailureIsIsolated(t *testing.T) {
	ok := candidateAt(1, "09:30")
	failing := candidateAt(2, "09:30")
	failing.Patient = models.Patient{PatientID: 2, Name: "Bola Ade", Phone: "07011112222"}
	failing.Appointment.PatientID = 2

	store := newFakeStore(ok, failing)
	sender := &fakeSender{failFor: map[string]bool{"+2347011112222": true}}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	// The failed appointment keeps its flag unset so the next cycle
	// retries it.
	assert.True(t, store.patientFlags[1])
	assert.False(t, store.patientFlags[2])
}

func TestFlagWriteFailureLeavesRetry(t *testing.T) {
	store := newFakeStore(candidateAt(1, "09:30"))
	store.markErr = errors.New("db down")
	sender := &fakeSender{}
	s := newScanner(store, testDoctors(), sender)

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
	// The SMS went out but the appointment stays unflagged.
	assert.Len(t, sender.sent, 1)
	assert.False(t, store.patientFlags[1])
}

func TestOverlappingCycleIsSkipped(t *testing.T) {
	store := newFakeStore(candidateAt(1, "09:30"))
	sender := &fakeSender{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	s := newScanner(store, testDoctors(), sender)

	done := make(chan struct{})
	go func() {
		defer close(done)
		delivered, err := s.RunCycle(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, 1, delivered)
	}()

	<-sender.started // first cycle is mid-dispatch

	delivered, err := s.RunCycle(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered, "second cycle must be a no-op while the first is in flight")

	close(sender.block)
	<-done

	assert.Len(t, sender.sent, 1)
}
