package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/permissions"
	"github.com/mussacharles60/hospital-booking/internal/store"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *mockStore) AppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) AppointmentsByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	args := m.Called(ctx, patientID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) AppointmentsByDepartment(ctx context.Context, departmentID string) ([]models.Appointment, error) {
	args := m.Called(ctx, departmentID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) AppointmentsByDepartmentDoctor(ctx context.Context, departmentID, doctorID string) ([]models.Appointment, error) {
	args := m.Called(ctx, departmentID, doctorID)
	if a := args.Get(0); a != nil {
		return a.([]models.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) RescheduleAppointment(ctx context.Context, id string, appointedAt int64) (bool, error) {
	args := m.Called(ctx, id, appointedAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) AssignAppointment(ctx context.Context, id string, from models.AppointmentStatus, doctorID string, appointedAt int64, to models.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, from, doctorID, appointedAt, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) SetAppointmentStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) DepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Department), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListDepartments(ctx context.Context) ([]models.Department, error) {
	args := m.Called(ctx)
	if d := args.Get(0); d != nil {
		return d.([]models.Department), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) DoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*models.Doctor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) CountActiveByPatient(ctx context.Context, patientID string) (int64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) IsDepartmentMember(ctx context.Context, departmentID, doctorID string) (bool, error) {
	args := m.Called(ctx, departmentID, doctorID)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendAppointmentAssigned(ctx context.Context, to, patientName, departmentName string, appointedAt int64) error {
	args := m.Called(ctx, to, patientName, departmentName, appointedAt)
	return args.Error(0)
}

func (m *mockMailer) SendDoctorSignupRequest(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func (m *mockMailer) SendPasswordRecovery(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func newTestService(st *mockStore, m *mockMailer) *Service {
	return NewService(st, permissions.NewEngine(st), m, zerolog.Nop())
}

func department(id, leaderID string) *models.Department {
	d := &models.Department{Name: "Cardiology", Type: "clinical", LeaderID: leaderID}
	d.ID = id
	return d
}

func doctor(id string) *models.Doctor {
	d := &models.Doctor{}
	d.ID = id
	return d
}

func appointment(id, departmentID, patientID string, status models.AppointmentStatus) *models.Appointment {
	a := &models.Appointment{
		DepartmentID: departmentID,
		PatientID:    patientID,
		AppointedAt:  1700000000000,
		Status:       status,
	}
	a.ID = id
	return a
}

func TestCreateStartsPendingWithoutDoctor(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("CountActiveByPatient", mock.Anything, "patient-1").Return(int64(0), nil)
	st.On("CreateAppointment", mock.Anything, mock.AnythingOfType("*models.Appointment")).Return(nil)

	svc := newTestService(st, new(mockMailer))

	created, err := svc.Create(context.Background(), "patient-1", "dept-1", "checkup", 1700000000000)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.DoctorID)
	assert.Equal(t, "patient-1", created.PatientID)
	assert.Equal(t, "dept-1", created.DepartmentID)
	st.AssertExpectations(t)
}

func TestCreateUnknownDepartment(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "gone").Return(nil, store.ErrNotFound)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.Create(context.Background(), "patient-1", "gone", "checkup", 1700000000000)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
	st.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestCreateQuotaFullWritesNothing(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("CountActiveByPatient", mock.Anything, "patient-1").Return(int64(permissions.MaxAppointmentsPerPatient), nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.Create(context.Background(), "patient-1", "dept-1", "checkup", 1700000000000)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	st.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
}

func TestRescheduleOnlyWhilePending(t *testing.T) {
	tests := []struct {
		name   string
		status models.AppointmentStatus
		want   error
	}{
		{"assigned", models.StatusAssignedEmailSent, ErrNotPending},
		{"ongoing", models.StatusOngoing, ErrNotPending},
		{"completed", models.StatusCompleted, ErrTerminal},
		{"cancelled", models.StatusCancelled, ErrTerminal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := new(mockStore)
			st.On("AppointmentByID", mock.Anything, "ap-1").
				Return(appointment("ap-1", "dept-1", "patient-1", tt.status), nil)

			svc := newTestService(st, new(mockMailer))

			_, err := svc.Reschedule(context.Background(), "patient-1", "ap-1", 1800000000000)
			assert.ErrorIs(t, err, tt.want)
			st.AssertNotCalled(t, "RescheduleAppointment", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReschedulePending(t *testing.T) {
	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)
	st.On("RescheduleAppointment", mock.Anything, "ap-1", int64(1800000000000)).Return(true, nil)

	svc := newTestService(st, new(mockMailer))

	updated, err := svc.Reschedule(context.Background(), "patient-1", "ap-1", 1800000000000)
	require.NoError(t, err)
	assert.Equal(t, int64(1800000000000), updated.AppointedAt)
}

func TestRescheduleNotOwner(t *testing.T) {
	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.Reschedule(context.Background(), "patient-2", "ap-1", 1800000000000)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestRescheduleLostRace(t *testing.T) {
	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)
	st.On("RescheduleAppointment", mock.Anything, "ap-1", int64(1800000000000)).Return(false, nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.Reschedule(context.Background(), "patient-1", "ap-1", 1800000000000)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelFromAnyActiveState(t *testing.T) {
	for _, status := range []models.AppointmentStatus{
		models.StatusPending,
		models.StatusAssignedEmailSent,
		models.StatusAssignedEmailUnsent,
		models.StatusOngoing,
	} {
		t.Run(string(status), func(t *testing.T) {
			st := new(mockStore)
			st.On("AppointmentByID", mock.Anything, "ap-1").
				Return(appointment("ap-1", "dept-1", "patient-1", status), nil)
			st.On("SetAppointmentStatus", mock.Anything, "ap-1", status, models.StatusCancelled).Return(true, nil)

			svc := newTestService(st, new(mockMailer))

			cancelled, err := svc.Cancel(context.Background(), "patient-1", "ap-1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusCancelled, cancelled.Status)
		})
	}
}

func TestCancelTerminalStates(t *testing.T) {
	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusCancelled), nil)
	st.On("AppointmentByID", mock.Anything, "ap-2").
		Return(appointment("ap-2", "dept-1", "patient-1", models.StatusCompleted), nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.Cancel(context.Background(), "patient-1", "ap-1")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	_, err = svc.Cancel(context.Background(), "patient-1", "ap-2")
	assert.ErrorIs(t, err, ErrTerminal)

	st.AssertNotCalled(t, "SetAppointmentStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignByLeader(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("DoctorByID", mock.Anything, "doctor-1").Return(doctor("doctor-1"), nil)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)
	st.On("AssignAppointment", mock.Anything, "ap-1", models.StatusPending, "doctor-1",
		int64(1800000000000), models.StatusAssignedEmailSent).Return(true, nil)

	m := new(mockMailer)
	m.On("SendAppointmentAssigned", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(st, m)

	assigned, emailSent, err := svc.Assign(context.Background(), "leader-1", "dept-1", "ap-1", "doctor-1", 1800000000000)
	require.NoError(t, err)
	assert.True(t, emailSent)
	require.NotNil(t, assigned.DoctorID)
	assert.Equal(t, "doctor-1", *assigned.DoctorID)
	assert.Equal(t, models.StatusAssignedEmailSent, assigned.Status)
	assert.Equal(t, int64(1800000000000), assigned.AppointedAt)
	st.AssertExpectations(t)
}

func TestAssignRecordsFailedMail(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("DoctorByID", mock.Anything, "doctor-1").Return(doctor("doctor-1"), nil)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)
	st.On("AssignAppointment", mock.Anything, "ap-1", models.StatusPending, "doctor-1",
		int64(1800000000000), models.StatusAssignedEmailUnsent).Return(true, nil)

	m := new(mockMailer)
	m.On("SendAppointmentAssigned", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp unreachable"))

	svc := newTestService(st, m)

	assigned, emailSent, err := svc.Assign(context.Background(), "leader-1", "dept-1", "ap-1", "doctor-1", 1800000000000)
	require.NoError(t, err)
	assert.False(t, emailSent)
	assert.Equal(t, models.StatusAssignedEmailUnsent, assigned.Status)
}

func TestAssignMembershipIsNotEnough(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)

	svc := newTestService(st, new(mockMailer))

	_, _, err := svc.Assign(context.Background(), "member-1", "dept-1", "ap-1", "doctor-1", 1800000000000)
	assert.ErrorIs(t, err, ErrNotLeader)
	st.AssertNotCalled(t, "AssignAppointment",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignWrongDepartment(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-2").Return(department("dept-2", "leader-2"), nil)
	st.On("DoctorByID", mock.Anything, "doctor-1").Return(doctor("doctor-1"), nil)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusPending), nil)

	svc := newTestService(st, new(mockMailer))

	_, _, err := svc.Assign(context.Background(), "leader-2", "dept-2", "ap-1", "doctor-1", 1800000000000)
	assert.ErrorIs(t, err, ErrWrongDepartment)
}

func TestAssignTerminalAppointment(t *testing.T) {
	st := new(mockStore)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("DoctorByID", mock.Anything, "doctor-1").Return(doctor("doctor-1"), nil)
	st.On("AppointmentByID", mock.Anything, "ap-1").
		Return(appointment("ap-1", "dept-1", "patient-1", models.StatusCancelled), nil)

	svc := newTestService(st, new(mockMailer))

	_, _, err := svc.Assign(context.Background(), "leader-1", "dept-1", "ap-1", "doctor-1", 1800000000000)
	assert.ErrorIs(t, err, ErrTerminal)
}

func TestSetOngoingRequiresAssignedDoctor(t *testing.T) {
	doctorID := "doctor-1"
	ap := appointment("ap-1", "dept-1", "patient-1", models.StatusAssignedEmailSent)
	ap.DoctorID = &doctorID

	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").Return(ap, nil)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.SetOngoing(context.Background(), "doctor-2", "ap-1")
	assert.ErrorIs(t, err, ErrNotAssignedDoctor)
}

func TestSetOngoingFromAssigned(t *testing.T) {
	doctorID := "doctor-1"
	for _, status := range []models.AppointmentStatus{
		models.StatusAssignedEmailSent,
		models.StatusAssignedEmailUnsent,
	} {
		t.Run(string(status), func(t *testing.T) {
			ap := appointment("ap-1", "dept-1", "patient-1", status)
			ap.DoctorID = &doctorID

			st := new(mockStore)
			st.On("AppointmentByID", mock.Anything, "ap-1").Return(ap, nil)
			st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
			st.On("SetAppointmentStatus", mock.Anything, "ap-1", status, models.StatusOngoing).Return(true, nil)

			svc := newTestService(st, new(mockMailer))

			updated, err := svc.SetOngoing(context.Background(), "doctor-1", "ap-1")
			require.NoError(t, err)
			assert.Equal(t, models.StatusOngoing, updated.Status)
		})
	}
}

func TestSetOngoingRejectsPending(t *testing.T) {
	doctorID := "doctor-1"
	ap := appointment("ap-1", "dept-1", "patient-1", models.StatusPending)
	ap.DoctorID = &doctorID

	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").Return(ap, nil)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)

	svc := newTestService(st, new(mockMailer))

	_, err := svc.SetOngoing(context.Background(), "doctor-1", "ap-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetCompleteFromOngoing(t *testing.T) {
	doctorID := "doctor-1"
	ap := appointment("ap-1", "dept-1", "patient-1", models.StatusOngoing)
	ap.DoctorID = &doctorID

	st := new(mockStore)
	st.On("AppointmentByID", mock.Anything, "ap-1").Return(ap, nil)
	st.On("DepartmentByID", mock.Anything, "dept-1").Return(department("dept-1", "leader-1"), nil)
	st.On("SetAppointmentStatus", mock.Anything, "ap-1", models.StatusOngoing, models.StatusCompleted).Return(true, nil)

	svc := newTestService(st, new(mockMailer))

	updated, err := svc.SetComplete(context.Background(), "doctor-1", "ap-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)
}

func TestDepartmentAppointmentsVisibility(t *testing.T) {
	dept := department("dept-1", "leader-1")

	t.Run("leader sees all", func(t *testing.T) {
		st := new(mockStore)
		st.On("DepartmentByID", mock.Anything, "dept-1").Return(dept, nil)
		st.On("AppointmentsByDepartment", mock.Anything, "dept-1").
			Return([]models.Appointment{*appointment("ap-1", "dept-1", "p", models.StatusPending)}, nil)

		svc := newTestService(st, new(mockMailer))

		list, err := svc.DepartmentAppointments(context.Background(), "leader-1", "dept-1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("member sees own", func(t *testing.T) {
		st := new(mockStore)
		st.On("DepartmentByID", mock.Anything, "dept-1").Return(dept, nil)
		st.On("IsDepartmentMember", mock.Anything, "dept-1", "doctor-1").Return(true, nil)
		st.On("AppointmentsByDepartmentDoctor", mock.Anything, "dept-1", "doctor-1").
			Return([]models.Appointment{}, nil)

		svc := newTestService(st, new(mockMailer))

		_, err := svc.DepartmentAppointments(context.Background(), "doctor-1", "dept-1")
		require.NoError(t, err)
		st.AssertExpectations(t)
	})

	t.Run("outsider denied", func(t *testing.T) {
		st := new(mockStore)
		st.On("DepartmentByID", mock.Anything, "dept-1").Return(dept, nil)
		st.On("IsDepartmentMember", mock.Anything, "dept-1", "doctor-9").Return(false, nil)

		svc := newTestService(st, new(mockMailer))

		_, err := svc.DepartmentAppointments(context.Background(), "doctor-9", "dept-1")
		assert.ErrorIs(t, err, ErrNotMember)
	})
}
