package permissions

import (
	"context"
	"errors"

	"github.com/mussacharles60/hospital-booking/internal/models"
	"github.com/mussacharles60/hospital-booking/internal/store"
)

// MaxAppointmentsPerPatient caps how many non-completed appointments a
// patient may hold at once. Cancelled appointments still count against the
// cap because the quota query excludes only completed ones.
const MaxAppointmentsPerPatient = 5

// Reader is the slice of the store the predicates need. They never mutate.
type Reader interface {
	CountActiveByPatient(ctx context.Context, patientID string) (int64, error)
	DepartmentByID(ctx context.Context, id string) (*models.Department, error)
	IsDepartmentMember(ctx context.Context, departmentID, doctorID string) (bool, error)
}

// Engine answers whether an actor may perform an action. Every predicate
// returns (false, err) when the store read fails so callers can tell a
// denial from an outage; the two must never be conflated.
type Engine struct {
	store Reader
}

// NewEngine creates a permission Engine over the given store.
func NewEngine(store Reader) *Engine {
	return &Engine{store: store}
}

// CanPatientCreateAppointment reports whether the patient is strictly below
// the appointment cap.
func (e *Engine) CanPatientCreateAppointment(ctx context.Context, patientID string) (bool, error) {
	count, err := e.store.CountActiveByPatient(ctx, patientID)
	if err != nil {
		return false, err
	}
	return count < MaxAppointmentsPerPatient, nil
}

// IsDoctorMemberOfDepartment reports whether the doctor is registered as a
// member of the department.
func (e *Engine) IsDoctorMemberOfDepartment(ctx context.Context, departmentID, doctorID string) (bool, error) {
	return e.store.IsDepartmentMember(ctx, departmentID, doctorID)
}

// IsDepartmentLeader reports whether the doctor is the department's leader.
// A missing department is a plain denial, not an error.
func (e *Engine) IsDepartmentLeader(ctx context.Context, departmentID, doctorID string) (bool, error) {
	department, err := e.store.DepartmentByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return department.LeaderID == doctorID, nil
}
