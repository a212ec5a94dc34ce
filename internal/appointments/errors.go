package appointments

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not exist")
	ErrDepartmentNotFound  = errors.New("department not exist")
	ErrDoctorNotFound      = errors.New("doctor not exist")

	// ErrQuotaExceeded denies creation once the patient holds the maximum
	// number of non-completed appointments.
	ErrQuotaExceeded = errors.New("cannot create new appointment")

	// ErrNotOwner rejects a patient acting on another patient's appointment.
	ErrNotOwner = errors.New("no permission to modify this appointment")
	// ErrNotLeader rejects an assign call from anyone but the department's
	// leader, membership notwithstanding.
	ErrNotLeader = errors.New("no permission to assign appointment")
	// ErrNotMember rejects a doctor viewing a department they neither lead
	// nor belong to.
	ErrNotMember = errors.New("no permission to view appointments in this department")
	// ErrNotAssignedDoctor rejects ongoing/complete calls from a doctor the
	// appointment is not assigned to.
	ErrNotAssignedDoctor = errors.New("appointment is assigned to another doctor")
	// ErrWrongDepartment rejects an assign that names a department other
	// than the appointment's own.
	ErrWrongDepartment = errors.New("appointment does not belong to this department")

	// ErrNotPending rejects rescheduling anything but a pending appointment.
	ErrNotPending = errors.New("cannot reschedule the assigned appointment")
	// ErrAlreadyCancelled rejects a second cancel; it is not a silent no-op.
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
	// ErrTerminal rejects any transition on a completed or cancelled
	// appointment.
	ErrTerminal = errors.New("appointment is already closed")
	// ErrInvalidTransition rejects transitions the state machine does not
	// define, like starting a pending appointment that has no doctor yet.
	ErrInvalidTransition = errors.New("appointment is not in a valid state for this change")

	// ErrConflict surfaces a lost compare-and-swap: the appointment changed
	// between the read and the write.
	ErrConflict = errors.New("appointment was modified concurrently")
)
