package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending             AppointmentStatus = "pending"
	StatusAssignedEmailSent   AppointmentStatus = "assigned-email_sent"
	StatusAssignedEmailUnsent AppointmentStatus = "assigned-email_not_sent"
	StatusOngoing             AppointmentStatus = "ongoing"
	StatusCompleted           AppointmentStatus = "completed"
	StatusCancelled           AppointmentStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Assigned reports whether the appointment has been given to a doctor but
// has not started yet.
func (s AppointmentStatus) Assigned() bool {
	return s == StatusAssignedEmailSent || s == StatusAssignedEmailUnsent
}

// Appointment represents a booked appointment within a department.
// DoctorID is null exactly while the status is pending; every transition
// away from pending sets a doctor.
type Appointment struct {
	BaseModel
	Description  string            `gorm:"type:text" json:"description"`
	DepartmentID string            `gorm:"size:36;index;not null" json:"departmentId"`
	DoctorID     *string           `gorm:"size:36;index" json:"doctorId"`
	PatientID    string            `gorm:"size:36;index;not null" json:"patientId"`
	AppointedAt  int64             `gorm:"not null" json:"appointedAt"` // caller-supplied, unix ms, > 0
	Status       AppointmentStatus `gorm:"size:30;default:'pending'" json:"status"`

	// Relations
	Department Department `gorm:"foreignKey:DepartmentID" json:"-"`
	Doctor     *Doctor    `gorm:"foreignKey:DoctorID" json:"-"`
	Patient    Patient    `gorm:"foreignKey:PatientID" json:"-"`
}
