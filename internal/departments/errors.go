package departments

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not exist")
	ErrDoctorNotFound     = errors.New("doctor not exist")
	ErrMemberNotFound     = errors.New("doctor is not a member of this department")
	// ErrAlreadyMember rejects adding a doctor twice to the same department.
	ErrAlreadyMember = errors.New("doctor is already a member of this department")
)
