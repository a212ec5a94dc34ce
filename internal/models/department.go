package models

import "time"

// Department groups doctors under a single leader. The leader is the only
// doctor allowed to assign the department's appointments.
type Department struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Type        string `gorm:"size:100;not null" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	LeaderID    string `gorm:"size:36;index;not null" json:"leaderId"`

	// Relations
	Leader  Doctor             `gorm:"foreignKey:LeaderID" json:"-"`
	Members []DepartmentDoctor `gorm:"foreignKey:DepartmentID" json:"-"`
}

// DepartmentDoctor is the membership relation between doctors and
// departments, independent of leadership.
type DepartmentDoctor struct {
	DepartmentID string    `gorm:"primaryKey;size:36" json:"departmentId"`
	DoctorID     string    `gorm:"primaryKey;size:36" json:"doctorId"`
	CreatedAt    time.Time `json:"createdAt"`

	Department Department `gorm:"foreignKey:DepartmentID" json:"-"`
	Doctor     Doctor     `gorm:"foreignKey:DoctorID" json:"-"`
}
