package store

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mussacharles60/hospital-booking/internal/models"
)

// DB implements Store on a gorm connection pool. One request borrows one
// underlying connection per statement; gorm releases it on every exit path.
type DB struct {
	db *gorm.DB
}

var _ Store = (*DB)(nil)

// Open connects to MySQL, migrates the schema and returns the store.
func Open(dsn string) (*DB, error) {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return New(gdb)
}

// New wraps an existing gorm handle (tests use this with an in-memory
// database) and runs migrations.
func New(gdb *gorm.DB) (*DB, error) {
	err := gdb.AutoMigrate(
		&models.Admin{},
		&models.Doctor{},
		&models.Patient{},
		&models.Department{},
		&models.DepartmentDoctor{},
		&models.Appointment{},
	)
	if err != nil {
		return nil, err
	}
	return &DB{db: gdb}, nil
}
