package model

import "github.com/shopspring/decimal"

// Student is the typed entity persisted to the destination store.
// It is produced by the transformer from a validated raw record plus a
// resolved class id and is never mutated after creation; a later message for
// the same student id yields a fresh entity that overwrites the stored row.
type Student struct {
	// Basic information
	StudentID   string `json:"student_id"`
	FullName    string `json:"full_name"`
	DateOfBirth Date   `json:"date_of_birth"`
	Gender      Gender `json:"gender"`

	// Contact information
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`

	// Academic information
	ClassID        int  `json:"class_id"`
	EnrollmentDate Date `json:"enrollment_date"`

	// Performance
	GPA          decimal.Decimal `json:"gpa"`
	TotalCredits int             `json:"total_credits"`

	Status StudentStatus `json:"status"`
}
