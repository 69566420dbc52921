package model

// RawStudent mirrors one CSV row exactly as read from the source file.
// Every field is a string so that malformed input can travel through the
// pipeline and be diagnosed by the validation chain instead of failing at
// decode time.
type RawStudent struct {
	// Basic information
	StudentID   string `json:"student_id"`
	FullName    string `json:"full_name"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`

	// Contact information
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`

	// Academic information
	ClassCode      string `json:"class_code"`
	Major          string `json:"major"`
	Faculty        string `json:"faculty"`
	AcademicYear   string `json:"academic_year"`
	EnrollmentDate string `json:"enrollment_date"`

	// Performance
	GPA          string `json:"gpa"`
	TotalCredits string `json:"total_credits"`
	Status       string `json:"status"`

	// Ingestion metadata
	SourceFile string `json:"source_file,omitempty"`
	RowNum     int    `json:"row_num,omitempty"`
}
