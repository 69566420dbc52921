package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/apperrors"
)

// expectedColumns is the canonical header of a source file. Column order
// is fixed; files with a different header are rejected before any row is
// read.
var expectedColumns = []string{
	"student_id", "full_name", "date_of_birth", "gender",
	"email", "phone", "address", "city", "province", "postal_code",
	"class_code", "major", "faculty", "academic_year",
	"enrollment_date", "gpa", "total_credits", "status",
}

// RowFunc receives each parsed record with its 1-based data row number.
// Returning an error aborts the read.
type RowFunc func(rowNum int, record *model.RawStudent) error

// ReadRows streams a CSV source, validates the header against the
// canonical column list, and invokes fn for every data row. Rows are not
// buffered; arbitrarily large files read in constant memory.
func ReadRows(r io.Reader, sourceFile string, fn RowFunc) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return 0, apperrors.ErrMissingHeader
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return 0, err
	}

	rows := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read row %d: %w", rows+1, err)
		}

		rows++
		record := rowToRaw(fields)
		record.SourceFile = sourceFile
		record.RowNum = rows
		if err := fn(rows, record); err != nil {
			return rows, err
		}
	}

	return rows, nil
}

func checkHeader(header []string) error {
	if len(header) != len(expectedColumns) {
		return fmt.Errorf("header has %d columns, expected %d", len(header), len(expectedColumns))
	}
	for i, want := range expectedColumns {
		got := strings.TrimSpace(strings.ToLower(header[i]))
		if got != want {
			return fmt.Errorf("header column %d is %q, expected %q", i+1, header[i], want)
		}
	}
	return nil
}

// rowToRaw maps CSV fields positionally. Every field stays a trimmed
// string; typing happens downstream.
func rowToRaw(fields []string) *model.RawStudent {
	get := func(i int) string {
		if i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	return &model.RawStudent{
		StudentID:      get(0),
		FullName:       get(1),
		DateOfBirth:    get(2),
		Gender:         get(3),
		Email:          get(4),
		Phone:          get(5),
		Address:        get(6),
		City:           get(7),
		Province:       get(8),
		PostalCode:     get(9),
		ClassCode:      get(10),
		Major:          get(11),
		Faculty:        get(12),
		AcademicYear:   get(13),
		EnrollmentDate: get(14),
		GPA:            get(15),
		TotalCredits:   get(16),
		Status:         get(17),
	}
}
