package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/apperrors"
)

const csvHeader = "student_id,full_name,date_of_birth,gender,email,phone,address,city,province,postal_code,class_code,major,faculty,academic_year,enrollment_date,gpa,total_credits,status"

func collectRows(t *testing.T, input string) []*model.RawStudent {
	t.Helper()
	var out []*model.RawStudent
	_, err := ReadRows(strings.NewReader(input), "students.csv", func(rowNum int, record *model.RawStudent) error {
		out = append(out, record)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestReadRows(t *testing.T) {
	input := csvHeader + "\n" +
		"SV20210001,Nguyen Van An,2003-05-15,MALE,an@example.com,0901234567,12 Ly Thuong Kiet,Hanoi,Hanoi,100000,CS21A01,Computer Science,IT,2021-2025,2021-09-05,3.45,120,ACTIVE\n" +
		"SV20210002, Tran Thi Binh ,2004-01-20,FEMALE,binh@example.com,0909876543,,,,,SE22A01,Software Engineering,IT,2022-2026,2022-09-05,3.80,60,ACTIVE\n"

	rows := collectRows(t, input)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "SV20210001", first.StudentID)
	assert.Equal(t, "Nguyen Van An", first.FullName)
	assert.Equal(t, "CS21A01", first.ClassCode)
	assert.Equal(t, "3.45", first.GPA)
	assert.Equal(t, "students.csv", first.SourceFile)
	assert.Equal(t, 1, first.RowNum)

	// Field values are trimmed, blanks stay blank
	second := rows[1]
	assert.Equal(t, "Tran Thi Binh", second.FullName)
	assert.Empty(t, second.Address)
	assert.Equal(t, 2, second.RowNum)
}

func TestReadRowsHeaderOnly(t *testing.T) {
	count, err := ReadRows(strings.NewReader(csvHeader+"\n"), "empty.csv", func(int, *model.RawStudent) error {
		t.Fatal("no rows expected")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReadRowsEmptyFile(t *testing.T) {
	_, err := ReadRows(strings.NewReader(""), "none.csv", nil)
	require.ErrorIs(t, err, apperrors.ErrMissingHeader)
}

func TestReadRowsHeaderMismatch(t *testing.T) {
	t.Run("wrong column name", func(t *testing.T) {
		bad := strings.Replace(csvHeader, "student_id", "id", 1)
		_, err := ReadRows(strings.NewReader(bad+"\n"), "bad.csv", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"id"`)
	})

	t.Run("wrong column count", func(t *testing.T) {
		_, err := ReadRows(strings.NewReader("student_id,full_name\n"), "bad.csv", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "columns")
	})

	t.Run("case and spacing tolerated", func(t *testing.T) {
		upper := strings.ToUpper(csvHeader)
		_, err := ReadRows(strings.NewReader(upper+"\n"), "ok.csv", func(int, *model.RawStudent) error {
			return nil
		})
		require.NoError(t, err)
	})
}

func TestReadRowsCallbackError(t *testing.T) {
	input := csvHeader + "\n" +
		"SV20210001,A,2003-05-15,MALE,a@b.com,0901234567,,,,,CS21A01,CS,IT,2021,2021-09-05,3.0,10,ACTIVE\n" +
		"SV20210002,B,2003-05-15,MALE,b@b.com,0901234568,,,,,CS21A01,CS,IT,2021,2021-09-05,3.0,10,ACTIVE\n"

	calls := 0
	_, err := ReadRows(strings.NewReader(input), "x.csv", func(rowNum int, record *model.RawStudent) error {
		calls++
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}
