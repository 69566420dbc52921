package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/bxt04/studentpipe/internal/db"
	"github.com/bxt04/studentpipe/internal/model"
	"github.com/bxt04/studentpipe/internal/pkg/dberrors"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// batchChunkSize is the number of entities committed per transaction in
// batch mode. Chunks already committed stay committed when a later chunk
// fails; there is no cross-chunk atomicity.
const batchChunkSize = 100

// upsertSuffix overwrites every mutable column and refreshes the update
// timestamp when the student id already exists.
const upsertSuffix = `ON CONFLICT (student_id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	date_of_birth = EXCLUDED.date_of_birth,
	gender = EXCLUDED.gender,
	email = EXCLUDED.email,
	phone = EXCLUDED.phone,
	address = EXCLUDED.address,
	city = EXCLUDED.city,
	province = EXCLUDED.province,
	postal_code = EXCLUDED.postal_code,
	class_id = EXCLUDED.class_id,
	enrollment_date = EXCLUDED.enrollment_date,
	gpa = EXCLUDED.gpa,
	total_credits = EXCLUDED.total_credits,
	status = EXCLUDED.status,
	updated_at = CURRENT_TIMESTAMP`

var studentColumns = []string{
	"student_id", "full_name", "date_of_birth", "gender",
	"email", "phone", "address", "city", "province", "postal_code",
	"class_id", "enrollment_date", "gpa", "total_credits", "status",
}

// Loader persists typed students into the destination store. It owns a
// process-lifetime cache mapping class codes to class ids, populated once
// at construction. The cache goes stale if the classes table changes after
// construction; call RefreshCache to reload it.
type Loader struct {
	pg *db.PostgresDB
	sb squirrel.StatementBuilderType

	mu    sync.RWMutex
	cache map[string]int
}

// New constructs a loader and loads the class cache from the store
func New(ctx context.Context, pg *db.PostgresDB) (*Loader, error) {
	l := &Loader{
		pg: pg,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if err := l.RefreshCache(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// RefreshCache reloads the class code to id mapping from the store
func (l *Loader) RefreshCache(ctx context.Context) error {
	sql, args, err := l.sb.Select("id", "class_code").From("classes").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build class cache query: %w", err)
	}

	rows, err := l.pg.Pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to load class cache: %w", err)
	}
	defer rows.Close()

	cache := make(map[string]int)
	for rows.Next() {
		var id int
		var code string
		if err := rows.Scan(&id, &code); err != nil {
			return fmt.Errorf("failed to scan class row: %w", err)
		}
		cache[code] = id
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read class rows: %w", err)
	}

	l.mu.Lock()
	l.cache = cache
	l.mu.Unlock()

	logger.Info().Int("classes", len(cache)).Msg("Class code cache loaded")
	return nil
}

// ClassID resolves a class code from the cache. The second return value is
// false for unknown codes; the caller decides the policy.
func (l *Loader) ClassID(code string) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.cache[code]
	return id, ok
}

// studentValues orders an entity's fields to match studentColumns
func studentValues(s *model.Student) []interface{} {
	return []interface{}{
		s.StudentID, s.FullName, s.DateOfBirth.Time, string(s.Gender),
		s.Email, s.Phone, s.Address, s.City, s.Province, s.PostalCode,
		s.ClassID, s.EnrollmentDate.Time, s.GPA, s.TotalCredits, string(s.Status),
	}
}

// Upsert inserts the student or overwrites the existing row keyed by the
// student's natural identifier.
func (l *Loader) Upsert(ctx context.Context, student *model.Student) error {
	sql, args, err := l.sb.Insert("students").
		Columns(studentColumns...).
		Values(studentValues(student)...).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := l.pg.Pool.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("class id %d missing for student %s: %w", student.ClassID, student.StudentID, err)
		}
		return fmt.Errorf("failed to upsert student %s: %w", student.StudentID, err)
	}

	logger.Debug().Str("studentID", student.StudentID).Msg("Student upserted")
	return nil
}

// UpsertBatch persists students in chunks of 100, one transaction per
// chunk. A failure rolls back only the failing chunk; the count of rows
// committed before the failure is returned alongside the error.
func (l *Loader) UpsertBatch(ctx context.Context, students []*model.Student) (int, error) {
	committed := 0

	// Postgres rejects a multi-row upsert that touches the same key twice,
	// so within a batch the last occurrence of a student id wins.
	students = dedupeStudents(students)

	for _, chunk := range chunkStudents(students, batchChunkSize) {
		if err := l.upsertChunk(ctx, chunk); err != nil {
			return committed, err
		}
		committed += len(chunk)
	}

	logger.Info().Int("students", committed).Msg("Batch upsert completed")
	return committed, nil
}

// upsertChunk writes one chunk inside a single transaction
func (l *Loader) upsertChunk(ctx context.Context, chunk []*model.Student) error {
	builder := l.sb.Insert("students").Columns(studentColumns...)
	for _, student := range chunk {
		builder = builder.Values(studentValues(student)...)
	}

	sql, args, err := builder.Suffix(upsertSuffix).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build batch upsert query: %w", err)
	}

	return l.pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to execute batch upsert: %w", err)
		}
		return nil
	})
}

// dedupeStudents collapses repeated student ids, keeping the latest record
// in its first position of occurrence.
func dedupeStudents(students []*model.Student) []*model.Student {
	seen := make(map[string]int, len(students))
	out := make([]*model.Student, 0, len(students))
	for _, student := range students {
		if idx, ok := seen[student.StudentID]; ok {
			out[idx] = student
			continue
		}
		seen[student.StudentID] = len(out)
		out = append(out, student)
	}
	return out
}

// chunkStudents splits the input into fixed-size chunks, last one shorter
func chunkStudents(students []*model.Student, size int) [][]*model.Student {
	if len(students) == 0 {
		return nil
	}

	var chunks [][]*model.Student
	for start := 0; start < len(students); start += size {
		end := start + size
		if end > len(students) {
			end = len(students)
		}
		chunks = append(chunks, students[start:end])
	}
	return chunks
}

// Count returns the total number of rows in the students table
func (l *Loader) Count(ctx context.Context) (int, error) {
	sql, args, err := l.sb.Select("COUNT(*)").From("students").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := l.pg.Pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}
