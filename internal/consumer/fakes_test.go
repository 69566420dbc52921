package consumer

import (
	"context"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bxt04/studentpipe/internal/model"
)

var errPublishDown = errors.New("publish channel closed")

type publishedBody struct {
	routingKey string
	body       []byte
	headers    amqp.Table
}

// fakePublisher records every publish, optionally failing per route
type fakePublisher struct {
	validated   []any
	transformed []any
	errored     []any
	bodies      []publishedBody

	failValidated   bool
	failTransformed bool
	failError       bool
	failBody        bool
}

func (p *fakePublisher) PublishValidated(ctx context.Context, message any) error {
	if p.failValidated {
		return errPublishDown
	}
	p.validated = append(p.validated, message)
	return nil
}

func (p *fakePublisher) PublishTransformed(ctx context.Context, message any) error {
	if p.failTransformed {
		return errPublishDown
	}
	p.transformed = append(p.transformed, message)
	return nil
}

func (p *fakePublisher) PublishError(ctx context.Context, message any) error {
	if p.failError {
		return errPublishDown
	}
	p.errored = append(p.errored, message)
	return nil
}

func (p *fakePublisher) PublishBody(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error {
	if p.failBody {
		return errPublishDown
	}
	p.bodies = append(p.bodies, publishedBody{routingKey: routingKey, body: body, headers: headers})
	return nil
}

// fakeStore satisfies StudentStore with an in-memory class table
type fakeStore struct {
	classes   map[string]int
	upserts   []*model.Student
	upsertErr error
}

func (s *fakeStore) ClassID(code string) (int, bool) {
	id, ok := s.classes[code]
	return id, ok
}

func (s *fakeStore) Upsert(ctx context.Context, student *model.Student) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, student)
	return nil
}

// fakeAcker records the acknowledgment applied to a delivery
type fakeAcker struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *fakeAcker) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

// handlerFunc adapts a closure to the Handler interface
type handlerFunc func(ctx context.Context, body []byte) (Decision, error)

func (f handlerFunc) Handle(ctx context.Context, body []byte) (Decision, error) {
	return f(ctx, body)
}

func validRaw() *model.RawStudent {
	dob := time.Now().AddDate(-20, 0, 0).Format(model.DateFormat)
	return &model.RawStudent{
		StudentID:      "SV20210001",
		FullName:       "Le Van Cuong",
		DateOfBirth:    dob,
		Gender:         "MALE",
		Email:          "cuong.le@example.edu.vn",
		Phone:          "0901234567",
		ClassCode:      "CS21A01",
		Major:          "Computer Science",
		Faculty:        "Information Technology",
		EnrollmentDate: "2021-09-05",
		GPA:            "3.20",
		TotalCredits:   "96",
		Status:         "ACTIVE",
	}
}
