// internal/notify/dispatcher.go
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/models"
	"github.com/shrimpsizemoose/lussekatt/internal/store"
)

const (
	studentChannelTpl = "notify:student:%d"
	classChannelTpl   = "notify:class:%d"
)

// ErrEmptyClass reports a class notification aimed at a class with no
// students on its roster.
var ErrEmptyClass = errors.New("class has no students")

// DeliveryReport lists who got the email and who did not. The
// notification row itself is already persisted either way.
type DeliveryReport struct {
	Delivered []string `json:"delivered"`
	Failed    []string `json:"failed"`
}

// Dispatcher persists notifications and fans them out. The database
// write is the source of truth; email and redis publish are best
// effort on top.
type Dispatcher struct {
	store  store.QuizStore
	mailer Mailer
	redis  *redis.Client
}

func NewDispatcher(s store.QuizStore, mailer Mailer, redisURL string) (*Dispatcher, error) {
	d := &Dispatcher{store: s, mailer: mailer}

	if redisURL != "" {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.redis = client
	}

	return d, nil
}

func (d *Dispatcher) Close() error {
	if d.redis != nil {
		return d.redis.Close()
	}
	return nil
}

// NotifyStudent stores a personal notification and mails the student.
// A failed email lands in the report, never in the error.
func (d *Dispatcher) NotifyStudent(ctx context.Context, studentID int64, message string, createdBy *int64) (*DeliveryReport, error) {
	student, err := d.store.GetStudent(studentID)
	if err != nil {
		return nil, err
	}

	n := &models.StudentNotification{
		StudentID: studentID,
		Message:   message,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}
	if err := d.store.CreateStudentNotification(n); err != nil {
		return nil, err
	}

	report := &DeliveryReport{}
	d.deliver(report, student.Name, student.Email, message)
	d.publish(ctx, fmt.Sprintf(studentChannelTpl, studentID), message)

	return report, nil
}

// NotifyClass stores a class notification and mails every student on
// the roster.
func (d *Dispatcher) NotifyClass(ctx context.Context, classID int64, message string, createdBy *int64) (*DeliveryReport, error) {
	if _, err := d.store.GetClass(classID); err != nil {
		return nil, err
	}

	roster, err := d.store.ClassRoster(classID)
	if err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, ErrEmptyClass
	}

	n := &models.ClassNotification{
		ClassID:   classID,
		Message:   message,
		CreatedBy: createdBy,
		CreatedAt: time.Now().Unix(),
	}
	if err := d.store.CreateClassNotification(n); err != nil {
		return nil, err
	}

	report := &DeliveryReport{}
	for _, student := range roster {
		d.deliver(report, student.Name, student.Email, message)
	}
	d.publish(ctx, fmt.Sprintf(classChannelTpl, classID), message)

	return report, nil
}

func (d *Dispatcher) deliver(report *DeliveryReport, name, address, message string) {
	if err := d.mailer.Send(name, address, "New notification", message); err != nil {
		logger.Error.Printf("Failed to mail %s: %v", address, err)
		report.Failed = append(report.Failed, address)
		return
	}
	report.Delivered = append(report.Delivered, address)
}

func (d *Dispatcher) publish(ctx context.Context, channel, message string) {
	if d.redis == nil {
		return
	}
	if err := d.redis.Publish(ctx, channel, message).Err(); err != nil {
		logger.Error.Printf("Failed to publish on %s: %v", channel, err)
	}
}
