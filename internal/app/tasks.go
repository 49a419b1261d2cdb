package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"frontdesk/internal/codec/task"
	"frontdesk/internal/domain"
)

// TaskService stores tasks in hotel notifications.
type TaskService struct {
	notifications domain.NotificationRepository
	now           func() time.Time
}

func NewTaskService(n domain.NotificationRepository) *TaskService {
	return &TaskService{notifications: n, now: time.Now}
}

func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Create(ctx context.Context, hotelID string, in task.Record) (TaskView, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return TaskView{}, invalidf("task title is required")
	}
	if in.Kind != "" {
		k := task.ParseKind(string(in.Kind))
		if k == "" {
			return TaskView{}, invalidf("unknown task kind %q", in.Kind)
		}
		in.Kind = k
	}
	in.HotelID = hotelID

	n := domain.Notification{
		ID:        uuid.NewString(),
		HotelID:   hotelID,
		Message:   task.Encode(in),
		CreatedAt: s.now().UTC(),
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return TaskView{}, fmt.Errorf("create task: %w", err)
	}
	log.Info().Str("task", n.ID).Str("hotel", hotelID).Str("kind", string(in.Kind)).Msg("task created")
	return mapTask(n), nil
}

// AddNote appends to a task. Plain-text notifications are upgraded to the
// structured form on their first note.
func (s *TaskService) AddNote(ctx context.Context, taskID string, note task.Note) (TaskView, error) {
	note.Text = strings.TrimSpace(note.Text)
	if note.Text == "" {
		return TaskView{}, invalidf("note text is required")
	}
	if note.At.IsZero() {
		note.At = s.now().UTC()
	}
	n, err := s.notifications.GetNotification(ctx, taskID)
	if err != nil {
		return TaskView{}, err
	}
	n.Message = task.AppendNote(n.Message, note)
	if err := s.notifications.UpdateNotificationMessage(ctx, n.ID, n.Message); err != nil {
		return TaskView{}, fmt.Errorf("update task %s: %w", n.ID, err)
	}
	return mapTask(n), nil
}

func (s *TaskService) List(ctx context.Context, hotelID string) ([]TaskView, error) {
	rows, err := s.notifications.ListNotifications(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	out := make([]TaskView, 0, len(rows))
	for _, n := range rows {
		out = append(out, mapTask(n))
	}
	return out, nil
}
