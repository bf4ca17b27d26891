package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}

func TestScheduleLeadFollowUpEnqueuesTask(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "homni"}
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	defer client.Close()

	leadID := uuid.New()
	runAt := time.Now().Add(48 * time.Hour)
	if err := client.ScheduleLeadFollowUp(context.Background(), leadID, runAt); err != nil {
		t.Fatalf("ScheduleLeadFollowUp returned error: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("homni")
	if err != nil {
		t.Fatalf("ListScheduledTasks returned error: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadFollowUp {
		t.Errorf("expected task type %s, got %s", TaskLeadFollowUp, tasks[0].Type)
	}

	payload, err := ParseLeadFollowUpPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("ParseLeadFollowUpPayload returned error: %v", err)
	}
	if payload.LeadID != leadID.String() {
		t.Errorf("expected lead id %s, got %s", leadID, payload.LeadID)
	}
}

func TestNilClientSchedulingIsNoop(t *testing.T) {
	var client *Client
	if err := client.ScheduleLeadFollowUp(context.Background(), uuid.New(), time.Now()); err != nil {
		t.Fatalf("nil client should be a no-op, got %v", err)
	}
}
