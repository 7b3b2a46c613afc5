package scheduler

import (
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

const TaskTypePublishPostGroup = "publish:post_group"

type PublishPayload struct {
	PostGroupID string `json:"post_group_id"`
}

// Enqueue schedules a publish task to fire after the given delay. A zero
// delay means the group is due immediately.
func Enqueue(asynqClient *asynq.Client, payload PublishPayload, delay time.Duration) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPostGroup, taskPayload)

	_, err = asynqClient.Enqueue(task, asynq.ProcessIn(delay))
	if err != nil {
		return err
	}

	log.Printf("Publish task scheduled: %+v", payload)
	return nil
}
