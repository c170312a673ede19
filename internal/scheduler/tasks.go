package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskJourneyRecompute = "journey.recompute"

const TaskJourneyStaleSweep = "journey.stale_sweep"

type JourneyRecomputePayload struct {
	LeadID string `json:"leadId"`
}

type JourneyStaleSweepPayload struct {
	OlderThanHours int `json:"olderThanHours"`
}

func NewJourneyRecomputeTask(payload JourneyRecomputePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJourneyRecompute, data), nil
}

func ParseJourneyRecomputePayload(task *asynq.Task) (JourneyRecomputePayload, error) {
	var payload JourneyRecomputePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return JourneyRecomputePayload{}, err
	}
	return payload, nil
}

func NewJourneyStaleSweepTask(payload JourneyStaleSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJourneyStaleSweep, data), nil
}

func ParseJourneyStaleSweepPayload(task *asynq.Task) (JourneyStaleSweepPayload, error) {
	var payload JourneyStaleSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return JourneyStaleSweepPayload{}, err
	}
	return payload, nil
}
