package worker

import (
	"context"

	"lively_server/pkg/logger"

	"github.com/goccy/go-json"
)

type Handler struct {
	scoutProcessor *ScoutProcessor
}

func NewHandler(scoutProcessor *ScoutProcessor) *Handler {
	return &Handler{
		scoutProcessor: scoutProcessor,
	}
}

func (h *Handler) Process(ctx context.Context, msg *Message) error {
	logger.Debug("Processing message: %s", msg.Type)

	switch msg.Type {
	case JobScoutInterest:
		return h.scoutProcessor.ProcessInterest(ctx, msg)

	default:
		logger.Warn("Unknown job type: %s", msg.Type)
		return nil
	}
}

func ParsePayload[T any](msg *Message) (*T, error) {
	var payload T
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
