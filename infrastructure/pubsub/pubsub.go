package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	"artist-hub/infrastructure/logger"
)

// NewPubSub creates a Pub/Sub client for the given project.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	return pubsub.NewClient(ctx, projectID)
}

// SyncEventPublisher publishes completed sync runs to a Pub/Sub topic.
type SyncEventPublisher struct {
	client    *pubsub.Client
	topicName string
}

func NewSyncEventPublisher(client *pubsub.Client, topicName string) *SyncEventPublisher {
	return &SyncEventPublisher{client: client, topicName: topicName}
}

func (p *SyncEventPublisher) SyncCompleted(ctx context.Context, ownerID string, platform model.Platform, run model.SyncRun) error {
	payload, err := json.Marshal(dto.SyncEvent{
		OwnerID:    ownerID,
		Platform:   string(platform),
		Created:    run.Created,
		Updated:    run.Updated,
		Total:      run.Total,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	topic := p.client.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := p.client.CreateTopic(ctx, p.topicName); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server_id", serverID).WithField("topic", p.topicName).Info("sync event published")
	return nil
}
