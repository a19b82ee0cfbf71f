package servicebus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"artist-hub/domain/dto"
	"artist-hub/domain/model"
	"artist-hub/infrastructure/logger"
)

// NewServiceBus creates a Service Bus client for the given namespace using
// the ambient Azure credential chain.
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, credential, nil)
}

// SyncEventSender forwards completed sync runs to a Service Bus queue.
type SyncEventSender struct {
	client *azservicebus.Client
	queue  string
}

func NewSyncEventSender(client *azservicebus.Client, queue string) *SyncEventSender {
	return &SyncEventSender{client: client, queue: queue}
}

func (s *SyncEventSender) SyncCompleted(ctx context.Context, ownerID string, platform model.Platform, run model.SyncRun) error {
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

	sender, err := s.client.NewSender(s.queue, nil)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("creating service bus sender failed")
		return err
	}
	defer func() {
		if err := sender.Close(context.Background()); err != nil {
			logger.GetLogger().WithField("error", err).Error("closing service bus sender failed")
		}
	}()

	return sender.SendMessage(ctx, &azservicebus.Message{Body: payload}, nil)
}
