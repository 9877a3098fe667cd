package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/diwise/tenant-store/pkg/document"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

//go:generate moq -rm -out notifier_mock.go . Notifier

type Notifier interface {
	Start() error
	Stop() error

	DocumentCreated(ctx context.Context, tenant, collection string, doc document.Document)
	DocumentUpdated(ctx context.Context, tenant, collection string, doc document.Document)
	DocumentDeleted(ctx context.Context, tenant, collection string, id any)
}

const (
	TypeDocumentCreated string = "DocumentCreated"
	TypeDocumentUpdated string = "DocumentUpdated"
	TypeDocumentDeleted string = "DocumentDeleted"
)

type Notification struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	Tenant     string              `json:"tenant"`
	Collection string              `json:"collection"`
	NotifiedAt string              `json:"notifiedAt"`
	Data       []document.Document `json:"data"`
}

func NewNotification(notificationType, tenant, collection string, docs ...document.Document) *Notification {
	return &Notification{
		ID:         fmt.Sprintf("urn:tenant-store:Notification:%s", uuid.New().String()),
		Type:       notificationType,
		Tenant:     tenant,
		Collection: collection,
		NotifiedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Data:       docs,
	}
}

var tracer = otel.Tracer("tenant-store/notifier")

type action func()

type notifier struct {
	started  bool
	endpoint string

	queue chan action
}

func NewNotifier(ctx context.Context, endpoint string) (Notifier, error) {
	return &notifier{
		endpoint: endpoint,
		queue:    make(chan action, 32),
	}, nil
}

func (n *notifier) Start() error {
	if n.started {
		return fmt.Errorf("already started")
	}

	n.started = true

	go n.run()

	return nil
}

func (n *notifier) Stop() error {
	if n.started {
		resultChan := make(chan bool)

		n.queue <- func() {
			// close the queue to signal the consumers that we are going out of business
			close(n.queue)
			resultChan <- true
		}

		// blocking read until our action has been processed
		<-resultChan
	}
	return nil
}

func (n *notifier) DocumentCreated(ctx context.Context, tenant, collection string, doc document.Document) {
	n.enqueue(ctx, NewNotification(TypeDocumentCreated, tenant, collection, doc))
}

func (n *notifier) DocumentUpdated(ctx context.Context, tenant, collection string, doc document.Document) {
	n.enqueue(ctx, NewNotification(TypeDocumentUpdated, tenant, collection, doc))
}

func (n *notifier) DocumentDeleted(ctx context.Context, tenant, collection string, id any) {
	n.enqueue(ctx, NewNotification(TypeDocumentDeleted, tenant, collection, document.Document{document.IDKey: id}))
}

func (n *notifier) enqueue(ctx context.Context, notification *Notification) {
	if !n.started {
		return
	}

	var err error

	logger := logging.GetFromContext(ctx)

	ctx, span := tracer.Start(
		tracing.ExtractHeaders(context.Background(), tracing.InjectHeaders(ctx)),
		"post",
	)

	n.queue <- func() {
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		err = postNotification(ctx, notification, n.endpoint)
		if err != nil {
			logger.Error("failed to post notification", "type", notification.Type, "err", err.Error())
		}
	}
}

func postNotification(ctx context.Context, notification *Notification, endpoint string) error {
	body, err := json.MarshalIndent(notification, "", " ")
	if err != nil {
		return fmt.Errorf("marshalling error (%w)", err)
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("unable to create new request (%w)", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request (%w)", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification endpoint returned status code %d", resp.StatusCode)
	}

	return nil
}

func (n *notifier) run() {
	// repeat until the queue is closed
	for action := range n.queue {
		if action == nil {
			return
		}

		action()
	}
}
