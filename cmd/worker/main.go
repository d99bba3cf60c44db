package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"legal-backend/internal/bootstrap"
	"legal-backend/internal/shared/config"
	"legal-backend/internal/shared/telemetry"
	"legal-backend/internal/workerproc"
)

const (
	defaultVisibilitySeconds  = 600
	defaultWorkerConcurrency  = 4
	defaultShutdownTimeoutSec = 30
)

func main() {
	cfg := config.Load()

	queueURL := strings.TrimSpace(cfg.ExtractQueueURL)
	if queueURL == "" {
		log.Fatal("EXTRACT_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	visibilitySeconds := envInt("SQS_VISIBILITY_TIMEOUT_SECONDS", defaultVisibilitySeconds)
	concurrency := envInt("WORKER_CONCURRENCY", defaultWorkerConcurrency)
	shutdownTimeout := time.Duration(envInt("SHUTDOWN_TIMEOUT_SECONDS", defaultShutdownTimeoutSec)) * time.Second

	var awsOpts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}

	sem := make(chan struct{}, maxInt(1, concurrency))
	var wg sync.WaitGroup

	log.Printf("worker started queue=%s concurrency=%d visibility=%ds", queueURL, concurrency, visibilitySeconds)

pollLoop:
	for {
		select {
		case <-ctx.Done():
			break pollLoop
		default:
		}

		resp, err := sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   int32(visibilitySeconds),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				break pollLoop
			}
			log.Printf("receive message: %v", err)
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				break pollLoop
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(m sqstypes.Message) {
				defer wg.Done()
				defer func() { <-sem }()
				handleMessage(ctx, app, sqsClient, queueURL, m)
			}(msg)
		}
	}

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", shutdownTimeout)
	waitDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(shutdownTimeout):
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func handleMessage(ctx context.Context, app *bootstrap.App, client sqsAPI, queueURL string, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)

	decoded, meta, err := workerproc.ParseMessage(body)
	if err != nil {
		// Malformed payloads can never succeed; drop them.
		fields := baseFields(msg, "", "")
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.extract.parse_failed", fields)
		deleteMessage(ctx, client, queueURL, msg, "", "")
		return
	}

	telemetry.Info("worker.extract.received", baseFields(msg, decoded.DocumentID, decoded.RequestID))

	if err := workerproc.HandleMessage(ctx, app.DocsService, body); err != nil {
		// Leave the message for redelivery; extraction may be transient.
		fields := baseFields(msg, decoded.DocumentID, decoded.RequestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.extract.failed", fields)
		return
	}

	if deleteMessage(ctx, client, queueURL, msg, decoded.DocumentID, decoded.RequestID) {
		telemetry.Info("worker.extract.completed", baseFields(msg, decoded.DocumentID, decoded.RequestID))
	}
}

func deleteMessage(ctx context.Context, client sqsAPI, queueURL string, msg sqstypes.Message, documentID, requestID string) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		return false
	}
	if _, err := client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, documentID, requestID)
		fields["error"] = err.Error()
		telemetry.Error("worker.extract.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, documentID, requestID string) map[string]any {
	return map[string]any{
		"document_id":    documentID,
		"request_id":     requestID,
		"sqs_message_id": aws.ToString(msg.MessageId),
	}
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return def
	}
	return val
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
