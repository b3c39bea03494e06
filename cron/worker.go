package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"safarihub/config"
	"safarihub/services/payment"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypePaymentReconcile = "payment:reconcile"

// ReconcilePayload identifies the booking whose payment should be re-checked.
type ReconcilePayload struct {
	BookingID string `json:"booking_id"`
}

// pollDelay is how long after initiation the safety-net reconciliation runs.
// Most payments settle via webhook or callback well before this.
const pollDelay = 2 * time.Minute

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewQueueClient builds the asynq client used to enqueue reconciliation tasks.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}

// EnqueueReconcile schedules a deferred payment reconciliation for a booking.
func EnqueueReconcile(client *asynq.Client, bookingID string) {
	b, err := json.Marshal(ReconcilePayload{BookingID: bookingID})
	if err != nil {
		log.Printf("[ReconcileWorker] Failed to marshal payload: %v", err)
		return
	}
	task := asynq.NewTask(TypePaymentReconcile, b)
	if _, err := client.Enqueue(task, asynq.ProcessIn(pollDelay), asynq.MaxRetry(3)); err != nil {
		log.Printf("[ReconcileWorker] Failed to enqueue reconciliation for booking %s: %v", bookingID, err)
	}
}

// InitReconcileWorker runs the async worker in background.
func InitReconcileWorker(paymentSvc payment.PaymentService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypePaymentReconcile, handleReconcileTask(paymentSvc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReconcileWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReconcileWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReconcileWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReconcileTask(paymentSvc payment.PaymentService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ReconcilePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReconcileHandler] Invalid payload: %v", err)
			return err
		}

		log.Printf("[ReconcileHandler] Reconciling payment for booking %s", p.BookingID)
		if err := paymentSvc.Reconcile(ctx, p.BookingID); err != nil {
			log.Printf("[ReconcileHandler] Reconciliation failed for booking %s: %v", p.BookingID, err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReconcileWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
