package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/logger"
	"github.com/ifex-stack/kickbook-sub000/internal/metrics"
	"github.com/ifex-stack/kickbook-sub000/internal/user"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey       = "notifications:email"
	failedQueueKey = "notifications:email:failed"
	maxTries       = 3
)

// Service persists notifications and fans them out by email through a
// redis-backed queue so HTTP handlers never wait on SMTP.
type Service struct {
	repo     Repository
	userRepo user.Repository
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(repo Repository, userRepo user.Repository, redisClient *redis.Client, fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		redis:    redisClient,
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

// Notify stores the notification and queues the matching email. The
// stored row is the source of truth; a failed queue push is logged but
// does not fail the caller.
func (s *Service) Notify(ctx context.Context, userID int, notifType, title, body string) error {
	if _, err := s.repo.Insert(ctx, userID, notifType, title, body); err != nil {
		metrics.RecordNotification(notifType, "failed")
		return err
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("notification stored but recipient lookup failed", "user_id", userID, "error", err)
		return nil
	}

	if err := s.queueEmail(ctx, u.Email, u.Name, title, body); err != nil {
		logger.Warn("notification stored but email not queued", "user_id", userID, "error", err)
	}

	metrics.RecordNotification(notifType, "queued")
	return nil
}

func (s *Service) queueEmail(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return s.redis.LPush(ctx, queueKey, data).Err()
}

func (s *Service) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, notificationID, userID int) error {
	return s.repo.MarkRead(ctx, notificationID, userID)
}

// Start runs the email worker until the context is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("bad email job payload: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("email to %s failed (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
		} else {
			s.saveFailed(job, err)
			metrics.RecordNotification("email", "failed")
		}
		return
	}

	metrics.RecordNotification("email", "sent")
	logger.Debug("email sent", "to", job.To, "subject", job.Subject)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, sendErr error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": sendErr.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("email to %s moved to failed queue after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
