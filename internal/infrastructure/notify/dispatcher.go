package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wekeepgrowing/identity-server/internal/domain/entity"
	"github.com/wekeepgrowing/identity-server/internal/domain/repository"
	"github.com/wekeepgrowing/identity-server/internal/infrastructure/mail"
)

// textMessageJob is the payload handed to the SMS worker over redis.
type textMessageJob struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Body   string `json:"body"`
	Kind   string `json:"kind"`
}

// Dispatcher delivers auth notifications: email over SMTP, text messages
// as jobs published to redis for the SMS worker. It owns its own error
// logging; callers treat every send as fire-and-forget.
type Dispatcher struct {
	mail       *mail.SMTPClient
	redis      *redis.Client
	channel    string
	translator repository.Translator
	logger     *zap.Logger
}

func NewDispatcher(
	mailClient *mail.SMTPClient,
	redisClient *redis.Client,
	channel string,
	translator repository.Translator,
	logger *zap.Logger,
) repository.AuthNotifier {
	return &Dispatcher{
		mail:       mailClient,
		redis:      redisClient,
		channel:    channel,
		translator: translator,
		logger:     logger,
	}
}

func (d *Dispatcher) SendAuthEmail(ctx context.Context, user *entity.User, code string) error {
	subject := d.translator.Translate("mail.challenge.subject", user.Language)
	body := mail.ChallengeEmailHTML(user.Name, code)
	return d.mail.SendMail(ctx, user.Username, subject, body)
}

func (d *Dispatcher) SendVerificationEmail(ctx context.Context, user *entity.User, link string) error {
	subject := d.translator.Translate("mail.verification.subject", user.Language)
	body := mail.VerificationEmailHTML(user.Name, link)
	return d.mail.SendMail(ctx, user.Username, subject, body)
}

func (d *Dispatcher) SendAuthTextMsg(ctx context.Context, user *entity.User, phone, code string) error {
	body := fmt.Sprintf("%s %s", d.translator.Translate("sms.challenge", user.Language), code)
	return d.publishText(ctx, user, phone, body, "auth_code")
}

func (d *Dispatcher) SendTfaTextMsg(ctx context.Context, user *entity.User, phone, code string) error {
	body := fmt.Sprintf("%s %s", d.translator.Translate("sms.phone_verification", user.Language), code)
	return d.publishText(ctx, user, phone, body, "phone_verification")
}

// publishText publishes the job to the shared channel and to the per-user
// channel so targeted consumers can subscribe narrowly.
func (d *Dispatcher) publishText(ctx context.Context, user *entity.User, phone, body, kind string) error {
	job := textMessageJob{
		UserID: user.ID,
		Phone:  phone,
		Body:   body,
		Kind:   kind,
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal text job: %w", err)
	}

	userChannel := fmt.Sprintf("%s:%s", d.channel, user.ID)
	if err := d.redis.Publish(ctx, userChannel, payload).Err(); err != nil {
		d.logger.Error("failed to publish text job",
			zap.String("channel", userChannel),
			zap.String("kind", kind),
			zap.Error(err))
		return fmt.Errorf("failed to publish text job: %w", err)
	}

	if err := d.redis.Publish(ctx, d.channel, payload).Err(); err != nil {
		d.logger.Error("failed to publish text job",
			zap.String("channel", d.channel),
			zap.String("kind", kind),
			zap.Error(err))
		return fmt.Errorf("failed to publish text job: %w", err)
	}

	d.logger.Debug("text job published",
		zap.String("user_id", user.ID),
		zap.String("kind", kind))

	return nil
}
