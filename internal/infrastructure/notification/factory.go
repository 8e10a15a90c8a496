package notification

import (
	"fmt"

	"ticketd/internal/infrastructure/config"
	"ticketd/internal/infrastructure/email"
	"ticketd/internal/infrastructure/pubsub"
	"ticketd/internal/shared/constants"
	"ticketd/internal/shared/logger"
)

// NewFromConfig registers every channel listed in notification.channels. The returned
// cleanup releases connections held by the channels.
func NewFromConfig(cfg *config.Config, renderer email.CodeRenderer, log logger.Interface) (*MultiNotifier, func(), error) {
	n := NewMultiNotifier(log)
	var closers []func() error

	for _, channel := range cfg.Notification.Channels {
		switch channel {
		case constants.ChannelEmail:
			if cfg.Email.SMTPHost == "" {
				log.Warnw("email notification enabled but smtp_host is empty, skipping")
				continue
			}
			n.Register(channel, email.NewSMTPEmailService(email.SMTPConfigFrom(&cfg.Email), renderer, log))

		case constants.ChannelRedis:
			client := pubsub.NewRedisClient(cfg.Redis.GetAddr(), cfg.Redis.Password, cfg.Redis.DB)
			closers = append(closers, client.Close)
			n.Register(channel, pubsub.NewRedisTicketEventBus(client, log))

		case constants.ChannelAMQP:
			n.Register(channel, NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log))

		default:
			return nil, nil, fmt.Errorf("unknown notification channel %q", channel)
		}
	}

	cleanup := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnw("failed to close notification channel", "error", err)
			}
		}
	}

	log.Infow("notification channels configured", "channels", n.Channels())
	return n, cleanup, nil
}
