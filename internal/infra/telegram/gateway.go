package telegram

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-admin-backend/internal/config"
	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/domain/ports/adapter"
)

var _ adapter.MessagingGateway = (*Gateway)(nil)

// Gateway talks to the Bot API through tgbotapi. The BotAPI handle is built on
// first use because its constructor performs a getMe round trip.
type Gateway struct {
	token       string
	endpoint    string
	adminChatID int64
	client      tgbotapi.HTTPClient
	log         *zerolog.Logger

	mu  sync.Mutex
	api *tgbotapi.BotAPI
}

func NewGateway(cfg *config.TelegramConfig, logger *zerolog.Logger) *Gateway {
	compLog := logger.With().Str("component", "telegram").Logger()
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Gateway{
		token:       cfg.Token,
		endpoint:    endpoint,
		adminChatID: cfg.AdminChatID,
		client:      &http.Client{Timeout: 15 * time.Second},
		log:         &compLog,
	}
}

// WithHTTPClient swaps the transport (for testing).
func (g *Gateway) WithHTTPClient(c tgbotapi.HTTPClient) *Gateway {
	g.client = c
	return g
}

// botAPI returns the shared client, creating it on first use. fresh reports
// that it was just created, in which case api.Self already holds a live getMe.
func (g *Gateway) botAPI() (api *tgbotapi.BotAPI, fresh bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.api != nil {
		return g.api, false, nil
	}
	if g.token == "" {
		return nil, false, domain.ErrGatewayDisabled
	}
	api, err = tgbotapi.NewBotAPIWithClient(g.token, g.endpoint, g.client)
	if err != nil {
		return nil, false, fmt.Errorf("telegram init: %w", err)
	}
	g.api = api
	return api, true, nil
}

func (g *Gateway) GetBotIdentity(ctx context.Context) (*model.BotIdentity, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	api, fresh, err := g.botAPI()
	if err != nil {
		g.log.Warn().Err(err).Msg("telegram bot identity unavailable")
		return nil, false
	}
	me := api.Self
	if !fresh {
		if me, err = api.GetMe(); err != nil {
			g.log.Warn().Err(err).Msg("telegram getMe failed")
			return nil, false
		}
	}
	return &model.BotIdentity{ID: me.ID, Username: me.UserName, FirstName: me.FirstName}, true
}

func (g *Gateway) RegisterWebhook(ctx context.Context, url string) bool {
	if ctx.Err() != nil {
		return false
	}
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		g.log.Warn().Err(err).Str("url", url).Msg("invalid webhook url")
		return false
	}
	api, _, err := g.botAPI()
	if err != nil {
		g.log.Warn().Err(err).Msg("cannot register webhook")
		return false
	}
	resp, err := api.Request(wh)
	if err != nil || !resp.Ok {
		g.log.Warn().Err(err).Str("url", url).Msg("setWebhook failed")
		return false
	}
	g.log.Info().Str("url", url).Msg("webhook registered")
	return true
}

func (g *Gateway) DeleteWebhook(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	api, _, err := g.botAPI()
	if err != nil {
		g.log.Warn().Err(err).Msg("cannot delete webhook")
		return false
	}
	resp, err := api.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil || !resp.Ok {
		g.log.Warn().Err(err).Msg("deleteWebhook failed")
		return false
	}
	return true
}

func (g *Gateway) SendAdminNotification(ctx context.Context, text string) (bool, error) {
	if g.adminChatID == 0 {
		g.log.Warn().Msg("admin chat id not configured; notification skipped")
		return false, nil
	}
	if g.token == "" {
		g.log.Warn().Msg("bot token not configured; notification skipped")
		return false, nil
	}
	if err := g.SendMessage(ctx, g.adminChatID, text); err != nil {
		g.log.Error().Err(err).Int64("chat_id", g.adminChatID).Msg("admin notification failed")
		return false, err
	}
	return true, nil
}

func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	api, _, err := g.botAPI()
	if err != nil {
		return err
	}
	if _, err := api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram sendMessage: %w", err)
	}
	return nil
}
