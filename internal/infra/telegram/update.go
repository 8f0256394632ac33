package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
)

// ParseUpdate decodes a webhook body. It returns (nil, nil) for updates that
// carry no message (edits, callbacks, member changes); those are acknowledged.
func ParseUpdate(body io.Reader) (*model.InboundMessage, error) {
	var upd tgbotapi.Update
	if err := json.NewDecoder(body).Decode(&upd); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedUpdate, err)
	}
	msg := upd.Message
	if msg == nil {
		return nil, nil
	}
	if msg.Chat == nil || msg.From == nil {
		return nil, fmt.Errorf("%w: message without chat or sender", domain.ErrMalformedUpdate)
	}
	return &model.InboundMessage{
		UpdateID: upd.UpdateID,
		ChatID:   strconv.FormatInt(msg.Chat.ID, 10),
		UserID:   strconv.FormatInt(msg.From.ID, 10),
		Text:     msg.Text,
	}, nil
}
