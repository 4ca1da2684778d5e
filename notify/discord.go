package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/eulark/eulark-site/models"
)

const discordFieldLimit = 1024

// DiscordNotifier posts new tickets to a Discord channel through a webhook.
type DiscordNotifier struct {
	execute func(params *discordgo.WebhookParams) error
	logger  *slog.Logger
}

func NewDiscordNotifier(webhookID, webhookToken string, logger *slog.Logger) (*DiscordNotifier, error) {
	// Webhook execution is authorised by the webhook token, not a bot token.
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordNotifier{
		execute: func(params *discordgo.WebhookParams) error {
			_, err := session.WebhookExecute(webhookID, webhookToken, false, params)
			return err
		},
		logger: logger,
	}, nil
}

// TicketCreated sends asynchronously so a slow Discord never delays the player.
func (d *DiscordNotifier) TicketCreated(ctx context.Context, msg *models.ContactMessage) {
	params := ticketWebhookParams(msg)
	go func() {
		if err := d.execute(params); err != nil {
			d.logger.Warn("Discord ticket notification failed", slog.Int("ticket_id", msg.ID), slog.Any("error", err))
		}
	}()
}

func ticketWebhookParams(msg *models.ContactMessage) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Username: "Eulark Tickets",
		Embeds: []*discordgo.MessageEmbed{{
			Title:       fmt.Sprintf("New ticket #%d", msg.ID),
			Description: truncate(msg.Message, discordFieldLimit*2),
			Timestamp:   msg.CreatedAt.Format(time.RFC3339),
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Player", Value: msg.PlayerName, Inline: true},
				{Name: "Email", Value: msg.Email, Inline: true},
			},
		}},
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-1]) + "…"
}
