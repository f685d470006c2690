package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/xaenox/foodie-bot/internal/models"
	"go.uber.org/zap"
)

const historyLimit = 5

// Service is the part of the recommendation engine the bot talks to.
type Service interface {
	Chat(ctx context.Context, sessionID, message string) models.Reply
	Retrieve(ctx context.Context, filter models.FilterRecord) []models.CatalogItem
	ComposeReply(items []models.CatalogItem) string
	History(ctx context.Context, sessionID string, limit int) ([]models.ConversationTurn, error)
	Stats(ctx context.Context) (models.InterestStats, error)
	CatalogSize(ctx context.Context) (int, error)
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	service Service
	logger  *zap.Logger
}

func New(token string, service Service, debug bool, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug

	b := newBot(api, service, logger)
	b.api = api

	b.logger.Info("Authorized on Telegram", zap.String("username", api.Self.UserName))
	return b, nil
}

func newBot(s sender, service Service, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		sender:  s,
		service: service,
		logger:  logger,
	}
}

// Start polls for updates until ctx is cancelled. Updates are handled one at
// a time, so replies to a chat go out in the order its messages arrived.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.serve(ctx, updates)
	return nil
}

func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func sessionID(chatID int64) string {
	return "telegram:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	content := strings.TrimSpace(message.Text)
	if content == "" {
		content = strings.TrimSpace(message.Caption)
	}
	if content == "" {
		b.sendMessage(message.Chat.ID, "Tell me what you're craving and I'll look it up on our menu.")
		return
	}

	requestID := uuid.NewString()
	reply := b.service.Chat(ctx, sessionID(message.Chat.ID), content)

	b.logger.Info("Answered message",
		zap.String("request_id", requestID),
		zap.Int64("chat_id", message.Chat.ID),
		zap.Int("interest_score", reply.InterestScore),
		zap.Int("matches", len(reply.Items)))

	msg := tgbotapi.NewMessage(message.Chat.ID, reply.Text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send reply",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int64("chat_id", message.Chat.ID))
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "menu":
		b.handleMenu(ctx, message)
	case "history":
		b.handleHistory(ctx, message)
	case "stats":
		b.handleStats(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	welcome := `Welcome to FoodieBot! 🍔
Tell me what you're in the mood for and I'll find it on our menu.

Try "show me burgers", "something extra spicy under $10" or "I'm vegetarian".
Use /help to see all available commands.`

	b.sendMessage(message.Chat.ID, welcome)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/menu - Show our most popular items
/history - Show your recent questions
/stats - Show conversation statistics

You can ask for:
- A category (burgers, pizza, tacos, salads...)
- A budget ("under $8", "less than 10 dollars")
- A spice level ("spicy", "extra spicy")
- Dietary needs (vegetarian, vegan)`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleMenu(ctx context.Context, message *tgbotapi.Message) {
	items := b.service.Retrieve(ctx, models.FilterRecord{})
	b.sendMessage(message.Chat.ID, b.service.ComposeReply(items))
}

func (b *Bot) handleHistory(ctx context.Context, message *tgbotapi.Message) {
	turns, err := b.service.History(ctx, sessionID(message.Chat.ID), historyLimit)
	if err != nil {
		b.logger.Error("Failed to get conversation history",
			zap.Error(err),
			zap.Int64("chat_id", message.Chat.ID))
		b.sendErrorMessage(message.Chat.ID, "Sorry, I couldn't retrieve your history.")
		return
	}

	if len(turns) == 0 {
		b.sendMessage(message.Chat.ID, "You haven't asked me anything yet.")
		return
	}

	b.sendMarkdown(message.Chat.ID, formatHistory(turns))
}

func (b *Bot) handleStats(ctx context.Context, message *tgbotapi.Message) {
	stats, err := b.service.Stats(ctx)
	if err != nil {
		b.logger.Error("Failed to get interest stats", zap.Error(err))
		b.sendErrorMessage(message.Chat.ID, "Sorry, statistics are unavailable right now.")
		return
	}

	size, err := b.service.CatalogSize(ctx)
	if err != nil {
		b.logger.Warn("Failed to count products", zap.Error(err))
		size = -1
	}

	b.sendMarkdown(message.Chat.ID, formatStats(stats, size))
}

func formatHistory(turns []models.ConversationTurn) string {
	var response strings.Builder
	response.WriteString("*Your recent questions:*\n\n")
	for _, turn := range turns {
		response.WriteString(fmt.Sprintf("_%s_\n", escapeMarkdown(turn.UserMessage)))
		response.WriteString(escapeMarkdown(fmt.Sprintf("Interest: %d/100 · %s", turn.InterestScore, turn.CreatedAt.Format("Jan 2 15:04"))))
		response.WriteString("\n\n")
	}
	return response.String()
}

func formatStats(stats models.InterestStats, catalogSize int) string {
	text := "*Conversation stats:*\n"
	text += escapeMarkdown(fmt.Sprintf("Turns logged: %d", stats.Turns)) + "\n"
	text += escapeMarkdown(fmt.Sprintf("Average interest: %.1f/100", stats.AverageInterest)) + "\n"
	if catalogSize >= 0 {
		text += escapeMarkdown(fmt.Sprintf("Menu items: %d", catalogSize)) + "\n"
	}
	return text
}

// escapeMarkdown escapes special characters for MarkdownV2
func escapeMarkdown(text string) string {
	specialChars := []string{"\\", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "-", "=", "|", "{", "}", ".", "!"}
	escaped := text
	for _, char := range specialChars {
		escaped = strings.ReplaceAll(escaped, char, "\\"+char)
	}
	return escaped
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}

func (b *Bot) sendErrorMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send error message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
