package telegram

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/service"
	"vocabdetect/internal/vocab"
)

const (
	msgStart = `👋 안녕하세요! I translate what I see into Korean.

📸 Send me a photo and I will list the objects in it with their Korean names.

📋 Commands:
/help — how it works
/words — how many words I know`

	msgHelp = `ℹ️ How to use the bot:

1️⃣ Send a photo
2️⃣ The detector finds up to 10 objects
3️⃣ You get each object in Korean, its romanization and the confidence

💡 Tips:
• Good lighting helps
• Keep objects fully inside the frame`

	msgSendPhoto       = "📸 Please send a photo."
	msgUnknownCommand  = "❓ Unknown command. Use /help."
	msgProcessing      = "⏳ Looking at your photo..."
	msgNothingFound    = "🔍 No objects detected. Try another photo."
	msgProcessingError = "⚠️ Could not process the image. Please try again."

	downloadTimeout = 30 * time.Second
)

// Detector runs detection on raw image bytes.
type Detector interface {
	DetectBytes(ctx context.Context, source string, raw []byte, annotate bool) (*dto.DetectResponse, error)
}

// Translations exposes the current table snapshot.
type Translations interface {
	Snapshot() *vocab.Snapshot
}

// sender is the part of tgbotapi.BotAPI the bot needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers photos with the Korean names of the objects in them.
type Bot struct {
	api       *tgbotapi.BotAPI
	sender    sender
	download  func(ctx context.Context, fileID string) ([]byte, error)
	detection Detector
	table     Translations
	logger    *logger.Logger
}

// NewBot authorizes with the token and returns a bot ready to Run.
func NewBot(token string, detection Detector, table Translations, logger *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}

	logger.Info("Authorized on account %s", api.Self.UserName)

	b := &Bot{
		api:       api,
		sender:    api,
		detection: detection,
		table:     table,
		logger:    logger,
	}
	b.download = b.downloadFile
	return b, nil
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)
	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)
	case "words":
		snapshot := b.table.Snapshot()
		b.sendMessage(msg.Chat.ID, fmt.Sprintf("📖 I know %d words (%d with romanization).", snapshot.Len(), snapshot.RomanizationLen()))
	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	b.sendMessage(msg.Chat.ID, msgProcessing)

	// largest size is last
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.download(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	resp, err := b.detection.DetectBytes(ctx, service.SourceTelegram, imageData, true)
	if err != nil {
		b.logger.Error("Detection failed for chat %d: %v", msg.Chat.ID, err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	b.sendMessage(msg.Chat.ID, FormatResult(resp))

	if resp.AnnotatedImage == "" {
		return
	}
	annotated, err := base64.StdEncoding.DecodeString(resp.AnnotatedImage)
	if err != nil {
		b.logger.Error("Failed to decode annotated image: %v", err)
		return
	}
	upload := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "annotated.jpg", Bytes: annotated})
	if _, err := b.sender.Send(upload); err != nil {
		b.logger.Error("Error sending photo: %v", err)
	}
}

// FormatResult renders the reply text, one line per returned object.
func FormatResult(resp *dto.DetectResponse) string {
	if resp == nil || len(resp.Objects) == 0 {
		return msgNothingFound
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 Found %d objects", resp.TotalDetected)
	if resp.TotalDetected > len(resp.Objects) {
		fmt.Fprintf(&sb, ", showing the top %d", len(resp.Objects))
	}
	sb.WriteString(":\n")

	for _, obj := range resp.Objects {
		sb.WriteString("\n• ")
		sb.WriteString(obj.Korean)
		if obj.Romanization != "" {
			fmt.Fprintf(&sb, " (%s)", obj.Romanization)
		}
		fmt.Fprintf(&sb, " — %s %d%%", obj.Name, int(math.Round(obj.Confidence*100)))
	}
	return sb.String()
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Error sending message: %v", err)
	}
}
