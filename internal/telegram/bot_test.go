package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"path/filepath"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/model"
	"vocabdetect/internal/service"
	"vocabdetect/internal/vocab"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) texts() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

type fakeDetection struct {
	resp    *dto.DetectResponse
	err     error
	sources []string
	images  [][]byte
}

func (f *fakeDetection) DetectBytes(ctx context.Context, source string, raw []byte, annotate bool) (*dto.DetectResponse, error) {
	f.sources = append(f.sources, source)
	f.images = append(f.images, raw)
	return f.resp, f.err
}

func newTestBot(t *testing.T, detection Detector) (*Bot, *fakeSender) {
	t.Helper()
	dir := t.TempDir()
	table, err := vocab.Open(
		vocab.NewFileStore(filepath.Join(dir, "vocab.json")),
		vocab.NewFileStore(filepath.Join(dir, "roman.json")),
		logger.Discard(),
	)
	require.NoError(t, err)
	t.Cleanup(table.Close)

	s := &fakeSender{}
	return &Bot{
		sender:    s,
		detection: detection,
		table:     table,
		logger:    logger.Discard(),
		download: func(ctx context.Context, fileID string) ([]byte, error) {
			if fileID == "missing" {
				return nil, errors.New("not found")
			}
			return []byte("jpeg:" + fileID), nil
		},
	}, s
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 7},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func photo(fileIDs ...string) *tgbotapi.Message {
	msg := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}}
	for _, id := range fileIDs {
		msg.Photo = append(msg.Photo, tgbotapi.PhotoSize{FileID: id})
	}
	return msg
}

func cupResponse() *dto.DetectResponse {
	return &dto.DetectResponse{
		Success: true,
		Objects: []model.EnrichedDetection{
			{Name: "cup", Korean: "컵", Romanization: "keop", Confidence: 0.8734},
			{Name: "kettle", Korean: "kettle", Confidence: 0.51},
		},
		TotalDetected: 2,
	}
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, msgNothingFound, FormatResult(nil))
	assert.Equal(t, msgNothingFound, FormatResult(&dto.DetectResponse{Success: true}))

	text := FormatResult(cupResponse())
	assert.Equal(t, "🔎 Found 2 objects:\n\n• 컵 (keop) — cup 87%\n• kettle — kettle 51%", text)

	resp := cupResponse()
	resp.TotalDetected = 14
	assert.Contains(t, FormatResult(resp), "Found 14 objects, showing the top 2:")
}

func TestCommands(t *testing.T) {
	bot, s := newTestBot(t, &fakeDetection{})

	bot.handleMessage(context.Background(), command("/start"))
	bot.handleMessage(context.Background(), command("/words"))
	bot.handleMessage(context.Background(), command("/nope"))
	bot.handleMessage(context.Background(), &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: 7}})

	texts := s.texts()
	require.Len(t, texts, 4)
	assert.Equal(t, msgStart, texts[0])
	assert.Contains(t, texts[1], "I know 80 words")
	assert.Equal(t, msgUnknownCommand, texts[2])
	assert.Equal(t, msgSendPhoto, texts[3])
}

func TestPhotoUsesLargestSize(t *testing.T) {
	detection := &fakeDetection{resp: cupResponse()}
	bot, s := newTestBot(t, detection)

	bot.handleMessage(context.Background(), photo("small", "large"))

	require.Equal(t, [][]byte{[]byte("jpeg:large")}, detection.images)
	assert.Equal(t, []string{service.SourceTelegram}, detection.sources)
	texts := s.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, msgProcessing, texts[0])
	assert.Contains(t, texts[1], "컵 (keop)")
	assert.Len(t, s.sent, 2, "no photo without an annotated image")
}

func TestPhotoSendsAnnotatedImage(t *testing.T) {
	resp := cupResponse()
	resp.AnnotatedImage = base64.StdEncoding.EncodeToString([]byte("drawn"))
	bot, s := newTestBot(t, &fakeDetection{resp: resp})

	bot.handleMessage(context.Background(), photo("p"))

	require.Len(t, s.sent, 3)
	upload, ok := s.sent[2].(tgbotapi.PhotoConfig)
	require.True(t, ok)
	assert.Equal(t, int64(7), upload.ChatID)
	assert.Equal(t, tgbotapi.FileBytes{Name: "annotated.jpg", Bytes: []byte("drawn")}, upload.File)
}

func TestPhotoErrors(t *testing.T) {
	bot, s := newTestBot(t, &fakeDetection{err: errors.New("detector down")})

	bot.handleMessage(context.Background(), photo("missing"))
	bot.handleMessage(context.Background(), photo("p"))

	assert.Equal(t, []string{msgProcessing, msgProcessingError, msgProcessing, msgProcessingError}, s.texts())
}
