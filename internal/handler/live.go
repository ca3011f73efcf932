package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"vocabdetect/internal/dto"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/service"
)

// LiveWebsocketHandler answers every {"image": ...} text frame with one
// detection result frame, or an {"error": ...} frame.
func LiveWebsocketHandler(detection *service.DetectionService, maxFrameBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer connection.Close()

		if maxFrameBytes > 0 {
			connection.SetReadLimit(maxFrameBytes)
		}
		logger.Info("Live client connected")

		for {
			_, message, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Live client disconnected normally")
				} else {
					logger.Error("Live client disconnected with error: %v", err)
				}
				return
			}

			var reply interface{}
			var req dto.DetectRequest
			if err := json.Unmarshal(message, &req); err != nil {
				reply = dto.ErrorResponse{Error: "No image data provided"}
			} else if resp, err := detection.Detect(r.Context(), service.SourceLive, req); err != nil {
				reply = dto.ErrorResponse{Error: liveError(err, logger)}
			} else {
				reply = resp
			}

			if err := connection.WriteJSON(reply); err != nil {
				logger.Error("Error sending live result: %v", err)
				return
			}
		}
	}
}

func liveError(err error, logger *logger.Logger) string {
	switch {
	case errors.Is(err, service.ErrNoImage):
		return "No image data provided"
	case errors.Is(err, service.ErrInvalidImage):
		return "Failed to decode image"
	default:
		logger.Error("Error in live detection: %v", err)
		return err.Error()
	}
}
