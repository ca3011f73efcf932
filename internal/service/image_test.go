package service

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	raw := pngBytes(t)
	plain := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "plain base64", input: plain},
		{name: "data url", input: "data:image/png;base64," + plain},
		{name: "unpadded", input: base64.RawStdEncoding.EncodeToString(raw)},
		{name: "empty", input: "", wantErr: ErrNoImage},
		{name: "whitespace", input: "   ", wantErr: ErrNoImage},
		{name: "not base64", input: "%%%not-base64%%%", wantErr: ErrInvalidImage},
		{name: "not an image", input: base64.StdEncoding.EncodeToString([]byte("hello world")), wantErr: ErrInvalidImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := DecodeImage(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, raw, got)
			require.Equal(t, "png", format)
		})
	}
}
