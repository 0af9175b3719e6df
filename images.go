package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 80

// preparedUpload is an upload body ready for the object store.
type preparedUpload struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	Resized     bool
}

// prepareUpload reads an uploaded file and, when it is an image the decoders
// know that is wider than maxWidth, scales it down and re-encodes it as JPEG.
// Every other file is passed through unchanged. maxWidth <= 0 disables
// scaling.
func prepareUpload(src io.Reader, declaredType string, maxWidth int) (preparedUpload, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return preparedUpload{}, fmt.Errorf("read upload: %w", err)
	}
	out := preparedUpload{Data: data, ContentType: uploadContentType(data, declaredType)}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return out, nil
	}
	out.Width, out.Height = cfg.Width, cfg.Height
	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return out, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Header parsed but the pixels did not; send the original bytes.
		return out, nil
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return preparedUpload{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return preparedUpload{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       maxWidth,
		Height:      newH,
		Resized:     true,
	}, nil
}

// uploadContentType prefers the declared type and falls back to sniffing.
func uploadContentType(data []byte, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
