// Package imageenc turns uploaded image files into self-describing,
// text-safe data URIs for inline display and round-tripping through drafts.
package imageenc

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/kiwari-pos/console/internal/apperr"
)

// Errors returned by the encoder.
var (
	ErrEmpty    = fmt.Errorf("%w: image file is empty", apperr.ErrValidation)
	ErrTooLarge = fmt.Errorf("%w: image file is too large", apperr.ErrValidation)
	ErrNotImage = fmt.Errorf("%w: file is not an image", apperr.ErrValidation)
)

// Encoder encodes image files up to a fixed size.
type Encoder struct {
	maxBytes int64
}

// New creates an Encoder accepting files of at most maxBytes.
func New(maxBytes int64) *Encoder {
	return &Encoder{maxBytes: maxBytes}
}

// MaxBytes is the largest accepted file size.
func (e *Encoder) MaxBytes() int64 { return e.maxBytes }

// Encode reads r to the end and returns "data:<mime>;base64,<payload>".
// The MIME type is sniffed from the content, not taken from the file name.
func (e *Encoder) Encode(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > e.maxBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, e.maxBytes)
	}

	mime := mimetype.Detect(data).String()
	mime = strings.TrimSpace(strings.SplitN(mime, ";", 2)[0])
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// MediaType returns the MIME type of a data URI produced by Encode, or "" if
// uri is not a base64 data URI.
func MediaType(uri string) string {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return ""
	}
	mime, _, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return ""
	}
	return mime
}
