package pdf

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// ContentTypePDF は受け付ける唯一のMIMEタイプです。
	ContentTypePDF = "application/pdf"
	// MaxFileSize は受け付ける最大バイト数です（10MiB）。
	MaxFileSize = int64(10 * 1024 * 1024)
)

// Rules はアップロードの受付条件です。起動時に一度だけ組み立て、以後は変更しません。
type Rules struct {
	AllowedContentTypes []string
	Extension           string
	MaxFileSize         int64
}

// DefaultRules は application/pdf・.pdf・10MiB の受付条件を返します。
// 拡張子は mimetype のレジストリから引きます。
func DefaultRules() Rules {
	ext := ".pdf"
	if m := mimetype.Lookup(ContentTypePDF); m != nil && m.Extension() != "" {
		ext = m.Extension()
	}
	return Rules{
		AllowedContentTypes: []string{ContentTypePDF},
		Extension:           ext,
		MaxFileSize:         MaxFileSize,
	}
}

// Validate は Content-Type・拡張子・サイズの順に検査し、最初に違反したものを返します。
func (r Rules) Validate(contentType, filename string, size int64) error {
	if !slices.Contains(r.AllowedContentTypes, contentType) {
		return newError(CodeInvalidContentType,
			fmt.Sprintf("Invalid file type. Allowed types: %s", strings.Join(r.AllowedContentTypes, ", ")), nil)
	}

	if !strings.HasSuffix(strings.ToLower(filename), strings.ToLower(r.Extension)) {
		return newError(CodeInvalidExtension,
			fmt.Sprintf("File must have %s extension", r.Extension), nil)
	}

	if size > r.MaxFileSize {
		return newError(CodeFileTooLarge,
			fmt.Sprintf("File size exceeds the limit of %s MB", formatMB(r.MaxFileSize)), nil)
	}

	return nil
}
