package pdf

import (
	"math"
	"strconv"
	"strings"
)

// SuccessMessage は処理成功時のレスポンスメッセージです。
const SuccessMessage = "PDF processed successfully"

// UploadedFile はリクエスト中だけ保持するアップロード内容です。保存はしません。
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Metadata はPDFの基本メタデータを表します。
type Metadata struct {
	Filename  string `json:"filename"`
	Size      string `json:"size"`
	PageCount int    `json:"page_count"`
}

// UploadResponse は POST /upload 成功時のレスポンスです。
type UploadResponse struct {
	FileMeta Metadata `json:"file_meta"`
	Message  string   `json:"message"`
}

// ErrorResponse はすべての失敗で共通のレスポンスです。
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func newUploadResponse(meta *Metadata) UploadResponse {
	return UploadResponse{
		FileMeta: *meta,
		Message:  SuccessMessage,
	}
}

// FormatSizeMB はバイト数をMB単位（小数第2位で丸め）の表示文字列にします。
// 例: 1048576 → "1.0 MB", 1572864 → "1.5 MB", 123456 → "0.12 MB"
func FormatSizeMB(size int64) string {
	return formatMB(size) + " MB"
}

// formatMB は小数第2位で偶数丸め（0.125 → 0.12）し、最短表記で整数でも ".0" を残します。
func formatMB(size int64) string {
	mb := math.RoundToEven(float64(size)/(1024*1024)*100) / 100
	s := strconv.FormatFloat(mb, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
