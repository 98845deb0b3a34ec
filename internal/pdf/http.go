package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/pdf-upload-api/internal/middleware"
)

// FileField はアップロードファイルを受け取るフォームフィールド名です。
const FileField = "file"

var (
	errMissingFile   = errors.New("multipart file field not found")
	errMalformedBody = errors.New("malformed multipart body")
)

// MetadataExtractor はPDFのバイト列からメタデータを取り出すサービスが実装します。
type MetadataExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*Metadata, error)
}

// UploadHandler は POST /upload のハンドラーを返します。
//
// ボディは一時ファイルを作らずにストリームで読み、file パートは
// rules.MaxFileSize+1 バイトまでしかメモリに載せません。
func UploadHandler(extractor MetadataExtractor, rules Rules, logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		requestID := middleware.RequestIDFrom(c)

		file, err := readUploadedFile(c.Request, rules.MaxFileSize)
		if err != nil {
			logger.Printf("upload rejected request=%s: %v", requestID, err)
			respondWithError(c, err)
			return
		}

		if err := rules.Validate(file.ContentType, file.Filename, int64(len(file.Data))); err != nil {
			logger.Printf("upload rejected request=%s file=%q content_type=%q: %v",
				requestID, file.Filename, file.ContentType, err)
			respondWithError(c, err)
			return
		}

		meta, err := extractor.Extract(c.Request.Context(), file.Data, file.Filename)
		if err != nil {
			logger.Printf("upload failed request=%s file=%q: %v", requestID, file.Filename, err)
			respondWithError(c, err)
			return
		}

		logger.Printf("upload processed request=%s file=%q size=%q pages=%d",
			requestID, meta.Filename, meta.Size, meta.PageCount)
		c.JSON(http.StatusOK, newUploadResponse(meta))
	}
}

// readUploadedFile は最初の file パートを読み込みます。
// 上限を超えた分は読まないため、len(Data) が limit+1 なら上限超過です。
func readUploadedFile(r *http.Request, limit int64) (*UploadedFile, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMissingFile, err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingFile
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}

		filename, isFile := partFilename(part)
		if part.FormName() != FileField || !isFile {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, limit+1))
		_ = part.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
		}

		return &UploadedFile{
			Filename:    filename,
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}

// partFilename は Content-Disposition の filename をディレクトリ成分も含めてそのまま返します。
// filename パラメータがあればファイルパートとみなします（空文字でも拡張子検査に回す）。
// multipart.Part.FileName はベース名に切り詰めるため、解析できたときはそちらを使いません。
func partFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err == nil {
		name, ok := params["filename"]
		return name, ok
	}
	name := part.FileName()
	return name, name != ""
}

func respondWithError(c *gin.Context, err error) {
	var apiErr *Error
	switch {
	case errors.As(err, &apiErr):
		c.JSON(apiErr.Status(), ErrorResponse{Detail: apiErr.Message})
	case errors.Is(err, errMissingFile):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Detail: "Field required: " + FileField})
	case errors.Is(err, errMalformedBody):
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "There was an error parsing the body"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal Server Error"})
	}
}
