package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gabriel-vasile/mimetype"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageCounter はPDFのページ数を数えます。
type PageCounter interface {
	PageCount(rs io.ReadSeeker) (int, error)
}

// PageCounterFunc は関数を PageCounter として扱うためのアダプタです。
type PageCounterFunc func(rs io.ReadSeeker) (int, error)

func (f PageCounterFunc) PageCount(rs io.ReadSeeker) (int, error) {
	return f(rs)
}

// pdfcpuCounter は pdfcpu でページ数を数えます。
// pdfcpu は処理中に Configuration を書き換えるため、呼び出しごとに生成します。
type pdfcpuCounter struct{}

func newPdfcpuCounter() pdfcpuCounter {
	// ユーザー設定ディレクトリへの書き込みを避ける
	pdfapi.DisableConfigDir()
	return pdfcpuCounter{}
}

func (pdfcpuCounter) PageCount(rs io.ReadSeeker) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return pdfapi.PageCount(rs, conf)
}

// Extractor はアップロードされたPDFからメタデータを取り出します。
type Extractor struct {
	counter PageCounter
	logger  *log.Logger
}

// NewExtractor は pdfcpu を使う Extractor を作成します。
func NewExtractor(logger *log.Logger) *Extractor {
	return NewExtractorWithCounter(newPdfcpuCounter(), logger)
}

// NewExtractorWithCounter は任意の PageCounter を使う Extractor を作成します。
func NewExtractorWithCounter(counter PageCounter, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.Default()
	}
	return &Extractor{counter: counter, logger: logger}
}

// Extract はPDFを解析し、ファイル名・サイズ・ページ数を返します。
// 解析失敗は種類を問わず PDF_PROCESSING_ERROR にまとめます。
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) (*Metadata, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := e.countPages(data)
	if err != nil {
		e.logger.Printf("pdf parse failed file=%q bytes=%d detected=%s: %v",
			filename, len(data), mimetype.Detect(data).String(), err)
		return nil, newError(CodeProcessingFailed, fmt.Sprintf("Error processing PDF: %v", err), err)
	}

	return &Metadata{
		Filename:  filename,
		Size:      FormatSizeMB(int64(len(data))),
		PageCount: pages,
	}, nil
}

func (e *Extractor) countPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("parser panic: %v", r)
		}
	}()

	pages, err = e.counter.PageCount(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	if pages < 0 {
		return 0, fmt.Errorf("invalid page count %d", pages)
	}
	return pages, nil
}
