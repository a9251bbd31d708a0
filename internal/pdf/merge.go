// Package pdf wraps the PDF capabilities the backend needs: page-level
// merging of uploaded documents and rendering of settlement statements.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	ErrMerge        = errors.New("the PDF documents could not be merged")
	ErrMergeTimeout = errors.New("merging the PDF documents timed out")
	ErrMergeNoInput = errors.New("there are no PDF documents to merge")
)

// Merger combines multiple PDF payloads into a single document,
// concatenating all pages in the order the payloads are passed in.
type Merger interface {
	Merge(ctx context.Context, payloads [][]byte) ([]byte, error)
}

// NewMerger returns the pdfcpu backed Merger.
func NewMerger() Merger {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	return &merger{conf: conf}
}

type merger struct {
	conf *model.Configuration
}

type mergeResult struct {
	payload []byte
	err     error
}

// Merge implements Merger.
//
// pdfcpu has no context support, so the merge runs in its own goroutine
// and the result is dropped when the context expires first.
func (m *merger) Merge(ctx context.Context, payloads [][]byte) ([]byte, error) {
	if len(payloads) == 0 {
		return nil, ErrMergeNoInput
	}

	readers := make([]io.ReadSeeker, 0, len(payloads))
	for _, payload := range payloads {
		if len(payload) == 0 {
			return nil, ErrMergeNoInput
		}

		readers = append(readers, bytes.NewReader(payload))
	}

	results := make(chan mergeResult, 1)
	go func() {
		var buf bytes.Buffer
		err := api.MergeRaw(readers, &buf, false, m.conf)
		if err != nil {
			results <- mergeResult{err: fmt.Errorf("%w: %s", ErrMerge, err.Error())}
			return
		}

		results <- mergeResult{payload: buf.Bytes()}
	}()

	select {
	case <-ctx.Done():
		return nil, ErrMergeTimeout
	case result := <-results:
		return result.payload, result.err
	}
}
