// Package dataset stores self-play training examples as zstd-compressed JSON
// lines, one example per line.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/klauspost/compress/zstd"
)

var ErrClosed = errors.New("dataset: writer closed")

// Single training sample: encoded position, target visit policy and the
// game outcome from the side to move
type Example struct {
	State  [uttt.FeatureSize]float32 `json:"state"`
	Policy [mcts.PolicySize]float32  `json:"policy"`
	Value  float32                   `json:"value"`
}

// Flatten one self-play game into examples
func FromExamples(e *mcts.Examples) []Example {
	out := make([]Example, e.Len())
	for i := range out {
		copy(out[i].State[:], e.States[i].Flat())
		out[i].Policy = e.Policies[i]
		out[i].Value = e.Values[i]
	}
	return out
}

type Writer struct {
	encoder *zstd.Encoder
	json    *json.Encoder
	count   int
}

// Wrap w, closing the Writer flushes the compressed stream but does not close w
func NewWriter(w io.Writer) (*Writer, error) {
	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Writer{encoder: encoder, json: json.NewEncoder(encoder)}, nil
}

func (w *Writer) Write(examples ...Example) error {
	if w.encoder == nil {
		return ErrClosed
	}
	for i := range examples {
		if err := w.json.Encode(&examples[i]); err != nil {
			return fmt.Errorf("encode example %d: %w", w.count, err)
		}
		w.count++
	}
	return nil
}

// Number of examples written so far
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Close() error {
	if w.encoder == nil {
		return nil
	}
	err := w.encoder.Close()
	w.encoder = nil
	return err
}

type Reader struct {
	decoder *zstd.Decoder
	json    *json.Decoder
}

func NewReader(r io.Reader) (*Reader, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Reader{decoder: decoder, json: json.NewDecoder(decoder)}, nil
}

// Read the next example, io.EOF after the last one
func (r *Reader) Next() (Example, error) {
	var ex Example
	if err := r.json.Decode(&ex); err != nil {
		if errors.Is(err, io.EOF) {
			return ex, io.EOF
		}
		return ex, fmt.Errorf("decode example: %w", err)
	}
	return ex, nil
}

// Read all remaining examples
func (r *Reader) ReadAll() ([]Example, error) {
	var out []Example
	for {
		ex, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, ex)
	}
}

func (r *Reader) Close() {
	r.decoder.Close()
}
