// Package nn runs the policy/value network through ONNX Runtime.
package nn

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
	ort "github.com/yalue/onnxruntime_go"
)

var ErrNoModel = errors.New("nn: model path is empty")

type Config struct {
	ModelPath string `json:"path"`
	// Path to the onnxruntime shared library, empty means the platform default
	LibraryPath string `json:"library_path"`
	InputName   string `json:"input_name"`
	ValueName   string `json:"value_name"`
	LogitsName  string `json:"logits_name"`
}

func DefaultConfig() Config {
	return Config{
		InputName:  "x",
		ValueName:  "value",
		LogitsName: "logits",
	}
}

// Evaluator backed by an ONNX model with one input of shape (1, 2, 9, 9) and
// two outputs: logits (1, 81) and value (1, 1). Tensors are allocated once and
// bound to the session, Evaluate calls are serialized.
type ONNXEvaluator struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	logits  *ort.Tensor[float32]
	value   *ort.Tensor[float32]
}

var _ mcts.Evaluator = (*ONNXEvaluator)(nil)

// Initialize the onnxruntime environment (once per process) and load the model
func NewONNXEvaluator(cfg Config) (*ONNXEvaluator, error) {
	if cfg.ModelPath == "" {
		return nil, ErrNoModel
	}
	defaults := DefaultConfig()
	if cfg.InputName == "" {
		cfg.InputName = defaults.InputName
	}
	if cfg.ValueName == "" {
		cfg.ValueName = defaults.ValueName
	}
	if cfg.LogitsName == "" {
		cfg.LogitsName = defaults.LogitsName
	}

	if !ort.IsInitialized() {
		if cfg.LibraryPath != "" {
			absLibPath, err := filepath.Abs(cfg.LibraryPath)
			if err != nil {
				return nil, fmt.Errorf("nn: library path: %w", err)
			}
			ort.SetSharedLibraryPath(absLibPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("nn: initialize onnxruntime: %w", err)
		}
	}

	e := &ONNXEvaluator{}
	var err error
	if e.input, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 2, 9, 9)); err != nil {
		return nil, fmt.Errorf("nn: input tensor: %w", err)
	}
	if e.logits, err = ort.NewEmptyTensor[float32](ort.NewShape(1, mcts.PolicySize)); err != nil {
		e.Close()
		return nil, fmt.Errorf("nn: logits tensor: %w", err)
	}
	if e.value, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 1)); err != nil {
		e.Close()
		return nil, fmt.Errorf("nn: value tensor: %w", err)
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("nn: session options: %w", err)
	}
	defer opts.Destroy()

	e.session, err = ort.NewAdvancedSession(cfg.ModelPath,
		[]string{cfg.InputName}, []string{cfg.LogitsName, cfg.ValueName},
		[]ort.Value{e.input}, []ort.Value{e.logits, e.value}, opts)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("nn: load %s: %w", cfg.ModelPath, err)
	}

	log.Info().Str("model", cfg.ModelPath).Msg("onnx evaluator ready")
	return e, nil
}

// Run the network on given features
func (e *ONNXEvaluator) Evaluate(f *uttt.Features) (mcts.Prediction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.input.GetData(), f.Flat())
	if err := e.session.Run(); err != nil {
		return mcts.Prediction{}, fmt.Errorf("nn: run: %w", err)
	}

	return decode(e.logits.GetData(), e.value.GetData())
}

func decode(logits, value []float32) (mcts.Prediction, error) {
	var pred mcts.Prediction
	if len(logits) != mcts.PolicySize || len(value) != 1 {
		return pred, fmt.Errorf("%w: output shapes %d/%d", mcts.ErrBadPrediction, len(logits), len(value))
	}

	copy(pred.Logits[:], logits)
	pred.Value = value[0]
	return pred, pred.Validate()
}

// Release the session and its tensors
func (e *ONNXEvaluator) Close() {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[float32]{e.input, e.logits, e.value} {
		if t != nil {
			t.Destroy()
		}
	}
	e.input, e.logits, e.value = nil, nil, nil
}
