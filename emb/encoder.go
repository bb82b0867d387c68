// Package emb turns text into fixed-dimension sentence vectors using a
// transformer ONNX export (MiniLM-class) and its companion tokenizer.json.
// The model is loaded once at startup; after Init the encoder is read-only
// apart from an internal mutex serializing inference runs.
package emb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// Model graph names for sentence-transformer ONNX exports.
const (
	inputIDsName      = "input_ids"
	attentionMaskName = "attention_mask"
	tokenTypeIDsName  = "token_type_ids"
	outputName        = "last_hidden_state"
)

// Config holds the paths and limits for the encoder.
type Config struct {
	// OrtDLL optionally points at the ONNX Runtime shared library.
	OrtDLL        string
	ModelPath     string
	TokenizerPath string
	MaxSeqLen     int
}

// Encoder wraps a tokenizer and an ONNX Runtime session.
type Encoder struct {
	mu      sync.Mutex
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
	maxSeq  int
}

// Init loads the tokenizer and creates the inference session. It must
// complete before the first Encode call; a failure here means the process
// cannot serve any request.
func (e *Encoder) Init(cfg Config) error {
	if cfg.ModelPath == "" {
		return errors.New("model path is required")
	}
	if cfg.TokenizerPath == "" {
		return errors.New("tokenizer path is required")
	}
	if cfg.MaxSeqLen <= 0 {
		cfg.MaxSeqLen = 512
	}
	if cfg.OrtDLL != "" {
		ort.SetSharedLibraryPath(cfg.OrtDLL)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	tk, err := pretrained.FromFile(cfg.TokenizerPath)
	if err != nil {
		return fmt.Errorf("load tokenizer: %w", err)
	}
	tk.WithTruncation(&tokenizer.TruncationParams{MaxLength: cfg.MaxSeqLen})

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{inputIDsName, attentionMaskName, tokenTypeIDsName},
		[]string{outputName},
		nil,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	e.tk = tk
	e.session = session
	e.maxSeq = cfg.MaxSeqLen
	return nil
}

// Close releases the inference session. The process-wide ONNX Runtime
// environment stays up so other encoders keep working.
func (e *Encoder) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		_ = e.session.Destroy()
		e.session = nil
	}
	e.tk = nil
}

// Encode embeds a single text.
func (e *Encoder) Encode(text string) ([]float32, error) {
	vecs, err := e.EncodeBatch([]string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EncodeBatch embeds texts in one padded inference call, then applies
// attention-masked mean pooling and L2 normalization per item. One batch
// per request keeps the per-phrase overhead to tokenization only.
func (e *Encoder) EncodeBatch(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || e.tk == nil {
		return nil, errors.New("encoder is not initialized")
	}

	encodings := make([]*tokenizer.Encoding, len(texts))
	maxLen := 0
	for i, text := range texts {
		en, err := e.tk.EncodeSingle(text, true)
		if err != nil {
			return nil, fmt.Errorf("tokenize %q: %w", truncateForError(text), err)
		}
		if len(en.Ids) > e.maxSeq {
			en.Ids = en.Ids[:e.maxSeq]
			en.TypeIds = en.TypeIds[:e.maxSeq]
			en.AttentionMask = en.AttentionMask[:e.maxSeq]
		}
		encodings[i] = en
		if len(en.Ids) > maxLen {
			maxLen = len(en.Ids)
		}
	}
	if maxLen == 0 {
		return nil, errors.New("tokenizer produced no tokens")
	}

	n := len(texts)
	ids := make([]int64, n*maxLen)
	mask := make([]int64, n*maxLen)
	types := make([]int64, n*maxLen)
	for i, en := range encodings {
		base := i * maxLen
		for j, id := range en.Ids {
			ids[base+j] = int64(id)
			mask[base+j] = int64(en.AttentionMask[j])
			types[base+j] = int64(en.TypeIds[j])
		}
	}

	shape := ort.NewShape(int64(n), int64(maxLen))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, types)
	if err != nil {
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := e.session.Run([]ort.Value{idsTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("run inference: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("unexpected output tensor type")
	}
	defer out.Destroy()

	outShape := out.GetShape()
	if len(outShape) != 3 || int(outShape[0]) != n || int(outShape[1]) != maxLen {
		return nil, fmt.Errorf("unexpected output shape %v", outShape)
	}
	dims := int(outShape[2])
	hidden := out.GetData()

	vecs := make([][]float32, n)
	for i := range vecs {
		itemHidden := hidden[i*maxLen*dims : (i+1)*maxLen*dims]
		itemMask := mask[i*maxLen : (i+1)*maxLen]
		vecs[i] = l2Normalize(meanPool(itemHidden, itemMask, maxLen, dims))
	}
	return vecs, nil
}

func truncateForError(s string) string {
	const max = 32
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
