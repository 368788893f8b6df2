package inference

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// Failure modes a transcribe call can return.
var (
	ErrModelNotLoaded = errors.New("inference: no model loaded")
	ErrInvalidAudio   = errors.New("inference: empty or NaN-containing pcm")
	ErrCancelled      = errors.New("inference: decode cancelled")
)

// DecodeFailedError wraps an engine-internal whisper.cpp failure.
type DecodeFailedError struct {
	Err error
}

func (e *DecodeFailedError) Error() string { return fmt.Sprintf("inference: decode failed: %v", e.Err) }
func (e *DecodeFailedError) Unwrap() error  { return e.Err }

// Transcript is the result of a successful (possibly empty) decode.
type Transcript struct {
	Text             string
	DetectedLanguage string
	Duration         float64 // seconds, pcm length / sample rate
}

const sampleRate = 16000

// loadedModel pairs a whisper.Model with a WaitGroup counting the
// transcribe calls currently borrowing it, so Load can release the
// previous model only once every in-flight decode against it has
// returned, so a model swap never closes a model still in use.
type loadedModel struct {
	model      whisper.Model
	descriptor ModelDescriptor
	refs       sync.WaitGroup
}

// Engine wraps a local whisper.cpp model: load/swap, cancellable
// decode, greedy deterministic decoding. Grounded on
// _examples/other_examples/chaz8081-gostt-writer__transcribe.go's
// whisper.New/model.NewContext/ctx.Process/ctx.NextSegment pattern,
// generalized to support atomic swap and mid-decode cancellation.
type Engine struct {
	current atomic.Pointer[loadedModel]
	abort   atomic.Bool
}

// New returns an Engine with no model loaded; transcribe calls fail
// with ErrModelNotLoaded until Load succeeds.
func New() *Engine {
	return &Engine{}
}

// Load opens desc's on-disk file and atomically swaps it in as the
// current model. The previously loaded model, if any, is closed only
// after every transcribe call still borrowing it has returned, so a
// concurrent transcribe always sees either the fully-old or the
// fully-new model, never a half-loaded state.
func (e *Engine) Load(desc ModelDescriptor) error {
	model, err := whisper.New(desc.Path)
	if err != nil {
		return fmt.Errorf("inference: load %q: %w", desc.Path, err)
	}
	next := &loadedModel{model: model, descriptor: desc}
	prev := e.current.Swap(next)
	if prev != nil {
		go func() {
			prev.refs.Wait()
			prev.model.Close()
		}()
	}
	return nil
}

// Cancel requests the in-flight decode, if any, to abort at the next
// granule boundary. transcribe then returns ErrCancelled. Safe to call
// with no decode in flight; Transcribe clears the flag when it starts,
// so such a call has no effect on the next decode.
func (e *Engine) Cancel() {
	e.abort.Store(true)
}

// Transcribe decodes pcm (mono 16kHz float32 samples) to text. When
// language is empty, the model's own language ID is used; otherwise
// it is forced. Silence-only input (no segments produced) returns an
// empty Transcript, not an error.
func (e *Engine) Transcribe(pcm []float32, language string) (Transcript, error) {
	lm := e.current.Load()
	if lm == nil {
		return Transcript{}, ErrModelNotLoaded
	}
	lm.refs.Add(1)
	defer lm.refs.Done()

	if err := validatePCM(pcm); err != nil {
		return Transcript{}, err
	}

	e.abort.Store(false)

	ctx, err := lm.model.NewContext()
	if err != nil {
		return Transcript{}, &DecodeFailedError{Err: err}
	}
	if language != "" && language != "auto" {
		_ = ctx.SetLanguage(language)
	}

	// encoderBegin is polled by whisper.cpp between processing steps;
	// returning false aborts the decode at the next granule boundary.
	encoderBegin := func() bool {
		return !e.abort.Load()
	}

	if err := ctx.Process(pcm, encoderBegin, nil, nil); err != nil {
		if e.abort.Load() {
			return Transcript{}, ErrCancelled
		}
		return Transcript{}, &DecodeFailedError{Err: err}
	}
	if e.abort.Load() {
		return Transcript{}, ErrCancelled
	}

	var segments []string
	for {
		seg, err := ctx.NextSegment()
		if err != nil {
			break
		}
		segments = append(segments, seg.Text)
	}

	return Transcript{
		Text:             strings.TrimSpace(strings.Join(segments, " ")),
		DetectedLanguage: ctx.DetectedLanguage(),
		Duration:         float64(len(pcm)) / sampleRate,
	}, nil
}

func validatePCM(pcm []float32) error {
	if len(pcm) == 0 {
		return ErrInvalidAudio
	}
	for _, s := range pcm {
		if math.IsNaN(float64(s)) {
			return ErrInvalidAudio
		}
	}
	return nil
}
