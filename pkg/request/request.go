package request

import "slices"

// Field names. These are the internal names used in overrides and as
// allow-list keys.
const (
	FieldPrompt        = "prompt"
	FieldEngine        = "engine"
	FieldN             = "n"
	FieldClientTimeout = "client_timeout"
	FieldRunID         = "run_id"
	FieldBatchSize     = "batch_size"

	FieldTemperature       = "temperature"
	FieldMaxTokens         = "max_tokens"
	FieldMaxNewTokens      = "max_new_tokens"
	FieldTopP              = "top_p"
	FieldTopK              = "top_k"
	FieldLogprobs          = "logprobs"
	FieldStopSequences     = "stop_sequences"
	FieldNumBeams          = "num_beams"
	FieldDoSample          = "do_sample"
	FieldRepetitionPenalty = "repetition_penalty"
	FieldLengthPenalty     = "length_penalty"
	FieldPresencePenalty   = "presence_penalty"
	FieldFrequencyPenalty  = "frequency_penalty"

	FieldNumInferenceSteps = "num_inference_steps"
	FieldHeight            = "height"
	FieldWidth             = "width"
	FieldGuidanceScale     = "guidance_scale"
	FieldEta               = "eta"
)

// Defaults
const (
	DefaultEngine        = "text-ada-001"
	DefaultN             = 1
	DefaultClientTimeout = 120
	DefaultBatchSize     = 8

	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 100
	DefaultMaxNewTokens      = 20
	DefaultTopP              = 1.0
	DefaultTopK              = 50
	DefaultNumBeams          = 1
	DefaultRepetitionPenalty = 1.0
	DefaultLengthPenalty     = 1.0

	DefaultNumInferenceSteps = 50
	DefaultHeight            = 512
	DefaultWidth             = 512
	DefaultGuidanceScale     = 7.5
)

// Param is one field of a descriptor. Set is false when the field is null.
type Param struct {
	Name  string
	Value any
	Set   bool
}

// Descriptor is implemented by every request kind.
type Descriptor interface {
	// Kind returns the request kind.
	Kind() Kind

	// Params returns the descriptor's fields in declaration order.
	Params() []Param
}

// Request holds the fields shared by every request kind.
type Request struct {
	Prompt        Prompt
	Engine        string
	N             int
	ClientTimeout int
	RunID         *string
	BatchSize     int
}

// LMRequest is a text generation request.
type LMRequest struct {
	Request

	Temperature       float64
	MaxTokens         int
	MaxNewTokens      int
	TopP              float64
	TopK              int
	Logprobs          *int
	StopSequences     []string
	NumBeams          int
	DoSample          bool
	RepetitionPenalty float64
	LengthPenalty     float64
	PresencePenalty   float64
	FrequencyPenalty  float64
}

// LMChatRequest is a generation request whose prompt is a Messages conversation.
type LMChatRequest struct {
	LMRequest
}

// LMScoreRequest has the generation shape but targets a scoring endpoint.
type LMScoreRequest struct {
	LMRequest
}

// EmbeddingRequest is an embedding request.
type EmbeddingRequest struct {
	Request
}

// DiffusionRequest is an image diffusion request.
type DiffusionRequest struct {
	Request

	NumInferenceSteps int
	Height            int
	Width             int
	GuidanceScale     float64
	Eta               float64
}

// NewRequest returns a base request with every field at its default.
func NewRequest() Request {
	return Request{
		Prompt:        Text(""),
		Engine:        DefaultEngine,
		N:             DefaultN,
		ClientTimeout: DefaultClientTimeout,
		BatchSize:     DefaultBatchSize,
	}
}

func NewLMRequest() LMRequest {
	return LMRequest{
		Request:           NewRequest(),
		Temperature:       DefaultTemperature,
		MaxTokens:         DefaultMaxTokens,
		MaxNewTokens:      DefaultMaxNewTokens,
		TopP:              DefaultTopP,
		TopK:              DefaultTopK,
		NumBeams:          DefaultNumBeams,
		RepetitionPenalty: DefaultRepetitionPenalty,
		LengthPenalty:     DefaultLengthPenalty,
	}
}

func NewChatRequest() LMChatRequest {
	r := LMChatRequest{LMRequest: NewLMRequest()}
	r.Prompt = Messages{}
	return r
}

func NewScoreRequest() LMScoreRequest {
	return LMScoreRequest{LMRequest: NewLMRequest()}
}

func NewEmbeddingRequest() EmbeddingRequest {
	return EmbeddingRequest{Request: NewRequest()}
}

func NewDiffusionRequest() DiffusionRequest {
	return DiffusionRequest{
		Request:           NewRequest(),
		NumInferenceSteps: DefaultNumInferenceSteps,
		Height:            DefaultHeight,
		Width:             DefaultWidth,
		GuidanceScale:     DefaultGuidanceScale,
	}
}

func (r Request) Kind() Kind          { return KindRequest }
func (r LMRequest) Kind() Kind        { return KindCompletion }
func (r LMChatRequest) Kind() Kind    { return KindChat }
func (r LMScoreRequest) Kind() Kind   { return KindScore }
func (r EmbeddingRequest) Kind() Kind { return KindEmbedding }
func (r DiffusionRequest) Kind() Kind { return KindDiffusion }

func (r Request) Params() []Param {
	prompt := Param{Name: FieldPrompt}
	if r.Prompt != nil {
		prompt.Value = r.Prompt.Value()
		prompt.Set = true
	}

	return []Param{
		prompt,
		value(FieldEngine, r.Engine),
		value(FieldN, r.N),
		value(FieldClientTimeout, r.ClientTimeout),
		optional(FieldRunID, r.RunID),
		value(FieldBatchSize, r.BatchSize),
	}
}

func (r LMRequest) Params() []Param {
	stop := Param{Name: FieldStopSequences}
	if r.StopSequences != nil {
		stop.Value = slices.Clone(r.StopSequences)
		stop.Set = true
	}

	return append(r.Request.Params(),
		value(FieldTemperature, r.Temperature),
		value(FieldMaxTokens, r.MaxTokens),
		value(FieldMaxNewTokens, r.MaxNewTokens),
		value(FieldTopP, r.TopP),
		value(FieldTopK, r.TopK),
		optional(FieldLogprobs, r.Logprobs),
		stop,
		value(FieldNumBeams, r.NumBeams),
		value(FieldDoSample, r.DoSample),
		value(FieldRepetitionPenalty, r.RepetitionPenalty),
		value(FieldLengthPenalty, r.LengthPenalty),
		value(FieldPresencePenalty, r.PresencePenalty),
		value(FieldFrequencyPenalty, r.FrequencyPenalty),
	)
}

func (r DiffusionRequest) Params() []Param {
	return append(r.Request.Params(),
		value(FieldNumInferenceSteps, r.NumInferenceSteps),
		value(FieldHeight, r.Height),
		value(FieldWidth, r.Width),
		value(FieldGuidanceScale, r.GuidanceScale),
		value(FieldEta, r.Eta),
	)
}

// Fields returns the field names declared by kind, in declaration order.
func Fields(kind Kind) ([]string, error) {
	d, err := New(kind, nil)
	if err != nil {
		return nil, err
	}

	params := d.Params()
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}
	return names, nil
}

func value(name string, v any) Param {
	return Param{Name: name, Value: v, Set: true}
}

func optional[T any](name string, v *T) Param {
	if v == nil {
		return Param{Name: name}
	}
	return Param{Name: name, Value: *v, Set: true}
}
