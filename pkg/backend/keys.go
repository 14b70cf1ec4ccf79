package backend

import (
	"github.com/papercomputeco/manifest/pkg/request"
)

// Defaults recorded in these tables are the vendor's own documented defaults.
// They are informational; normalization never fills them in.

var openaiKeys = request.KeyMap{
	request.FieldEngine:           {Name: "model", Default: "text-davinci-003"},
	request.FieldTemperature:      {Name: "temperature", Default: 1.0},
	request.FieldMaxTokens:        {Name: "max_tokens", Default: 10},
	request.FieldN:                {Name: "n", Default: 1},
	request.FieldTopP:             {Name: "top_p", Default: 1.0},
	request.FieldTopK:             {Name: "best_of", Default: 1},
	request.FieldLogprobs:         {Name: "logprobs", Default: nil},
	request.FieldStopSequences:    {Name: "stop", Default: nil},
	request.FieldPresencePenalty:  {Name: "presence_penalty", Default: 0.0},
	request.FieldFrequencyPenalty: {Name: "frequency_penalty", Default: 0.0},
}

var openaiChatKeys = request.KeyMap{
	request.FieldPrompt:           {Name: "messages", Default: nil},
	request.FieldEngine:           {Name: "model", Default: "gpt-3.5-turbo"},
	request.FieldTemperature:      {Name: "temperature", Default: 1.0},
	request.FieldMaxTokens:        {Name: "max_tokens", Default: 10},
	request.FieldN:                {Name: "n", Default: 1},
	request.FieldTopP:             {Name: "top_p", Default: 1.0},
	request.FieldStopSequences:    {Name: "stop", Default: nil},
	request.FieldPresencePenalty:  {Name: "presence_penalty", Default: 0.0},
	request.FieldFrequencyPenalty: {Name: "frequency_penalty", Default: 0.0},
}

var openaiEmbeddingKeys = request.KeyMap{
	request.FieldPrompt: {Name: "input", Default: nil},
	request.FieldEngine: {Name: "model", Default: "text-embedding-ada-002"},
}

var azureOpenAIKeys = openaiKeys

var cohereKeys = request.KeyMap{
	request.FieldEngine:           {Name: "model", Default: "xlarge"},
	request.FieldMaxTokens:        {Name: "max_tokens", Default: 20},
	request.FieldTemperature:      {Name: "temperature", Default: 0.75},
	request.FieldN:                {Name: "num_generations", Default: 1},
	request.FieldTopK:             {Name: "k", Default: 0},
	request.FieldTopP:             {Name: "p", Default: 0.75},
	request.FieldFrequencyPenalty: {Name: "frequency_penalty", Default: 0.0},
	request.FieldPresencePenalty:  {Name: "presence_penalty", Default: 0.0},
	request.FieldStopSequences:    {Name: "stop_sequences", Default: nil},
}

var ai21Keys = request.KeyMap{
	request.FieldEngine:        {Name: "engine", Default: "j2-large"},
	request.FieldTemperature:   {Name: "temperature", Default: 0.7},
	request.FieldMaxTokens:     {Name: "maxTokens", Default: 40},
	request.FieldTopK:          {Name: "topKReturn", Default: 0},
	request.FieldN:             {Name: "numResults", Default: 1},
	request.FieldTopP:          {Name: "topP", Default: 1.0},
	request.FieldStopSequences: {Name: "stopSequences", Default: nil},
}

var huggingFaceKeys = request.KeyMap{
	request.FieldTemperature:       {Name: "temperature", Default: 1.0},
	request.FieldMaxTokens:         {Name: "max_tokens", Default: 10},
	request.FieldN:                 {Name: "n", Default: 1},
	request.FieldTopP:              {Name: "top_p", Default: 1.0},
	request.FieldTopK:              {Name: "top_k", Default: 50},
	request.FieldRepetitionPenalty: {Name: "repetition_penalty", Default: 1.0},
	request.FieldLengthPenalty:     {Name: "length_penalty", Default: 1.0},
	request.FieldDoSample:          {Name: "do_sample", Default: true},
	request.FieldNumBeams:          {Name: "num_beams", Default: 1},
}

var diffuserKeys = request.KeyMap{
	request.FieldNumInferenceSteps: {Name: "num_inference_steps", Default: 50},
	request.FieldHeight:            {Name: "height", Default: 512},
	request.FieldWidth:             {Name: "width", Default: 512},
	request.FieldN:                 {Name: "num_images_per_prompt", Default: 1},
	request.FieldGuidanceScale:     {Name: "guidance_scale", Default: 7.5},
	request.FieldEta:               {Name: "eta", Default: 0.0},
}

var tomaKeys = request.KeyMap{
	request.FieldEngine:            {Name: "model", Default: "gpt-j-6b"},
	request.FieldTemperature:       {Name: "temperature", Default: 0.1},
	request.FieldMaxTokens:         {Name: "max_tokens", Default: 32},
	request.FieldN:                 {Name: "n", Default: 1},
	request.FieldTopP:              {Name: "top_p", Default: 0.9},
	request.FieldTopK:              {Name: "top_k", Default: 40},
	request.FieldStopSequences:     {Name: "stop", Default: nil},
	request.FieldRepetitionPenalty: {Name: "repetition_penalty", Default: 1.0},
}

var dummyKeys = request.KeyMap{
	request.FieldEngine:      {Name: "model", Default: "dummy"},
	request.FieldTemperature: {Name: "temperature", Default: 0.0},
	request.FieldMaxTokens:   {Name: "max_tokens", Default: 10},
	request.FieldN:           {Name: "n", Default: 1},
}
