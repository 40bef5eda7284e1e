// ABOUTME: JSON message types for the WebSocket control protocol
// ABOUTME: Commands create, tune and free playback voices remotely
package control

// Message is the envelope for every control frame in both directions.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// PlayRequest starts a new voice. Zero fields take engine defaults.
type PlayRequest struct {
	Wave            string  `json:"wave,omitempty"`
	FrequencyHz     float64 `json:"frequency_hz,omitempty"`
	DelaySeconds    float64 `json:"delay_seconds,omitempty"`
	MaxDelaySeconds float64 `json:"max_delay_seconds,omitempty"`
	OutputGain      float64 `json:"output_gain,omitempty"`

	Comb *CombRequest `json:"comb,omitempty"`

	Vibrato         bool    `json:"vibrato,omitempty"`
	ModFreqHz       float64 `json:"mod_freq_hz,omitempty"`
	ModDepthSeconds float64 `json:"mod_depth_seconds,omitempty"`
}

// CombRequest enables the comb filter stage of a new voice.
type CombRequest struct {
	Type         string  `json:"type"` // "fir" or "iir"
	DelaySeconds float64 `json:"delay_seconds,omitempty"`
	Gain         float64 `json:"gain,omitempty"`
}

// FreeRequest releases a voice by handle id.
type FreeRequest struct {
	Handle string `json:"handle"`
}

// ParamRequest updates one live parameter on a voice.
type ParamRequest struct {
	Handle string  `json:"handle"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
}

// PlayResponse acknowledges a started voice.
type PlayResponse struct {
	Handle string `json:"handle"`
}

// ErrorResponse reports a failed command.
type ErrorResponse struct {
	Error string `json:"error"`
}

// VoiceStatus describes one live voice in a status response.
type VoiceStatus struct {
	Handle    string             `json:"handle"`
	State     string             `json:"state"`
	Blocks    uint64             `json:"blocks"`
	Underruns uint64             `json:"underruns"`
	Params    map[string]float64 `json:"params"`
}

// StatusResponse lists all live voices.
type StatusResponse struct {
	Voices []VoiceStatus `json:"voices"`
}
