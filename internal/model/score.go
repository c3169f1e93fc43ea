package model

// InputLevel is the farming intensity tier: low, intermediate or high.
type InputLevel string

const (
	InputLevelLow          InputLevel = "L"
	InputLevelIntermediate InputLevel = "I"
	InputLevelHigh         InputLevel = "H"
)

// LayerScore holds the component scores computed for one layer.
type LayerScore struct {
	Index           int      `json:"index"`
	TextureClass    int      `json:"texture_class"`
	SQ1             *float64 `json:"sq1,omitempty"`
	SQ2             *float64 `json:"sq2,omitempty"`
	SQ3             float64  `json:"sq3"`
	SQ3Limiting     string   `json:"sq3_limiting"`
	SQ7             float64  `json:"sq7"`
	SQ7Limiting     string   `json:"sq7_limiting"`
	TextureScore    float64  `json:"texture_score"`     // SQI 3 texture rating
	CoarseFragScore float64  `json:"coarse_frag_score"` // SQI 3 cf rating
	SQ7CoarseScore  float64  `json:"sq7_coarse_frag_score"`
	Weight          float64  `json:"weight"`
}

// SQIScoreSet is the result of scoring one profile for one crop and input
// level. SQ1 is nil at high input; SQ2 is nil otherwise.
type SQIScoreSet struct {
	ProfileID    string       `json:"profile_id"`
	CropID       string       `json:"crop_id"`
	InputLevel   InputLevel   `json:"input_level"`
	WeightScheme int          `json:"weight_scheme"`
	SQ1          *float64     `json:"sq1"`
	SQ2          *float64     `json:"sq2"`
	SQ3          float64      `json:"sq3"`
	SQ7          float64      `json:"sq7"`
	SoilRating   float64      `json:"sr"`
	RDScoreSQ3   float64      `json:"rd_score_sq3"`
	RDScoreSQ7   float64      `json:"rd_score_sq7"`
	Layers       []LayerScore `json:"layers,omitempty"`
}
