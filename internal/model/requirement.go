package model

// Property names used in profile requirement rows.
const (
	PropertyReferenceDepth  = "rd"
	PropertyCoarseFragments = "cf"
)

// TextureRequirement rates a texture class for one SQI.
type TextureRequirement struct {
	CropID         string  `csv:"crop_id" json:"crop_id"`
	Crop           string  `csv:"crop,omitempty" json:"crop,omitempty"`
	InputLevel     int     `csv:"input_level" json:"input_level"`
	SQICode        int     `csv:"sqi_code" json:"sqi_code"`
	TextureClassID int     `csv:"text_class_id" json:"text_class_id"`
	TextureClass   string  `csv:"text_class,omitempty" json:"text_class,omitempty"`
	Score          float64 `csv:"score" json:"score"`
}

// PropertyRequirement is one step of a threshold table for a numeric soil
// property such as reference depth (rd) or coarse fragments (cf).
type PropertyRequirement struct {
	CropID       string  `csv:"crop_id" json:"crop_id"`
	Crop         string  `csv:"crop,omitempty" json:"crop,omitempty"`
	InputLevel   int     `csv:"input_level" json:"input_level"`
	SQICode      int     `csv:"sqi_code" json:"sqi_code"`
	Property     string  `csv:"property" json:"property"`
	Value        float64 `csv:"property_value" json:"property_value"`
	Score        float64 `csv:"score" json:"score"`
	Unit         string  `csv:"unit,omitempty" json:"unit,omitempty"`
	PropertyID   int     `csv:"property_id,omitempty" json:"property_id,omitempty"`
	PropertyText string  `csv:"property_text,omitempty" json:"property_text,omitempty"`
}

// PhaseRequirement rates a soil phase for one SQI.
type PhaseRequirement struct {
	CropID     string  `csv:"crop_id" json:"crop_id"`
	Crop       string  `csv:"crop,omitempty" json:"crop,omitempty"`
	InputLevel int     `csv:"input_level" json:"input_level"`
	SQICode    int     `csv:"sqi_code" json:"sqi_code"`
	Property   string  `csv:"property,omitempty" json:"property,omitempty"`
	PhaseID    int     `csv:"phase_id" json:"phase_id"`
	Phase      string  `csv:"phase,omitempty" json:"phase,omitempty"`
	Score      float64 `csv:"score" json:"score"`
}

// DrainageRequirement rates a drainage class for one SQI.
type DrainageRequirement struct {
	CropID     string  `csv:"crop_id" json:"crop_id"`
	Crop       string  `csv:"crop,omitempty" json:"crop,omitempty"`
	InputLevel int     `csv:"input_level" json:"input_level"`
	SQICode    int     `csv:"sqi_code" json:"sqi_code"`
	PSCL       string  `csv:"pscl,omitempty" json:"pscl,omitempty"`
	DrainNum   int     `csv:"drain_num" json:"drain_num"`
	Drain      string  `csv:"drain,omitempty" json:"drain,omitempty"`
	Score      float64 `csv:"score" json:"score"`
}

// RequirementRows bundles the four requirement tables for a crop.
type RequirementRows struct {
	Texture  []TextureRequirement  `json:"texture"`
	Property []PropertyRequirement `json:"property"`
	Phase    []PhaseRequirement    `json:"phase"`
	Drainage []DrainageRequirement `json:"drainage"`
}

// Len returns the total number of rows across all tables.
func (r RequirementRows) Len() int {
	return len(r.Texture) + len(r.Property) + len(r.Phase) + len(r.Drainage)
}
