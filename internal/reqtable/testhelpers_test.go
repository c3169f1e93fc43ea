package reqtable

import (
	"github.com/sells-group/gaez-sqi/internal/model"
)

// sampleRows is a small MAIZ requirement set spanning input levels 1, 3, 4
// and 5, plus one row for another crop.
func sampleRows() model.RequirementRows {
	return model.RequirementRows{
		Texture: []model.TextureRequirement{
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 1, SQICode: 1, TextureClassID: 8, TextureClass: "loam", Score: 90},
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 3, SQICode: 3, TextureClassID: 8, TextureClass: "loam", Score: 100},
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 5, SQICode: 2, TextureClassID: 8, TextureClass: "loam", Score: 95},
			{CropID: "WHEA", Crop: "Wheat", InputLevel: 1, SQICode: 1, TextureClassID: 8, TextureClass: "loam", Score: 70},
		},
		Property: []model.PropertyRequirement{
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 4, SQICode: 3, Property: "rd", Value: 100, Score: 100, Unit: "cm"},
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 4, SQICode: 3, Property: "rd", Value: 50, Score: 70, Unit: "cm"},
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 4, SQICode: 3, Property: "cf", Value: 0, Score: 100, Unit: "%"},
		},
		Phase: []model.PhaseRequirement{
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 4, SQICode: 4, Property: "phase", PhaseID: 2, Phase: "petric", Score: 50},
		},
		Drainage: []model.DrainageRequirement{
			{CropID: "MAIZ", Crop: "Maize", InputLevel: 3, SQICode: 4, PSCL: "fine", DrainNum: 1, Drain: "VP", Score: 20},
		},
	}
}
