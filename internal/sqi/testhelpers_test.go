package sqi

import (
	"github.com/sells-group/gaez-sqi/internal/model"
)

// stubRows is a fixed requirement set for crop MAIZ covering input-level
// codes 1, 3, 4 and 5 for loam and clay.
func stubRows() model.RequirementRows {
	tex := func(level, sqi, class int, score float64) model.TextureRequirement {
		return model.TextureRequirement{CropID: "MAIZ", InputLevel: level, SQICode: sqi, TextureClassID: class, Score: score}
	}
	prop := func(sqi int, property string, value, score float64) model.PropertyRequirement {
		return model.PropertyRequirement{CropID: "MAIZ", InputLevel: 4, SQICode: sqi, Property: property, Value: value, Score: score}
	}
	return model.RequirementRows{
		Texture: []model.TextureRequirement{
			tex(1, SQINutrientAvailability, TextureLoam, 80),
			tex(1, SQINutrientAvailability, TextureClay, 60),
			tex(3, SQIRootingConditions, TextureLoam, 90),
			tex(3, SQIRootingConditions, TextureClay, 50),
			tex(4, SQIRootingConditions, TextureLoam, 85),
			tex(4, SQIRootingConditions, TextureClay, 55),
			tex(5, SQINutrientRetention, TextureLoam, 75),
			tex(5, SQINutrientRetention, TextureClay, 95),
		},
		// Deliberately unsorted.
		Property: []model.PropertyRequirement{
			prop(SQIRootingConditions, model.PropertyReferenceDepth, 0, 40),
			prop(SQIRootingConditions, model.PropertyReferenceDepth, 100, 100),
			prop(SQIRootingConditions, model.PropertyReferenceDepth, 50, 80),
			prop(SQIWorkability, model.PropertyReferenceDepth, 100, 100),
			prop(SQIWorkability, model.PropertyReferenceDepth, 50, 70),
			prop(SQIWorkability, model.PropertyReferenceDepth, 0, 30),
			prop(SQIRootingConditions, model.PropertyCoarseFragments, 0, 100),
			prop(SQIRootingConditions, model.PropertyCoarseFragments, 15, 70),
			prop(SQIRootingConditions, model.PropertyCoarseFragments, 35, 40),
			prop(SQIWorkability, model.PropertyCoarseFragments, 35, 50),
			prop(SQIWorkability, model.PropertyCoarseFragments, 15, 80),
			prop(SQIWorkability, model.PropertyCoarseFragments, 0, 100),
		},
		Phase: []model.PhaseRequirement{
			{CropID: "MAIZ", InputLevel: 4, SQICode: 4, PhaseID: 2, Score: 50},
		},
		Drainage: []model.DrainageRequirement{
			{CropID: "MAIZ", InputLevel: 3, SQICode: 4, DrainNum: 1, Score: 20},
			{CropID: "MAIZ", InputLevel: 4, SQICode: 4, DrainNum: 1, Score: 35},
		},
	}
}

// loamProfile is three loam layers with increasing coarse fragments and a
// 60 cm reference depth.
func loamProfile() model.SoilProfile {
	rd := 60.0
	return model.NewProfile("P1", []model.SoilLayer{
		{Texture: "loam", CoarseFragments: 5, BottomDepth: 20},
		{Texture: "Loam", CoarseFragments: 20, BottomDepth: 50},
		{Texture: "LOAM", CoarseFragments: 40, BottomDepth: 100},
	}, &rd)
}

func levelTables(lvl model.InputLevel) *Tables {
	codes, err := InputLevelCodes(lvl)
	if err != nil {
		panic(err)
	}
	return NewTables(stubRows(), codes)
}
