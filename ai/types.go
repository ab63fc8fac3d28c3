package ai

// EntityTypes defines the categories the extraction prompt asks the model
// to choose from when classifying named entities in product text.
var EntityTypes = []string{
	"ingredient",
	"material",
	"component",
	"spec",
	"feature",
	"certification",
	"allergen",
	"care",
}
