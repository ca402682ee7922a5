package flow

// Fixed wardrobe vocabulary the wizards choose from.

var Genders = []string{"Men", "Women"}

var skinToneColors = map[string][]string{
	"Fair":     {"Blue", "Black"},
	"Wheatish": {"Red", "Pink"},
	"Dusky":    {"White", "Grey"},
	"Dark":     {"Green", "White", "Blue"},
}

var SkinTones = []string{"Fair", "Wheatish", "Dusky", "Dark"}

// ColorsForTone suggests complementary colors for a skin tone. Unknown
// tones fall back to a neutral pair.
func ColorsForTone(tone string) []string {
	if colors, ok := skinToneColors[tone]; ok {
		return colors
	}
	return []string{"Blue", "Black"}
}

var menCategories = []string{"Shirts", "T-shirts", "Bottom Wear", "Hoodies"}

var womenCategories = []string{"Western Wear", "Dresses", "Ethnic Wear", "Tops and Co-ord Sets", "Women's Bottomwear"}

func CategoriesForGender(gender string) []string {
	if gender == "Men" {
		return menCategories
	}
	return womenCategories
}

var menShapes = []string{"Rectangle", "Triangle", "Inverted Triangle", "Oval", "Trapezoid"}

var womenShapes = []string{"Hourglass", "Pear", "Apple", "Rectangle", "Inverted Triangle"}

func ShapesForGender(gender string) []string {
	if gender == "Men" {
		return menShapes
	}
	return womenShapes
}

var womenShapeCategories = map[string][]string{
	"Hourglass":         {"Dresses", "Western Wear", "Tops and Co-ord Sets"},
	"Pear":              {"Tops and Co-ord Sets", "Western Wear", "Ethnic Wear"},
	"Apple":             {"Dresses", "Tops and Co-ord Sets", "Western Wear"},
	"Rectangle":         {"Dresses", "Western Wear", "Ethnic Wear"},
	"Inverted Triangle": {"Dresses", "Western Wear", "Ethnic Wear"},
}

var menShapeCategories = map[string][]string{
	"Rectangle":         {"Shirts", "T-shirts", "Hoodies"},
	"Triangle":          {"Shirts", "Hoodies", "T-shirts"},
	"Inverted Triangle": {"T-shirts", "Shirts", "Hoodies"},
	"Oval":              {"Shirts", "T-shirts", "Hoodies"},
	"Trapezoid":         {"Shirts", "T-shirts", "Hoodies"},
}

// CategoriesForShape recommends categories flattering a body shape.
// Unknown shapes fall back to the gender's broad category list.
func CategoriesForShape(gender, shape string) []string {
	if gender == "Men" {
		if cats, ok := menShapeCategories[shape]; ok {
			return cats
		}
		return []string{"Shirts", "T-shirts", "Hoodies"}
	}
	if cats, ok := womenShapeCategories[shape]; ok {
		return cats
	}
	return []string{"Western Wear", "Dresses", "Ethnic Wear", "Tops and Co-ord Sets"}
}

var FitColors = []string{"Red", "Blue", "Black", "White", "Green", "Pink", "Grey", "Yellow"}

// EventTypes are the preset occasions; anything else is a custom event.
var EventTypes = []string{
	"Job Interview",
	"Wedding",
	"Birthday",
	"Festival",
	"Party",
	"Travel",
	"Meeting",
	"College",
	"Temple",
	"Family Function",
	"Night Out",
	"Photoshoot",
}
