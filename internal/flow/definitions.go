package flow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadDate rejects event dates that do not parse or are already past.
var ErrBadDate = errors.New("event date must be YYYY-MM-DD and not in the past")

// FaceTone walks tone, color, gender, category. Color options depend on
// the chosen tone; category options depend on the chosen gender.
func FaceTone() Definition {
	return Definition{
		Kind: KindFaceTone,
		Steps: []Step{
			{
				Name: "tone_selection",
				Key:  "selectedTone",
				Prompt: func(map[string]string) string {
					return "Perfect! Let's find colors that match your skin tone.\n\nChoose the shade that best matches your skin tone. I'll suggest colors that complement you perfectly!"
				},
				Options: func(map[string]string) []string { return SkinTones },
			},
			{
				Name: "color_selection",
				Key:  "selectedColor",
				Prompt: func(c map[string]string) string {
					tone := c["selectedTone"]
					colors := ColorsForTone(tone)
					return fmt.Sprintf("Excellent choice! For %s skin tone, these colors will look amazing on you:\n\n• %s\n\nPlease select one color:",
						tone, strings.Join(colors, "\n• "))
				},
				Options: func(c map[string]string) []string { return ColorsForTone(c["selectedTone"]) },
			},
			{
				Name: "gender_selection",
				Key:  "selectedGender",
				Prompt: func(c map[string]string) string {
					return fmt.Sprintf("Perfect! %s is a great choice for you.\n\nNow please select your gender:", c["selectedColor"])
				},
				Options: func(map[string]string) []string { return Genders },
			},
			{
				Name: "category_selection",
				Key:  "selectedCategory",
				Prompt: func(c map[string]string) string {
					return fmt.Sprintf("Great! Now choose what type of %s's clothing you're looking for:", strings.ToLower(c["selectedGender"]))
				},
				Options: func(c map[string]string) []string { return CategoriesForGender(c["selectedGender"]) },
			},
		},
	}
}

// BodyFit walks gender, body shape, category, color. Shape options depend
// on gender; category options depend on both.
func BodyFit() Definition {
	return Definition{
		Kind: KindBodyFit,
		Steps: []Step{
			{
				Name: "gender_selection",
				Key:  "selectedGender",
				Prompt: func(map[string]string) string {
					return "Great choice! Let's find the perfect fit for you.\n\nFirst, please select your gender:"
				},
				Options: func(map[string]string) []string { return Genders },
			},
			{
				Name: "body_shape_selection",
				Key:  "selectedBodyShape",
				Prompt: func(c map[string]string) string {
					return fmt.Sprintf("Great! Now please select your body shape:\n\n%s's Body Shapes:", c["selectedGender"])
				},
				Options: func(c map[string]string) []string { return ShapesForGender(c["selectedGender"]) },
			},
			{
				Name: "category_selection",
				Key:  "selectedCategory",
				Prompt: func(c map[string]string) string {
					shape := c["selectedBodyShape"]
					return fmt.Sprintf("Perfect! For your %s body shape, these categories will look amazing on you:\n\nRecommended for %s %s:",
						strings.ToLower(shape), shape, strings.ToLower(c["selectedGender"]))
				},
				Options: func(c map[string]string) []string {
					return CategoriesForShape(c["selectedGender"], c["selectedBodyShape"])
				},
			},
			{
				Name: "color_selection",
				Key:  "selectedColor",
				Prompt: func(c map[string]string) string {
					return fmt.Sprintf("Excellent choice! %s will look great on your %s body shape.\n\nNow choose your preferred color:",
						c["selectedCategory"], strings.ToLower(c["selectedBodyShape"]))
				},
				Options: func(map[string]string) []string { return FitColors },
			},
		},
	}
}

// Calendar walks gender, date, event. The date step accepts a typed
// YYYY-MM-DD value from a picker; the event step offers the preset
// occasions but also accepts a custom event name.
func Calendar(now func() time.Time) Definition {
	if now == nil {
		now = time.Now
	}
	return Definition{
		Kind: KindCalendar,
		Steps: []Step{
			{
				Name: "gender",
				Key:  "gender",
				Prompt: func(map[string]string) string {
					return "Who's Attending?\n\nSelect your gender for personalized outfit suggestions:"
				},
				Options: func(map[string]string) []string { return Genders },
			},
			{
				Name: "date",
				Key:  "date",
				Prompt: func(map[string]string) string {
					return "When's the Event?\n\nPick the date (YYYY-MM-DD):"
				},
				FreeText: true,
				Validate: func(selection string) error {
					d, err := time.Parse("2006-01-02", selection)
					if err != nil {
						return ErrBadDate
					}
					today, _ := time.Parse("2006-01-02", now().Format("2006-01-02"))
					if d.Before(today) {
						return ErrBadDate
					}
					return nil
				},
			},
			{
				Name: "event",
				Key:  "event",
				Prompt: func(map[string]string) string {
					return "What's the Event?\n\nSelect or type your event type:"
				},
				Options:  func(map[string]string) []string { return EventTypes },
				FreeText: true,
				Validate: func(selection string) error {
					if strings.TrimSpace(selection) == "" {
						return errors.New("event name must not be empty")
					}
					return nil
				},
			},
		},
	}
}
