package wizard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	StepEnterItem  = "enter_item"
	StepCreatePost = "create_post"
	StepCustomize  = "customize"
	StepConfirm    = "confirm"
	StepGarage     = "garage"
)

// State variable keys written by the step forms.
const (
	VarTitle       = "title"
	VarDescription = "description"
	VarPrice       = "price"
	VarCondition   = "condition"
	VarPlatforms   = "platforms"
	VarPostBody    = "postBody"
	VarTags        = "tags"
	VarShipping    = "shipping"
)

// StepDefinition describes one fixed stage of the New Post Flow.
type StepDefinition struct {
	Key         string
	Title       string
	Description string
	Order       int
	Optional    bool
	validate    func(vars map[string]string) error
}

var definitions = []StepDefinition{
	{
		Key:         StepEnterItem,
		Title:       "Enter Item",
		Description: "Describe the item you want to sell.",
		Order:       1,
		validate:    validateEnterItem,
	},
	{
		Key:         StepCreatePost,
		Title:       "Create Post",
		Description: "Pick the marketplaces and write the post.",
		Order:       2,
		validate:    validateCreatePost,
	},
	{
		Key:         StepCustomize,
		Title:       "Customize",
		Description: "Add tags and shipping options.",
		Order:       3,
		Optional:    true,
	},
	{
		Key:         StepConfirm,
		Title:       "Confirm",
		Description: "Review the listing and post it.",
		Order:       4,
	},
	{
		Key:         StepGarage,
		Title:       "Garage",
		Description: "See the listing alongside everything else you have posted.",
		Order:       5,
		Optional:    true,
	},
}

// Definitions returns the five steps in order.
func Definitions() []StepDefinition {
	out := make([]StepDefinition, len(definitions))
	copy(out, definitions)
	return out
}

func Definition(key string) (StepDefinition, bool) {
	for _, d := range definitions {
		if d.Key == key {
			return d, true
		}
	}
	return StepDefinition{}, false
}

// Validate checks the merged flow variables required to complete the step.
func (d StepDefinition) Validate(vars map[string]string) error {
	if d.validate == nil {
		return nil
	}
	return d.validate(vars)
}

func validateEnterItem(vars map[string]string) error {
	if strings.TrimSpace(vars[VarTitle]) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := NormalizePrice(vars[VarPrice]); err != nil {
		return err
	}
	return nil
}

func validateCreatePost(vars map[string]string) error {
	if len(SplitList(vars[VarPlatforms])) == 0 {
		return fmt.Errorf("%w: at least one platform is required", ErrValidation)
	}
	return nil
}

// NormalizePrice parses a non-negative decimal price and formats it with two
// decimal places.
func NormalizePrice(raw string) (string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	if raw == "" {
		return "", fmt.Errorf("%w: price is required", ErrValidation)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return "", fmt.Errorf("%w: price %q is not a number", ErrValidation, raw)
	}
	if v < 0 {
		return "", fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	return strconv.FormatFloat(v, 'f', 2, 64), nil
}

// SplitList splits a comma separated form value, trimming blanks.
func SplitList(raw string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
