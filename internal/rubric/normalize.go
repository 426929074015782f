package rubric

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ArticleScorer/internal/domain"
)

const (
	defaultMaxPoints = 10
	defaultIcon      = "📌"
)

var validate = validator.New()

// Normalize validates an upsert payload and fills the documented defaults:
// max_points 10, a generic icon, enabled true.
func Normalize(in domain.CriterionInput) (domain.Criterion, error) {
	in.Key = strings.TrimSpace(in.Key)
	in.Label = strings.TrimSpace(in.Label)
	in.CheckType = strings.TrimSpace(in.CheckType)

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.Criterion{}, fmt.Errorf("%w: field %s failed %q", domain.ErrInvalidCriterion, verrs[0].Field(), verrs[0].Tag())
		}
		return domain.Criterion{}, fmt.Errorf("%w: %v", domain.ErrInvalidCriterion, err)
	}

	checkType, err := domain.ParseCheckType(in.CheckType)
	if err != nil {
		return domain.Criterion{}, err
	}

	if in.MinValue != nil && in.MaxValue != nil && *in.MinValue > *in.MaxValue {
		return domain.Criterion{}, fmt.Errorf("%w: min_value %.2f exceeds max_value %.2f", domain.ErrInvalidCriterion, *in.MinValue, *in.MaxValue)
	}

	c := domain.Criterion{
		Key:         in.Key,
		Label:       in.Label,
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		MaxPoints:   in.MaxPoints,
		CheckType:   checkType,
		MinValue:    clone(in.MinValue),
		MaxValue:    clone(in.MaxValue),
		TargetValue: clone(in.TargetValue),
		Enabled:     true,
	}
	if c.MaxPoints == 0 {
		c.MaxPoints = defaultMaxPoints
	}
	if c.Icon == "" {
		c.Icon = defaultIcon
	}
	if in.Enabled != nil {
		c.Enabled = *in.Enabled
	}
	return c, nil
}
