package commands

import (
	"context"

	"catotel/internal/domain/pricing"
	"catotel/internal/infra"
	"catotel/internal/pkg/errs"
	"catotel/internal/pkg/jwt"
	"catotel/internal/usecase/shared"
)

type UpdatePricingConfigParams struct {
	Config pricing.Config
	// ExpectedVersion guards against concurrent edits: the update only lands
	// when the stored version still matches.
	ExpectedVersion int64
}

type PricingConfigCommands interface {
	Update(ctx context.Context, params UpdatePricingConfigParams, actor shared.Actor) (newVersion int64, err error)
}

type pricingConfigCommandsImpl struct {
	repo PricingConfigRepository
}

func NewPricingConfigCommands(repo PricingConfigRepository) PricingConfigCommands {
	return &pricingConfigCommandsImpl{repo: repo}
}

func (c *pricingConfigCommandsImpl) Update(ctx context.Context, params UpdatePricingConfigParams, actor shared.Actor) (int64, error) {
	if !actor.Role.AtLeast(jwt.RoleAdmin) {
		return 0, errs.ErrUpdateForbidden
	}

	if err := params.Config.Validate(); err != nil {
		return 0, errs.Mark(err, ErrDomainValidation)
	}
	cfg := params.Config.Normalize()

	newVersion, err := c.repo.Replace(ctx, cfg, params.ExpectedVersion)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return 0, errs.ErrConfigVersionConflict
		}
		return 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return newVersion, nil
}
