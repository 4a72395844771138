package usecases

import (
	"context"
	"fmt"

	"coursegate/internal/shared/logger"
)

type PopulateCatalogCommand struct {
	Reason string
	// Broadcast asks every other instance to repopulate too.
	Broadcast bool
}

type PopulateCatalogResult struct {
	Entries     int  `json:"entries"`
	Broadcasted bool `json:"broadcasted"`
}

type PopulateCatalogUseCase struct {
	populator CatalogPopulator
	counter   interface{ Len() int }
	publisher CatalogChangePublisher
	logger    logger.Interface
}

// NewPopulateCatalogUseCase accepts a nil publisher for single-instance deployments.
func NewPopulateCatalogUseCase(
	populator CatalogPopulator,
	counter interface{ Len() int },
	publisher CatalogChangePublisher,
	logger logger.Interface,
) *PopulateCatalogUseCase {
	return &PopulateCatalogUseCase{
		populator: populator,
		counter:   counter,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *PopulateCatalogUseCase) Execute(ctx context.Context, cmd PopulateCatalogCommand) (*PopulateCatalogResult, error) {
	if err := uc.populator.Populate(ctx); err != nil {
		uc.logger.Errorw("failed to populate catalog cache", "reason", cmd.Reason, "error", err)
		return nil, fmt.Errorf("failed to populate catalog cache: %w", err)
	}

	result := &PopulateCatalogResult{}
	if uc.counter != nil {
		result.Entries = uc.counter.Len()
	}

	if cmd.Broadcast && uc.publisher != nil {
		// Local cache is already fresh; a lost event only delays the other instances
		// until their periodic repopulate.
		if err := uc.publisher.PublishChanged(ctx, cmd.Reason); err != nil {
			uc.logger.Warnw("failed to broadcast catalog change", "reason", cmd.Reason, "error", err)
		} else {
			result.Broadcasted = true
		}
	}

	uc.logger.Infow("catalog cache populated",
		"reason", cmd.Reason,
		"entries", result.Entries,
		"broadcasted", result.Broadcasted,
	)
	return result, nil
}
