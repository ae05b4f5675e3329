package service

import (
	"context"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// ChoiceResultMapper precomputes, per choice option, the client-facing
// result code and the full consequence event chain.
type ChoiceResultMapper struct {
	content   interfaces.ContentRepository
	assembler *EventAssembler
	logger    *zap.Logger
}

// NewChoiceResultMapper creates a choice result mapper.
func NewChoiceResultMapper(content interfaces.ContentRepository, assembler *EventAssembler, logger *zap.Logger) *ChoiceResultMapper {
	return &ChoiceResultMapper{
		content:   content,
		assembler: assembler,
		logger:    logger.Named("ChoiceResultMapper"),
	}
}

// MapOutcomes computes {resultType, events} for every given option.
// Precomputed chains from the chain table win; options without one fall
// back to walking nextEventId pointers.
func (m *ChoiceResultMapper) MapOutcomes(
	ctx context.Context,
	querier interfaces.DBTX,
	options []*models.ChoiceOption,
	images models.CharacterImageLookup,
	inventory []*models.InventoryRecord,
) (map[int64]*ChoiceOutcome, error) {
	outcomes := make(map[int64]*ChoiceOutcome, len(options))
	if len(options) == 0 {
		return outcomes, nil
	}

	optionIDs := make([]int64, 0, len(options))
	for _, opt := range options {
		optionIDs = append(optionIDs, opt.ID)
	}
	chains, err := m.content.ListOptionEventChains(ctx, querier, optionIDs)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		outcome := &ChoiceOutcome{
			ResultType: MapResultCode(opt.ResultType),
			Events:     []*AssembledEvent{},
		}

		if chain, ok := chains[opt.ID]; ok && len(chain) > 0 {
			for _, ev := range chain {
				outcome.Events = append(outcome.Events, m.assembler.AssembleEvent(ev, images, inventory))
			}
		} else if opt.NextEventID != nil {
			events, err := m.assembler.BuildEventChain(ctx, querier, *opt.NextEventID, images, inventory)
			if err != nil {
				return nil, err
			}
			outcome.Events = events
		}

		outcomes[opt.ID] = outcome
	}
	return outcomes, nil
}

// MapResultCode translates an authored result code into the client-facing
// vocabulary. CONTINUE becomes ACT_END; terminal codes pass through.
func MapResultCode(code models.ChoiceResultCode) string {
	switch code {
	case models.ChoiceResultDayEnd:
		return ResultDayEnd
	case models.ChoiceResultGameEnd:
		return ResultGameEnd
	case models.ChoiceResultGameOver:
		return ResultGameOver
	default:
		return ResultActEnd
	}
}
