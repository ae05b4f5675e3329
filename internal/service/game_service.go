package service

import (
	"context"

	"go.uber.org/zap"

	"survival-server/internal/interfaces"
	"survival-server/internal/models"
)

// GameService owns session lifecycle and preparation: creating/resetting
// sessions, selecting the cast, confirming the bag and inventory, and the
// catalog reads the preparation screens need.
type GameService interface {
	// GetSessionSnapshot returns the user's active session, or
	// models.ErrSessionNotFound.
	GetSessionSnapshot(ctx context.Context, userID int64) (*SessionSnapshot, error)

	// CreateOrResetSession abandons any active session (GIVE_UP) and starts
	// a fresh one with the default bag.
	CreateOrResetSession(ctx context.Context, userID int64) (*SessionSnapshot, error)

	// ListCharacterGroups lists playable groups with their cast.
	ListCharacterGroups(ctx context.Context) ([]*CharacterGroupView, error)

	// SelectCharacterSet instantiates the chosen group's cast for the
	// active session, resetting stats to character defaults.
	SelectCharacterSet(ctx context.Context, userID, characterGroupID int64) (*SessionSnapshot, error)

	// GetSetupInfo returns bags and store sections for preparation.
	GetSetupInfo(ctx context.Context) (*SetupInfo, error)

	// ConfirmInventory finalizes bag choice and starting inventory and
	// stamps the bag confirmation, unblocking progression.
	ConfirmInventory(ctx context.Context, userID int64, req *ConfirmInventoryRequest) (*SessionSnapshot, error)
}

type gameServiceImpl struct {
	db          interfaces.DBTX
	txManager   interfaces.TxManager
	sessionRepo interfaces.SessionRepository
	contentRepo interfaces.ContentRepository
	invRepo     interfaces.InventoryRepository
	logger      *zap.Logger
}

var _ GameService = (*gameServiceImpl)(nil)

// NewGameService creates the lifecycle service.
func NewGameService(
	db interfaces.DBTX,
	txManager interfaces.TxManager,
	sessionRepo interfaces.SessionRepository,
	contentRepo interfaces.ContentRepository,
	invRepo interfaces.InventoryRepository,
	logger *zap.Logger,
) GameService {
	return &gameServiceImpl{
		db:          db,
		txManager:   txManager,
		sessionRepo: sessionRepo,
		contentRepo: contentRepo,
		invRepo:     invRepo,
		logger:      logger.Named("GameService"),
	}
}

func (s *gameServiceImpl) GetSessionSnapshot(ctx context.Context, userID int64) (*SessionSnapshot, error) {
	state, err := s.sessionRepo.FindActiveByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(state), nil
}

func (s *gameServiceImpl) CreateOrResetSession(ctx context.Context, userID int64) (*SessionSnapshot, error) {
	var snapshot *SessionSnapshot
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		if err := s.sessionRepo.TerminateActive(ctx, tx, userID); err != nil {
			return err
		}

		bag, err := s.contentRepo.GetFirstBag(ctx, tx)
		if err != nil {
			return err
		}

		sessionID, err := s.sessionRepo.Create(ctx, tx, userID, bag.ID)
		if err != nil {
			return err
		}

		state, err := s.sessionRepo.GetStateByID(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		snapshot = buildSnapshot(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session created or reset",
		zap.Int64("userID", userID),
		zap.Int64("sessionID", snapshot.SessionID))
	return snapshot, nil
}

func (s *gameServiceImpl) ListCharacterGroups(ctx context.Context) ([]*CharacterGroupView, error) {
	groups, err := s.contentRepo.ListCharacterGroups(ctx, s.db)
	if err != nil {
		return nil, err
	}

	views := make([]*CharacterGroupView, 0, len(groups))
	for _, group := range groups {
		members, err := s.contentRepo.ListGroupMembers(ctx, s.db, group.ID)
		if err != nil {
			return nil, err
		}
		view := &CharacterGroupView{
			ID:               group.ID,
			Code:             group.Code,
			Name:             group.Name,
			GroupSelectImage: group.GroupSelectImage,
			Description:      group.Description,
			Characters:       make([]*CharacterView, 0, len(members)),
		}
		for _, m := range members {
			view.Characters = append(view.Characters, &CharacterView{
				ID:            m.Character.ID,
				Code:          m.Character.Code,
				Name:          m.Character.Name,
				Age:           m.Character.Age,
				Description:   m.Character.Description,
				SelectImage:   m.Character.SelectImage,
				DefaultHP:     m.Character.DefaultHP,
				DefaultMental: m.Character.DefaultMental,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *gameServiceImpl) SelectCharacterSet(ctx context.Context, userID, characterGroupID int64) (*SessionSnapshot, error) {
	var snapshot *SessionSnapshot
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		state, err := s.sessionRepo.FindActiveByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}

		if _, err := s.contentRepo.GetCharacterGroup(ctx, tx, characterGroupID); err != nil {
			return err
		}
		members, err := s.contentRepo.ListGroupMembers(ctx, tx, characterGroupID)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return models.ErrCharacterGroupEmpty
		}

		setID, err := s.sessionRepo.UpsertCharacterSet(ctx, tx, state.Session.ID, characterGroupID)
		if err != nil {
			return err
		}
		if err := s.sessionRepo.ReplaceCharacters(ctx, tx, setID, members); err != nil {
			return err
		}

		reloaded, err := s.sessionRepo.GetStateByID(ctx, tx, state.Session.ID)
		if err != nil {
			return err
		}
		snapshot = buildSnapshot(reloaded)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Character set selected",
		zap.Int64("userID", userID),
		zap.Int64("characterGroupID", characterGroupID))
	return snapshot, nil
}

func (s *gameServiceImpl) GetSetupInfo(ctx context.Context) (*SetupInfo, error) {
	bags, err := s.contentRepo.ListBags(ctx, s.db)
	if err != nil {
		return nil, err
	}
	sections, err := s.contentRepo.ListStoreSections(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return &SetupInfo{Bags: bags, Sections: sections}, nil
}

func (s *gameServiceImpl) ConfirmInventory(ctx context.Context, userID int64, req *ConfirmInventoryRequest) (*SessionSnapshot, error) {
	var snapshot *SessionSnapshot
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		state, err := s.sessionRepo.FindActiveByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}

		bags, err := s.contentRepo.ListBags(ctx, tx)
		if err != nil {
			return err
		}
		var bag *models.Bag
		for _, candidate := range bags {
			if candidate.ID == req.BagID {
				bag = candidate
				break
			}
		}
		if bag == nil {
			return models.ErrBagNotFound
		}

		records := make([]*models.InventoryRecord, 0, len(req.Items))
		capacityUsed := 0
		for _, itemReq := range req.Items {
			if itemReq.QuantityChange <= 0 {
				continue
			}
			item, err := s.contentRepo.GetItem(ctx, tx, itemReq.ItemID)
			if err != nil {
				return err
			}
			capacityUsed += item.CapacityCost * itemReq.QuantityChange
			records = append(records, &models.InventoryRecord{
				SessionID: state.Session.ID,
				ItemID:    item.ID,
				Quantity:  itemReq.QuantityChange,
				Item:      *item,
			})
		}

		if err := s.invRepo.ReplaceAll(ctx, tx, state.Session.ID, records); err != nil {
			return err
		}
		if err := s.sessionRepo.SetBagAndConfirm(ctx, tx, state.Session.ID, bag.ID); err != nil {
			return err
		}
		// A re-confirmation replaces everything, so used capacity is set
		// absolutely rather than incremented.
		if delta := capacityUsed - state.Session.BagCapacityUsed; delta != 0 {
			if err := s.sessionRepo.AddBagCapacityUsed(ctx, tx, state.Session.ID, delta); err != nil {
				return err
			}
		}

		reloaded, err := s.sessionRepo.GetStateByID(ctx, tx, state.Session.ID)
		if err != nil {
			return err
		}
		snapshot = buildSnapshot(reloaded)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inventory confirmed",
		zap.Int64("userID", userID),
		zap.Int64("bagID", req.BagID),
		zap.Int("capacityUsed", snapshot.BagCapacityUsed))
	return snapshot, nil
}

// buildSnapshot projects the aggregate into the read-only client view.
func buildSnapshot(state *models.SessionState) *SessionSnapshot {
	snapshot := &SessionSnapshot{
		SessionID:        state.Session.ID,
		Status:           state.Session.Status,
		CharacterGroupID: state.Session.CharacterGroupID,
		BagID:            state.Session.BagID,
		BagCapacityUsed:  state.Session.BagCapacityUsed,
		BagConfirmed:     state.Session.BagConfirmedAt != nil,
		LifePoint:        state.Session.LifePoint,
		CurrentDayID:     state.Session.CurrentDayID,
		CurrentActID:     state.Session.CurrentActID,
		Characters:       make([]*CastMember, 0, len(state.Characters)),
		Inventory:        make([]*InventoryItem, 0, len(state.Inventory)),
	}
	for _, pc := range state.Characters {
		snapshot.Characters = append(snapshot.Characters, &CastMember{
			ID:            pc.ID,
			CharacterID:   pc.CharacterID,
			Code:          pc.Character.Code,
			Name:          pc.Character.Name,
			PortraitImage: pc.Character.PortraitImage,
			CurrentHP:     pc.CurrentHP,
			CurrentMental: pc.CurrentMental,
		})
	}
	for _, rec := range state.Inventory {
		snapshot.Inventory = append(snapshot.Inventory, &InventoryItem{
			ItemID:       rec.ItemID,
			Name:         rec.Item.Name,
			Image:        rec.Item.Image,
			CapacityCost: rec.Item.CapacityCost,
			Quantity:     rec.Quantity,
		})
	}
	return snapshot
}
