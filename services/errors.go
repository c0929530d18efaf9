package services

import "errors"

// Ошибки валидации и бизнес-правил, маппятся на HTTP в handlers.
var (
	// Versus-режим
	ErrTeamSlotEmpty     = errors.New("both team slots are required")
	ErrSameTeam          = errors.New("a team cannot play against itself")
	ErrOutcomeRequired   = errors.New("match outcome is required")
	ErrOutcomeNotInMatch = errors.New("winner must be one of the two participants")

	// Батч-режим
	ErrBatchSize         = errors.New("batch submissions require exactly 3 teams")
	ErrDuplicateTeam     = errors.New("duplicate team in batch submission")
	ErrDraftEmpty        = errors.New("no pending batch draft")
	ErrDraftNotReady     = errors.New("batch draft does not have 3 teams selected")
	ErrDraftTooManyTeams = errors.New("batch draft cannot hold more than 3 teams")

	// Нарушения контракта хранилища (ужесточено: хранилище валидирует само)
	ErrTeamNotFound     = errors.New("team not found")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameModeMismatch = errors.New("operation is not valid for this game's scoring mode")

	// Аутентификация
	ErrInvalidPIN = errors.New("invalid PIN")
)
