package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Supply repository sentinels.
	ErrSupplyNotFound = errors.New("supply not found")

	// Equipment repository sentinels.
	ErrEquipmentNotFound = errors.New("equipment not found")

	// Alert sink repository sentinels.
	ErrAlertSinkNotFound   = errors.New("alert sink not found")
	ErrAlertSinkNameExists = errors.New("alert sink name already exists")

	// Profile repository sentinels.
	ErrUserIDRequired = errors.New("user_id is required")
)
