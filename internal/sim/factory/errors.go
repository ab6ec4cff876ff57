package factory

import "errors"

// Command failures. A command that returns one of these left the factory and
// the player's inventory untouched.
var (
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrCellOccupied    = errors.New("cell occupied")
	ErrCellEmpty       = errors.New("cell empty")
	ErrNotMachineItem  = errors.New("item is not a machine")
	ErrMissingItem     = errors.New("item not in inventory")
	ErrMissingTool     = errors.New("configuration tool required")
	ErrNotConfigurable = errors.New("machine is not configurable")
	ErrBadDirection    = errors.New("invalid direction")
	ErrBadSlot         = errors.New("invalid slot")
	ErrInventoryFull   = errors.New("inventory full")
	ErrChestFull       = errors.New("chest full")
	ErrNothingToTake   = errors.New("slot empty")
	ErrRejected        = errors.New("machine does not accept item")
)
