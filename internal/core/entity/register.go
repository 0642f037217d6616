// Package entity provides core domain entities.
package entity

import (
	"bullionledger/internal/core/types"
)

// Action is the direction of a physical inventory movement.
type Action string

const (
	// ActionAdd increases stock on hand
	ActionAdd Action = "add"
	// ActionRemove decreases stock on hand
	ActionRemove Action = "remove"
)

// ActionFor maps a signed direction to an action. Zero maps to add.
func ActionFor(direction int) Action {
	if direction < 0 {
		return ActionRemove
	}
	return ActionAdd
}

// Sign returns +1 for add and -1 for remove.
func (a Action) Sign() int {
	if a == ActionRemove {
		return -1
	}
	return 1
}

// Signed applies the action sign to a weight.
func (a Action) Signed(v types.Grams) types.Grams {
	return v.Mul(types.Sign(a.Sign()))
}
