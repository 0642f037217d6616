package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestPersist_WrapsPlainErrors(t *testing.T) {
	cause := errors.New("connection reset")

	err := Persist("insert registry entries", cause)

	appErr, ok := AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, CodePersistence, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	assert.ErrorIs(t, err, cause)
}

func TestPersist_KeepsAppErrors(t *testing.T) {
	orig := NewNotFound("transaction", "42")

	err := Persist("load transaction", fmt.Errorf("repo: %w", orig))

	assert.True(t, IsNotFound(err))
	assert.Nil(t, Persist("noop", nil))
}

func TestBusinessRuleStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NewMinimumLineItemsRequired()))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NewPartyNotFoundOrInactive("p1")))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
	assert.True(t, HasCode(NewInvalidState("draft", "rejected", "confirm"), CodeInvalidState))
}

func TestFromValidator(t *testing.T) {
	type input struct {
		Type   string `validate:"required,oneof=purchase sale"`
		Pieces int    `validate:"gte=0"`
	}

	err := FromValidator(validator.New().Struct(input{Type: "swap", Pieces: -1}))

	appErr, ok := AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)
	fields := appErr.Details["fields"].(map[string]string)
	assert.Equal(t, "oneof=purchase sale", fields["input.Type"])
	assert.Equal(t, "gte=0", fields["input.Pieces"])
	assert.Nil(t, FromValidator(nil))
}
