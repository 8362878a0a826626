package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = Validation("sample", "sample failed")

func TestIs_MatchesWrappedCopy(t *testing.T) {
	err := fmt.Errorf("outer: %w", errSample.With(errors.New("cause")))

	assert.ErrorIs(t, err, errSample)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "sample", CodeOf(err))
	assert.Equal(t, "sample failed: cause", errSample.With(errors.New("cause")).Error())
}

func TestIs_DifferentCode(t *testing.T) {
	other := Validation("other", "other failed")
	assert.False(t, errors.Is(errSample, other))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(errSample))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x", "x")))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(Unauthorized("x", "x")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Persistence("x", "x", errors.New("db"))))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
}

func TestPublicMessage(t *testing.T) {
	driver := errors.New(`pq: relation "sales" does not exist`)

	stored := fmt.Errorf("insert sale: %w", Persistence("sale_insert_failed", "failed to save sale", driver))
	assert.Equal(t, "failed to save sale", PublicMessage(stored))
	assert.NotContains(t, PublicMessage(stored), "pq:")

	assert.Equal(t, "internal error", PublicMessage(driver))

	shown := fmt.Errorf("discount 31.00 above cap 30.00: %w", Validation("discount_exceeds_cap", "too much"))
	assert.Equal(t, shown.Error(), PublicMessage(shown))
}
