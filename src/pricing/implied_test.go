package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlack76ImpliedVol(t *testing.T) {
	t.Run("round trips a call", func(t *testing.T) {
		in := Black76Inputs{Type: Call, Forward: 100, Strike: 105, Vol: 0.23, DomesticCC: 0.05, RTenor: 0.25, TTenor: 0.24}
		price, err := Black76Price(in)
		assert.NoError(t, err)

		vol, err := Black76ImpliedVol(Call, price, 100, 105, 0.05, 0.25, 0.24, 0.5)
		assert.NoError(t, err)
		assert.InDelta(t, 0.23, vol, 1e-6)
	})

	t.Run("round trips a put", func(t *testing.T) {
		in := Black76Inputs{Type: Put, Forward: 1.1055, Strike: 1.10, Vol: 0.084, DomesticCC: 0.05, RTenor: 0.25, TTenor: 0.25}
		price, err := Black76Price(in)
		assert.NoError(t, err)

		vol, err := Black76ImpliedVol(Put, price, 1.1055, 1.10, 0.05, 0.25, 0.25, 0.2)
		assert.NoError(t, err)
		assert.InDelta(t, 0.084, vol, 1e-6)
	})

	t.Run("unreachable target fails to converge", func(t *testing.T) {
		// a call is never worth a negative amount
		_, err := Black76ImpliedVol(Call, -0.01, 100, 100, 0.0, 0.25, 0.25, 0.2)
		assert.ErrorIs(t, err, NoConvergenceErr)
	})

	t.Run("rejects bad inputs", func(t *testing.T) {
		_, err := Black76ImpliedVol("straddle", 5, 100, 100, 0.0, 0.25, 0.25, 0.2)
		assert.ErrorIs(t, err, UnknownOptionTypeErr)

		_, err = Black76ImpliedVol(Call, 5, 100, 100, 0.0, 0.25, 0, 0.2)
		assert.ErrorIs(t, err, DomainErr)
	})
}
