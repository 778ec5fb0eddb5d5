package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMSISDN(t *testing.T) {
	assert.Equal(t, "233241234567", NormalizeMSISDN("  233241234567 "))
	assert.Equal(t, "+233241234567", NormalizeMSISDN("+233241234567"))
}

func TestPaymentEmail(t *testing.T) {
	assert.Equal(t, "233241234567@provigo.app", PaymentEmail("+233241234567"))
	assert.Equal(t, "233241234567@provigo.app", PaymentEmail("233241234567"))
}
