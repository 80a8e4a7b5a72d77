package handler

import (
	"errors"
	"net/http"

	"trxmine/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// respondError maps the ledger error taxonomy onto HTTP codes. Callers
// see a stable kind and a human message; internal failures stay generic.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrStorageConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "operation conflicted with concurrent activity, please retry"})
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidCredential),
		errors.Is(err, ledger.ErrPreconditionFailed),
		errors.Is(err, ledger.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logrus.Errorf("handler: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// amountMicro converts a boundary TRX amount into internal micro units.
func amountMicro(d decimal.Decimal) (int64, bool, string) {
	micro, err := ledger.FromTRX(d)
	if err != nil {
		return 0, false, err.Error()
	}
	return micro, true, ""
}

// trx renders micro units as a decimal TRX string for responses.
func trx(micro int64) string { return ledger.FormatTRX(micro) }
