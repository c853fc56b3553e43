package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "95000", "12.5", "-45000.75"} {
		d := decimal.RequireFromString(s)
		if got := Decimal(Numeric(d)); !got.Equal(d) {
			t.Errorf("round trip %s: got %s", s, got)
		}
	}
}

func TestDecimal_Null(t *testing.T) {
	if got := Decimal(pgtype.Numeric{}); !got.IsZero() {
		t.Errorf("NULL numeric: got %s", got)
	}
}
