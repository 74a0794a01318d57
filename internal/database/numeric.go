package database

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numeric encodes a decimal as a Postgres numeric parameter.
func numeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func nullNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}
	return numeric(*d)
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("numeric value is not finite")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

// dec is a scan target that decodes a NOT NULL numeric column.
type dec struct{ d *decimal.Decimal }

func (s dec) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid {
		return fmt.Errorf("unexpected NULL numeric")
	}
	v, err := toDecimal(n)
	if err != nil {
		return err
	}
	*s.d = v
	return nil
}

// nullDec decodes a nullable numeric column.
type nullDec struct{ d **decimal.Decimal }

func (s nullDec) ScanNumeric(n pgtype.Numeric) error {
	if !n.Valid {
		*s.d = nil
		return nil
	}
	v, err := toDecimal(n)
	if err != nil {
		return err
	}
	*s.d = &v
	return nil
}
