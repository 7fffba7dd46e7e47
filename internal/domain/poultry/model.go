package poultry

import "time"

// Kind del movimiento.
// @Enum sale, expense
type Kind string

const (
	KindSale    Kind = "sale"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindSale || k == KindExpense
}

// Sector de categorías que corresponde al tipo de movimiento.
func (k Kind) Sector() string {
	if k == KindSale {
		return "poultry_sale"
	}
	return "poultry_expense"
}

// Movement es una venta o un gasto del galpón.
type Movement struct {
	ID          string
	Kind        Kind
	Date        time.Time // día calendario
	Description string
	Category    string
	Amount      float64
	UserID      string // quien lo registró
	CreatedAt   time.Time
}

// Flock es el tamaño actual del lote (una sola fila).
type Flock struct {
	ID        string
	Count     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Totals struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// ComputeTotals suma ventas y gastos; Profit = Sales - Expenses.
func ComputeTotals(movements []Movement) Totals {
	var t Totals
	for _, m := range movements {
		switch m.Kind {
		case KindSale:
			t.Sales += m.Amount
		case KindExpense:
			t.Expenses += m.Amount
		}
	}
	t.Profit = t.Sales - t.Expenses
	return t
}
