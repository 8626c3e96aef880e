// Package inventory reglas de costeo del stock (costo promedio ponderado).
package inventory

import "github.com/shopspring/decimal"

// costScale decimales con que se guarda el costo unitario.
const costScale = 4

// AverageCost costo promedio tras ingresar inQty unidades a inCost:
// ((onHand * current) + (inQty * inCost)) / (onHand + inQty).
// Un saldo negativo se trata como cero.
func AverageCost(onHand, current, inQty, inCost decimal.Decimal) decimal.Decimal {
	if onHand.IsNegative() {
		onHand = decimal.Zero
	}
	total := onHand.Add(inQty)
	if total.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	value := onHand.Mul(current).Add(inQty.Mul(inCost))
	return value.Div(total).Round(costScale)
}

// ReverseAverageCost deshace el aporte de una entrada cancelada.
// Si no queda saldo o el resultado sería negativo se conserva el costo actual.
func ReverseAverageCost(onHand, current, outQty, outCost decimal.Decimal) decimal.Decimal {
	rest := onHand.Sub(outQty)
	if rest.LessThanOrEqual(decimal.Zero) || outCost.IsZero() {
		return current
	}
	value := onHand.Mul(current).Sub(outQty.Mul(outCost))
	if value.IsNegative() {
		return current
	}
	return value.Div(rest).Round(costScale)
}
