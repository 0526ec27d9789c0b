package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyWords = map[string]string{
	"HNL": "LEMPIRAS",
	"USD": "DÓLARES",
}

// AmountInWords spells an amount the way it is written on Honduran legal
// documents, e.g. 1500.50 HNL -> "UN MIL QUINIENTOS LEMPIRAS CON 50/100".
func AmountInWords(amount decimal.Decimal, currency string) string {
	unit, ok := currencyWords[strings.ToUpper(currency)]
	if !ok {
		unit = strings.ToUpper(currency)
	}

	amount = amount.Round(2)
	prefix := ""
	if amount.IsNegative() {
		prefix = "MENOS "
		amount = amount.Neg()
	}

	integer := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(integer)).Shift(2).IntPart()

	words := "CERO"
	if integer > 0 {
		words = apocope(spellInteger(integer))
	}
	return strings.TrimSpace(fmt.Sprintf("%s%s %s CON %02d/100", prefix, words, unit, cents))
}

// apocope shortens a trailing "UNO" before a noun: "VEINTIUNO" -> "VEINTIÚN",
// "UNO" -> "UN".
func apocope(words string) string {
	switch {
	case strings.HasSuffix(words, "VEINTIUNO"):
		return strings.TrimSuffix(words, "VEINTIUNO") + "VEINTIÚN"
	case strings.HasSuffix(words, "UNO"):
		return strings.TrimSuffix(words, "UNO") + "UN"
	}
	return words
}

func spellInteger(n int64) string {
	switch {
	case n < 10:
		return units[n]
	case n < 30:
		return specials[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " Y " + units[n%10]
	case n < 1000:
		if n%100 == 0 {
			return hundreds[n/100]
		}
		if n/100 == 1 {
			return "CIENTO " + spellInteger(n%100)
		}
		return hundreds[n/100] + " " + spellInteger(n%100)
	case n < 1_000_000:
		text := "UN MIL"
		if n/1000 > 1 {
			text = apocope(spellInteger(n/1000)) + " MIL"
		}
		if n%1000 == 0 {
			return text
		}
		return text + " " + spellInteger(n%1000)
	case n < 1_000_000_000_000:
		text := "UN MILLÓN"
		if n/1_000_000 > 1 {
			text = apocope(spellInteger(n/1_000_000)) + " MILLONES"
		}
		if n%1_000_000 == 0 {
			return text
		}
		return text + " " + spellInteger(n%1_000_000)
	}
	return "NÚMERO MUY GRANDE"
}

var units = []string{
	"", "UNO", "DOS", "TRES", "CUATRO", "CINCO", "SEIS", "SIETE", "OCHO", "NUEVE",
}

var specials = map[int64]string{
	10: "DIEZ", 11: "ONCE", 12: "DOCE", 13: "TRECE", 14: "CATORCE", 15: "QUINCE",
	16: "DIECISÉIS", 17: "DIECISIETE", 18: "DIECIOCHO", 19: "DIECINUEVE",
	20: "VEINTE", 21: "VEINTIUNO", 22: "VEINTIDÓS", 23: "VEINTITRÉS", 24: "VEINTICUATRO",
	25: "VEINTICINCO", 26: "VEINTISÉIS", 27: "VEINTISIETE", 28: "VEINTIOCHO", 29: "VEINTINUEVE",
}

var tens = []string{
	"", "", "VEINTE", "TREINTA", "CUARENTA", "CINCUENTA", "SESENTA", "SETENTA", "OCHENTA", "NOVENTA",
}

var hundreds = []string{
	"", "CIEN", "DOSCIENTOS", "TRESCIENTOS", "CUATROCIENTOS", "QUINIENTOS", "SEISCIENTOS", "SETECIENTOS", "OCHOCIENTOS", "NOVECIENTOS",
}
