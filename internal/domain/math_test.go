package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSafeSum(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"normal", "10", "5", "15"},
		{"zero", "0", "0", "0"},
		{"negative", "-3", "5", "2"},
		{"decimal", "1.5", "2.3", "3.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := decimal.NewFromString(tt.a)
			b, _ := decimal.NewFromString(tt.b)
			got := SafeSum(a, b)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SafeSum(%s, %s) = %s, want %s", tt.a, tt.b, got, want)
			}
		})
	}
}

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"normal", "10", "5", "2"},
		{"division by zero", "10", "0", "0"},
		{"zero numerator", "0", "5", "0"},
		{"decimal result", "10", "4", "2.5"},
		{"negative", "-10", "4", "-2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := decimal.NewFromString(tt.a)
			b, _ := decimal.NewFromString(tt.b)
			got := SafeDiv(a, b)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("SafeDiv(%s, %s) = %s, want %s", tt.a, tt.b, got, want)
			}
		})
	}
}

func TestPercentShare(t *testing.T) {
	tests := []struct {
		name        string
		part, total string
		want        string
	}{
		{"half", "50", "100", "50"},
		{"full", "100", "100", "100"},
		{"zero total", "50", "0", "0"},
		{"zero part", "0", "100", "0"},
		{"third", "1", "3", "33.33333333333333"},
		{"over total", "150", "100", "150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part, _ := decimal.NewFromString(tt.part)
			total, _ := decimal.NewFromString(tt.total)
			got := PercentShare(part, total)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("PercentShare(%s, %s) = %s, want %s", tt.part, tt.total, got, want)
			}
		})
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		name           string
		value, percent string
		want           string
	}{
		{"five percent", "1000", "5", "50"},
		{"zero percent", "1000", "0", "0"},
		{"negative percent", "1000", "-2.5", "-25"},
		{"zero value", "0", "5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, _ := decimal.NewFromString(tt.value)
			percent, _ := decimal.NewFromString(tt.percent)
			got := PercentOf(value, percent)
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("PercentOf(%s, %s) = %s, want %s", tt.value, tt.percent, got, want)
			}
		})
	}
}
