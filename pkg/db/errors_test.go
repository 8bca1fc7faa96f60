package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name: "postgres duplicate key",
			err:  errors.New(`ERROR: duplicate key value violates unique constraint "orders_order_number_key" (SQLSTATE 23505)`),
			want: true,
		},
		{
			name: "sqlite unique constraint",
			err:  errors.New("UNIQUE constraint failed: orders.order_number"),
			want: true,
		},
		{
			name:       "named constraint matches",
			err:        errors.New(`duplicate key value violates unique constraint "reviews_user_product_key"`),
			constraint: "reviews_user_product_key",
			want:       true,
		},
		{
			name:       "named constraint does not match",
			err:        errors.New(`duplicate key value violates unique constraint "orders_order_number_key"`),
			constraint: "reviews_user_product_key",
			want:       false,
		},
		{
			name: "unrelated error",
			err:  errors.New("connection refused"),
			want: false,
		},
		{
			name: "nil error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err, tt.constraint); got != tt.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tt.err, tt.constraint, got, tt.want)
			}
		})
	}
}
