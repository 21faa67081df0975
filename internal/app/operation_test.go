package app

import (
	"errors"
	"testing"
)

func TestNewOperation(t *testing.T) {
	tests := []struct {
		name       string
		operation  string
		parameters string
	}{
		{name: "with parameters", operation: "Scan", parameters: "location=3"},
		{name: "empty parameters", operation: "AddLocation", parameters: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.operation, tt.parameters)

			if op.Operation != tt.operation {
				t.Errorf("Operation = %q, want %q", op.Operation, tt.operation)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.Status != OperationSuccess {
				t.Errorf("Status = %q, want %q", op.Status, OperationSuccess)
			}
			if op.Persisted() {
				t.Errorf("Persisted() = true for a new operation")
			}
		})
	}
}

func TestOperation_Fail(t *testing.T) {
	op := NewOperation("Scan", "")

	if err := op.Fail(nil); err != nil {
		t.Fatalf("Fail(nil) = %v, want nil", err)
	}
	if op.Status != OperationSuccess {
		t.Errorf("Status after Fail(nil) = %q, want %q", op.Status, OperationSuccess)
	}

	boom := errors.New("boom")
	if err := op.Fail(boom); !errors.Is(err, boom) {
		t.Fatalf("Fail() = %v, want %v", err, boom)
	}
	if op.Status != OperationError {
		t.Errorf("Status = %q, want %q", op.Status, OperationError)
	}
}

func TestOperation_Persisted(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want bool
	}{
		{name: "not persisted when ID is 0", id: 0, want: false},
		{name: "persisted when ID is positive", id: 1, want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			op := &Operation{ID: tt.id}
			if got := op.Persisted(); got != tt.want {
				t.Errorf("Persisted() = %v, want %v", got, tt.want)
			}
		})
	}
}
