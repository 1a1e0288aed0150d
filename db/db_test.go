package db

import (
	"reflect"
	"testing"
)

func TestGetCols(t *testing.T) {
	type row struct {
		ID      string `db:"id" json:"id"`
		Name    string `db:"name"`
		Derived bool   `db:"-" json:"derived"`
		Untagged string
	}

	got := GetCols(row{})
	want := []string{"id", "name"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGetColsPointer(t *testing.T) {
	type row struct {
		ID string `db:"id"`
	}

	got := GetCols(&row{})

	if !reflect.DeepEqual(got, []string{"id"}) {
		t.Fatalf("expected [id], got %v", got)
	}
}
