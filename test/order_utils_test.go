package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v4"

	"app/utils"
)

type fakeRow struct {
	value string
	err   error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*string); ok {
		*p = r.value
	}
	return nil
}

type fakeQuerier struct {
	row fakeRow
}

func (q fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return q.row
}

func TestGenerateOrderNumberFirstOfYear(t *testing.T) {
	q := fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	got, err := utils.GenerateOrderNumber(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fmt.Sprintf("ORD-%d-0001", time.Now().Year())
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGenerateOrderNumberIncrements(t *testing.T) {
	year := time.Now().Year()
	q := fakeQuerier{row: fakeRow{value: fmt.Sprintf("ORD-%d-0007", year)}}
	got, err := utils.GenerateOrderNumber(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fmt.Sprintf("ORD-%d-0008", year)
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGenerateOrderNumberMalformedLast(t *testing.T) {
	q := fakeQuerier{row: fakeRow{value: "ORD-garbage"}}
	got, err := utils.GenerateOrderNumber(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := fmt.Sprintf("ORD-%d-0001", time.Now().Year())
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestGenerateOrderNumberQueryError(t *testing.T) {
	q := fakeQuerier{row: fakeRow{err: fmt.Errorf("connection lost")}}
	if _, err := utils.GenerateOrderNumber(context.Background(), q); err == nil {
		t.Fatal("expected error for failed query")
	}
}
