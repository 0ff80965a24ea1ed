package main

import (
	"testing"

	"app/utils"
)

func TestCreatePagination(t *testing.T) {
	p := utils.CreatePagination(95, 2, 10)
	if p.TotalPages != 10 || p.CurrentPage != 2 || p.PageSize != 10 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if p.Offset() != 10 {
		t.Fatalf("expected offset 10, got %d", p.Offset())
	}

	// Defaults kick in for non-positive inputs
	p = utils.CreatePagination(5, 0, 0)
	if p.CurrentPage != 1 || p.PageSize != utils.DefaultPageSize || p.TotalPages != 1 {
		t.Fatalf("unexpected default pagination: %+v", p)
	}
	if p.Offset() != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset())
	}
}

func TestCreatePaginationClampsPageSize(t *testing.T) {
	p := utils.CreatePagination(10000, 1, 99999)
	if p.PageSize != utils.MaxPageSize {
		t.Fatalf("expected pageSize clamped to %d, got %d", utils.MaxPageSize, p.PageSize)
	}
	if p.TotalPages != 20 {
		t.Fatalf("expected 20 pages, got %d", p.TotalPages)
	}
}
