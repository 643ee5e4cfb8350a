package service

import (
	"errors"
	"testing"
)

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 10, 25)
	if pg.TotalPages != 3 || pg.CurrentPage != 2 || pg.TotalItems != 25 || pg.ItemsPerPage != 10 {
		t.Fatalf("pagination = %+v", pg)
	}
	if NewPagination(1, 10, 30).TotalPages != 3 {
		t.Fatal("exact multiple miscounted")
	}
	if NewPagination(1, 10, 0).TotalPages != 0 {
		t.Fatal("empty set should have zero pages")
	}
}

func TestSanitizePage(t *testing.T) {
	if p, l := sanitizePage(0, 0, 20, 100); p != 1 || l != 20 {
		t.Fatalf("got %d/%d", p, l)
	}
	if p, l := sanitizePage(-5, 1000, 20, 100); p != 1 || l != 20 {
		t.Fatalf("got %d/%d", p, l)
	}
	if p, l := sanitizePage(3, 50, 20, 100); p != 3 || l != 50 {
		t.Fatalf("got %d/%d", p, l)
	}
}

func TestIsDupKey(t *testing.T) {
	if !isDupKey(errors.New("Error 1062: Duplicate entry 'x' for key 'uk_job_applicant'")) {
		t.Fatal("mysql dup not detected")
	}
	if !isDupKey(errors.New("UNIQUE constraint failed: applications.job_id")) {
		t.Fatal("sqlite dup not detected")
	}
	if isDupKey(errors.New("connection refused")) {
		t.Fatal("false positive")
	}
	if isDupKey(nil) {
		t.Fatal("nil flagged")
	}
}
