package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestSubjectMapService_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"SUBJECT_MAPPING": {"UE23CS352": "DBMS", "UE23CS351A": "CD"}}`))
	}))
	defer srv.Close()

	svc := NewSubjectMapService(srv.URL, nil, 0, zerolog.Nop())

	mapping, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mapping["UE23CS352"] != "DBMS" || mapping["UE23CS351A"] != "CD" {
		t.Errorf("mapping wrong: %v", mapping)
	}
}

func TestSubjectMapService_RefreshMissingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	svc := NewSubjectMapService(srv.URL, nil, 0, zerolog.Nop())

	mapping, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if mapping == nil || len(mapping) != 0 {
		t.Errorf("expected empty map, got %v", mapping)
	}
}

func TestSubjectMapService_GetNeverFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewSubjectMapService(srv.URL, nil, 0, zerolog.Nop())

	mapping := svc.Get(context.Background())
	if mapping == nil {
		t.Fatal("Get must return a usable map even when upstream fails")
	}
	if len(mapping) != 0 {
		t.Errorf("expected empty fallback, got %v", mapping)
	}
}
