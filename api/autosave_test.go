package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ViniZap4/gestor360/domain"
)

func TestAutoSaver_Save(t *testing.T) {
	f := &fakeAPI{}
	doc := domain.Document{Filename: "a.md", Folder: "notas", Content: "# A"}
	s := NewAutoSaver(f, doc, time.Hour)
	ctx := context.Background()

	if ok, err := s.Save(ctx); ok || err != nil {
		t.Errorf("Save(clean) = %v, %v", ok, err)
	}

	s.Edit("   ")
	if ok, _ := s.Save(ctx); ok {
		t.Error("blank draft was saved")
	}

	var saved []domain.Document
	s.OnSave(func(d domain.Document) { saved = append(saved, d) })

	s.Edit("# A\nuno")
	s.Edit("# A\ndos")
	if ok, err := s.Save(ctx); !ok || err != nil {
		t.Fatalf("Save() = %v, %v", ok, err)
	}
	if f.updates[0] != "# A\ndos" {
		t.Errorf("saved %q, want latest draft", f.updates[0])
	}
	if len(saved) != 1 || s.Dirty() {
		t.Errorf("saved = %d, dirty = %v", len(saved), s.Dirty())
	}
}

func TestAutoSaver_RetriesAfterFailure(t *testing.T) {
	f := &fakeAPI{updateErr: errors.New("offline")}
	s := NewAutoSaver(f, domain.Document{Filename: "a.md", Folder: "notas"}, time.Hour)
	ctx := context.Background()

	s.Edit("# Draft")
	if _, err := s.Save(ctx); err == nil {
		t.Fatal("Save() succeeded while offline")
	}
	if !s.Dirty() {
		t.Error("draft marked clean after failed save")
	}

	f.mu.Lock()
	f.updateErr = nil
	f.mu.Unlock()
	if ok, err := s.Save(ctx); !ok || err != nil {
		t.Errorf("retry Save() = %v, %v", ok, err)
	}
}

func TestAutoSaver_Run(t *testing.T) {
	f := &fakeAPI{}
	s := NewAutoSaver(f, domain.Document{Filename: "a.md", Folder: "notas"}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	s.Edit("# Tick")
	deadline := time.Now().Add(2 * time.Second)
	for f.updateCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if f.updateCount() == 0 {
		t.Fatal("ticker never saved")
	}

	s.Edit("# Final")
	cancel()
	<-done

	f.mu.Lock()
	last := f.updates[len(f.updates)-1]
	f.mu.Unlock()
	if last != "# Final" {
		t.Errorf("last save = %q, want final draft", last)
	}
}
