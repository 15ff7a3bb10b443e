package courses

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ajitesh123/tough-tongue-starter/internal/domain"
)

func TestFileRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "courses.json"))
	courses, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 0 {
		t.Fatalf("expected empty list, got %#v", courses)
	}
}

func TestFileRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	repo := NewFileRepository(path)
	if err := repo.Save(sampleCourses()); err != nil {
		t.Fatal(err)
	}

	// The on-disk shape is a plain JSON array of course objects.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(raw, &arr); err != nil {
		t.Fatalf("stored document is not a JSON array: %v", err)
	}
	if len(arr) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr))
	}
	if _, ok := arr[0]["scenarioId"]; ok {
		t.Fatalf("unprovisioned course must omit scenarioId: %#v", arr[0])
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 3 || loaded[1].ScenarioID != "scn-2" {
		t.Fatalf("round trip lost data: %#v", loaded)
	}
}

func TestFileRepository_UpdateAndMiss(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "courses.json"))
	if err := repo.Save(sampleCourses()); err != nil {
		t.Fatal(err)
	}

	scn := "scn-1"
	embed := "https://app.toughtongueai.com/embed/scn-1?bg=black&skipPrecheck=true"
	ok, err := repo.Update("course-1", &domain.CoursePatch{ScenarioID: &scn, EmbedURL: &embed})
	if err != nil || !ok {
		t.Fatalf("update failed: ok=%v err=%v", ok, err)
	}

	ok, err = repo.Update("course-404", &domain.CoursePatch{ScenarioID: &scn})
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if ok {
		t.Fatal("expected miss")
	}

	loaded, _ := repo.Load()
	if loaded[0].ScenarioID != "scn-1" {
		t.Fatalf("patch not persisted: %#v", loaded[0])
	}
}

func TestFileRepository_YAMLByExtension(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "courses.yaml"))
	if err := repo.Save(sampleCourses()); err != nil {
		t.Fatal(err)
	}
	loaded, err := repo.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 3 || loaded[0].ID != "course-1" {
		t.Fatalf("yaml round trip failed: %#v", loaded)
	}
}

func TestFileRepository_Clear(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "courses.json"))
	if err := repo.Save(sampleCourses()); err != nil {
		t.Fatal(err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatalf("clearing an already-empty store must not error: %v", err)
	}
	loaded, _ := repo.Load()
	if len(loaded) != 0 {
		t.Fatalf("expected empty after clear, got %#v", loaded)
	}
}
