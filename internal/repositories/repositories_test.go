package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
	"github.com/google/go-cmp/cmp"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newItem(title, platform string, status models.Status) *models.Item {
	item := models.NewItem(title, platform, status)
	item.PricePaid = 59.99
	item.Tags = []string{"action", "co-op"}
	item.Metacritic = models.Metascore(88)
	return item
}

func TestItemRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := newItem("It Takes Two", "PS5", models.StatusCompleted)

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		if item.ID == "" {
			t.Fatal("item ID should be set after creation")
		}

		retrieved, err := repo.Get(item.ID)
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}

		if retrieved.Title != "It Takes Two" || retrieved.Platform != "PS5" || retrieved.Status != models.StatusCompleted {
			t.Errorf("unexpected item: %+v", retrieved)
		}
		if retrieved.PricePaid != 59.99 {
			t.Errorf("expected price 59.99, got %v", retrieved.PricePaid)
		}
		if retrieved.Score() != 88 {
			t.Errorf("expected metacritic 88, got %d", retrieved.Score())
		}
		if diff := cmp.Diff([]string{"action", "co-op"}, retrieved.Tags); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
		if !retrieved.CreatedAt.Equal(item.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", item.CreatedAt, retrieved.CreatedAt)
		}
	})

	t.Run("Create keeps unknown metacritic", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := models.NewItem("Unscored", "Retro", models.StatusOwned)

		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		retrieved, err := repo.Get(item.ID)
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if retrieved.Metacritic != nil {
			t.Errorf("expected nil metacritic, got %d", *retrieved.Metacritic)
		}
		if len(retrieved.Tags) != 0 {
			t.Errorf("expected no tags, got %v", retrieved.Tags)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := newItem("Gran Turismo 7", "PS5", models.StatusOwned)
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		before := item.UpdatedAt
		time.Sleep(time.Millisecond)

		item.Status = models.StatusForSale
		item.PriceSold = 35
		item.Tags = []string{"racing", "racing", " sim "}
		item.Metacritic = nil

		if err := repo.Update(item); err != nil {
			t.Fatalf("failed to update item: %v", err)
		}

		retrieved, err := repo.Get(item.ID)
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}

		if retrieved.Status != models.StatusForSale || retrieved.PriceSold != 35 {
			t.Errorf("update not persisted: %+v", retrieved)
		}
		if diff := cmp.Diff([]string{"racing", "sim"}, retrieved.Tags); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}
		if retrieved.Metacritic != nil {
			t.Error("expected metacritic to be cleared")
		}
		if !retrieved.UpdatedAt.After(before) {
			t.Errorf("expected updated_at to move forward")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := newItem("Halo Infinite", "Xbox Series", models.StatusSold)
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		if err := repo.Delete(item.ID); err != nil {
			t.Fatalf("failed to delete item: %v", err)
		}

		if _, err := repo.Get(item.ID); err == nil {
			t.Error("expected error when getting deleted item")
		}

		items, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected deleted item to be hidden, got %d items", len(items))
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)

		items := []*models.Item{
			newItem("Zelda", "Switch", models.StatusCompleted),
			newItem("Hades", "PC", models.StatusPlatinum),
			newItem("Metroid", "Switch", models.StatusWishlisted),
		}
		items[1].Tags = []string{"roguelike"}

		for _, item := range items {
			if err := repo.Create(item); err != nil {
				t.Fatalf("failed to create item: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list items: %v", err)
		}

		var titles []string
		for _, it := range all {
			titles = append(titles, it.Title)
		}
		if diff := cmp.Diff([]string{"Zelda", "Hades", "Metroid"}, titles); diff != "" {
			t.Errorf("expected insertion order (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"roguelike"}, all[1].Tags); diff != "" {
			t.Errorf("tags mismatch (-want +got):\n%s", diff)
		}

		switchItems, err := repo.List(map[string]any{"platform": "Switch"})
		if err != nil {
			t.Fatalf("failed to list by platform: %v", err)
		}
		if len(switchItems) != 2 {
			t.Errorf("expected 2 Switch items, got %d", len(switchItems))
		}

		wishlisted, err := repo.List(map[string]any{"status": models.StatusWishlisted})
		if err != nil {
			t.Fatalf("failed to list by status: %v", err)
		}
		if len(wishlisted) != 1 || wishlisted[0].Title != "Metroid" {
			t.Errorf("expected Metroid, got %+v", wishlisted)
		}

		byString, err := repo.List(map[string]any{"status": "PLATINUM", "platform": "PC"})
		if err != nil {
			t.Fatalf("failed to list by status string: %v", err)
		}
		if len(byString) != 1 || byString[0].Title != "Hades" {
			t.Errorf("expected Hades, got %+v", byString)
		}
	})

	t.Run("All", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		for _, title := range []string{"A", "B"} {
			if err := repo.Create(newItem(title, "PC", models.StatusOwned)); err != nil {
				t.Fatalf("failed to create item: %v", err)
			}
		}

		items, err := repo.All()
		if err != nil {
			t.Fatalf("failed to load items: %v", err)
		}
		if len(items) != 2 || items[0].Title != "A" {
			t.Errorf("unexpected items: %+v", items)
		}
	})

	t.Run("FindByTitle", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewItemRepository(db)
		item := newItem("Celeste", "PC", models.StatusCompleted)
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		found, err := repo.FindByTitle("  celeste ", "PC")
		if err != nil {
			t.Fatalf("failed to find item: %v", err)
		}
		if found.ID != item.ID {
			t.Errorf("expected %s, got %s", item.ID, found.ID)
		}

		if _, err := repo.FindByTitle("Celeste", "Switch"); err == nil {
			t.Error("expected platform to be part of the match")
		}
	})
}

func TestImportJobRepository(t *testing.T) {
	t.Run("Create & Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewImportJobRepository(db)
		job := models.NewImportJob("library.csv")

		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create import job: %v", err)
		}

		retrieved, err := repo.Get(job.ID)
		if err != nil {
			t.Fatalf("failed to get import job: %v", err)
		}

		if retrieved.Source != "library.csv" || retrieved.Status != models.ImportPending {
			t.Errorf("unexpected job: %+v", retrieved)
		}
		if retrieved.StartedAt != nil || retrieved.CompletedAt != nil {
			t.Error("pending job should not have timestamps")
		}
		if retrieved.Sequence != 1 {
			t.Errorf("expected sequence 1, got %d", retrieved.Sequence)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewImportJobRepository(db)
		job := models.NewImportJob("library.json")
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create import job: %v", err)
		}

		job.Start(3)
		job.ItemsImported = 2
		job.ItemsFailed = 1
		job.Finish(shared.ErrInvalidInput)

		if err := repo.Update(job); err != nil {
			t.Fatalf("failed to update import job: %v", err)
		}

		retrieved, err := repo.Get(job.ID)
		if err != nil {
			t.Fatalf("failed to get import job: %v", err)
		}

		if retrieved.Status != models.ImportFailed || retrieved.ErrorMessage != shared.ErrInvalidInput.Error() {
			t.Errorf("unexpected outcome: %+v", retrieved)
		}
		if retrieved.ItemsTotal != 3 || retrieved.ItemsImported != 2 || retrieved.ItemsFailed != 1 {
			t.Errorf("unexpected counts: %+v", retrieved)
		}
		if retrieved.StartedAt == nil || retrieved.CompletedAt == nil {
			t.Error("expected start and completion timestamps")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewImportJobRepository(db)
		for _, src := range []string{"a.csv", "b.csv", "c.json"} {
			job := models.NewImportJob(src)
			if src == "b.csv" {
				job.Start(0)
				job.Finish(nil)
			}
			if err := repo.Create(job); err != nil {
				t.Fatalf("failed to create import job: %v", err)
			}
		}

		jobs, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list import jobs: %v", err)
		}
		if len(jobs) != 3 || jobs[0].Source != "c.json" {
			t.Errorf("expected newest first, got %d jobs", len(jobs))
		}

		limited, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("failed to list import jobs: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(limited))
		}

		completed, err := repo.List(map[string]any{"status": models.ImportCompleted})
		if err != nil {
			t.Fatalf("failed to list import jobs: %v", err)
		}
		if len(completed) != 1 || completed[0].Source != "b.csv" {
			t.Errorf("expected b.csv, got %+v", completed)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewImportJobRepository(db)
		job := models.NewImportJob("a.csv")
		if err := repo.Create(job); err != nil {
			t.Fatalf("failed to create import job: %v", err)
		}
		if err := repo.Delete(job.ID); err != nil {
			t.Fatalf("failed to delete import job: %v", err)
		}
		if _, err := repo.Get(job.ID); err == nil {
			t.Error("expected error when getting deleted job")
		}
	})
}

func TestItemImportAdapter_SaveItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewItemRepository(db)
	adapter := NewItemImportAdapter(repo)

	first := newItem("Hollow Knight", "Switch", models.StatusBacklog)
	first.ImageURL = "https://example.com/hk.jpg"

	created, err := adapter.SaveItem(first)
	if err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	if !created {
		t.Error("expected first save to create")
	}

	again := models.NewItem("hollow knight", "Switch", models.StatusCompleted)
	created, err = adapter.SaveItem(again)
	if err != nil {
		t.Fatalf("failed to save item: %v", err)
	}
	if created {
		t.Error("expected second save to update")
	}
	if again.ID != first.ID {
		t.Errorf("expected update of %s, got %s", first.ID, again.ID)
	}

	items, err := repo.List(nil)
	if err != nil {
		t.Fatalf("failed to list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Status != models.StatusCompleted {
		t.Errorf("expected status to be overwritten, got %s", items[0].Status)
	}
	if items[0].ImageURL != "https://example.com/hk.jpg" {
		t.Errorf("expected cover to be kept, got %q", items[0].ImageURL)
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "items")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for a table without a sequence")
	}
}
