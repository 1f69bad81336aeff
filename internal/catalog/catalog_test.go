package catalog

import (
	"errors"
	"testing"

	"github.com/pow3r/cashout/pkg/cashout/models"
)

func TestAll_ReturnsSixItemsInOrder(t *testing.T) {
	all := All()
	if len(all) != 6 {
		t.Fatalf("Expected 6 workflow items, got %d", len(all))
	}
	want := []string{FlowModificationID, MessageReviewID, ProjectManagementID, NewPostFlowID, GarageID, APIHealthID}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("Expected item %d to be %s, got %s", i, id, all[i].ID)
		}
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	all[0].Title = "changed"
	if All()[0].Title == "changed" {
		t.Error("Expected All to return a copy of the catalog")
	}
}

func TestFind(t *testing.T) {
	item, err := Find(NewPostFlowID)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if item.Title != "New Post Flow" {
		t.Errorf("Expected New Post Flow, got %s", item.Title)
	}

	_, err = Find("nope")
	if !errors.Is(err, ErrWorkflowNotFound) {
		t.Errorf("Expected ErrWorkflowNotFound, got %v", err)
	}
}

func TestByCategory(t *testing.T) {
	api := ByCategory(models.CategoryAPI)
	if len(api) != 2 {
		t.Errorf("Expected 2 api items, got %d", len(api))
	}
	for _, it := range api {
		if it.Category != models.CategoryAPI {
			t.Errorf("Unexpected category %s for %s", it.Category, it.ID)
		}
	}
	if got := len(ByCategory(models.CategoryUI)); got != 4 {
		t.Errorf("Expected 4 ui items, got %d", got)
	}
	if got := len(ByCategory("")); got != 6 {
		t.Errorf("Expected all 6 items for empty category, got %d", got)
	}
}

func TestCounts(t *testing.T) {
	counts := Counts()
	if counts[models.ItemActive] != 4 || counts[models.ItemPending] != 1 || counts[models.ItemInactive] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}
