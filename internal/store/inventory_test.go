package store

import (
	"context"
	"testing"
)

func TestInventoryListClassifications(t *testing.T) {
	is := NewInventoryStore(setupTestDB(t))

	classifications, err := is.ListClassifications(context.Background())
	if err != nil {
		t.Fatalf("list classifications: %v", err)
	}
	if len(classifications) == 0 {
		t.Fatal("expected seeded classifications")
	}
	for i := 1; i < len(classifications); i++ {
		if classifications[i-1].Name > classifications[i].Name {
			t.Errorf("classifications not ordered by name: %q before %q", classifications[i-1].Name, classifications[i].Name)
		}
	}
}

func TestInventoryAddAndGetVehicle(t *testing.T) {
	is := NewInventoryStore(setupTestDB(t))
	ctx := context.Background()

	c, err := is.AddClassification(ctx, "Electric")
	if err != nil {
		t.Fatalf("add classification: %v", err)
	}
	if c.ID == 0 || c.Name != "Electric" {
		t.Errorf("classification = %+v", c)
	}

	v, err := is.AddVehicle(ctx, VehicleInput{
		Make:             "Tesla",
		Model:            "Model 3",
		Year:             "2021",
		Description:      "Quiet.",
		Image:            "/images/vehicles/no-image.png",
		Thumbnail:        "/images/vehicles/no-image-tn.png",
		Price:            38990.5,
		Miles:            12000,
		Color:            "White",
		ClassificationID: c.ID,
	})
	if err != nil {
		t.Fatalf("add vehicle: %v", err)
	}
	if v.ClassificationName != "Electric" {
		t.Errorf("classification name = %q, want %q", v.ClassificationName, "Electric")
	}
	if v.Price != 38990.5 {
		t.Errorf("price = %v, want 38990.5", v.Price)
	}

	got, err := is.GetVehicle(ctx, v.ID)
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if got == nil || got.Model != "Model 3" {
		t.Errorf("got %+v, want Model 3", got)
	}

	vehicles, err := is.ListByClassification(ctx, c.ID)
	if err != nil {
		t.Fatalf("list by classification: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("len = %d, want 1", len(vehicles))
	}
}

func TestInventoryNotFound(t *testing.T) {
	is := NewInventoryStore(setupTestDB(t))
	ctx := context.Background()

	v, err := is.GetVehicle(ctx, 999)
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if v != nil {
		t.Error("expected nil for nonexistent vehicle")
	}

	c, err := is.GetClassification(ctx, 999)
	if err != nil {
		t.Fatalf("get classification: %v", err)
	}
	if c != nil {
		t.Error("expected nil for nonexistent classification")
	}

	vehicles, err := is.ListByClassification(ctx, 999)
	if err != nil {
		t.Fatalf("list by classification: %v", err)
	}
	if len(vehicles) != 0 {
		t.Errorf("len = %d, want 0", len(vehicles))
	}
}

func TestInventoryDuplicateClassification(t *testing.T) {
	is := NewInventoryStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := is.AddClassification(ctx, "Electric"); err != nil {
		t.Fatalf("add classification: %v", err)
	}
	if _, err := is.AddClassification(ctx, "Electric"); err == nil {
		t.Fatal("expected error for duplicate classification")
	}
}
