package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"matcha-storefront/internal/domain"
)

type stubCatalog struct {
	items []domain.Product
	err   error
}

func (s *stubCatalog) PutProduct(_ context.Context, p domain.Product) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, p)
	return nil
}

const exportCSV = `Handle,Title,Body (HTML),Tags,Option1 Name,Option1 Value,Variant Price,Variant Inventory Qty,Image Src,Image Alt Text
ceremonial-matcha,Ceremonial Matcha,Stone-ground first harvest,"matcha, tea",Size,30g,18.00,12,https://cdn.example/ceremonial.jpg,Tin
ceremonial-matcha,,,,,100g,48.00,0,,
ceremonial-matcha,,,,,,,,https://cdn.example/ceremonial-2.jpg,
bowl-chawan,Matcha Bowl,Hand-thrown chawan,"bowl, teaware",,,32.00,,https://cdn.example/bowl.jpg,
`

func TestCSVImporter_Run(t *testing.T) {
	catalog := &stubCatalog{}
	imp := NewCSVImporter(strings.NewReader(exportCSV), catalog, "USD")

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 || len(catalog.items) != 2 {
		t.Fatalf("expected 2 products imported, got %d (%d saved)", count, len(catalog.items))
	}

	matcha := catalog.items[0]
	if matcha.Handle != "ceremonial-matcha" || matcha.ID != productIDPrefix+"ceremonial-matcha" {
		t.Fatalf("unexpected product identity: %+v", matcha)
	}
	if len(matcha.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(matcha.Variants))
	}
	if matcha.Variants[0].SelectedOptions[0] != (domain.SelectedOption{Name: "Size", Value: "30g"}) {
		t.Fatalf("unexpected option: %+v", matcha.Variants[0].SelectedOptions)
	}
	if matcha.Variants[1].SelectedOptions[0].Value != "100g" || matcha.Variants[1].AvailableForSale {
		t.Fatalf("expected sold out 100g variant, got %+v", matcha.Variants[1])
	}
	if matcha.PriceRange.Min.Amount.String() != "18" || matcha.PriceRange.Max.Amount.String() != "48" {
		t.Fatalf("unexpected price range: %s - %s", matcha.PriceRange.Min.Amount, matcha.PriceRange.Max.Amount)
	}
	if matcha.FeaturedImage == nil || matcha.FeaturedImage.URL != "https://cdn.example/ceremonial.jpg" {
		t.Fatalf("expected first image to be featured, got %+v", matcha.FeaturedImage)
	}
	if len(matcha.Tags) != 2 || matcha.Tags[1] != "tea" {
		t.Fatalf("unexpected tags: %v", matcha.Tags)
	}

	bowl := catalog.items[1]
	if len(bowl.Variants) != 1 || bowl.Variants[0].Title != "Default Title" || !bowl.Variants[0].AvailableForSale {
		t.Fatalf("unexpected bowl variants: %+v", bowl.Variants)
	}
	if bowl.Variants[0].QuantityAvailable != nil {
		t.Fatalf("untracked inventory should stay nil")
	}
}

func TestCSVImporter_MissingTitle(t *testing.T) {
	data := "Handle,Title,Variant Price\norphan,,10.00\n"
	_, err := NewCSVImporter(strings.NewReader(data), &stubCatalog{}, "USD").Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "first row must carry a title") {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestCSVImporter_NoPricedVariant(t *testing.T) {
	data := "Handle,Title,Variant Price\nwhisk,Bamboo Whisk,\n"
	_, err := NewCSVImporter(strings.NewReader(data), &stubCatalog{}, "USD").Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no priced variant") {
		t.Fatalf("expected variant error, got %v", err)
	}
}

func TestCSVImporter_WriterError(t *testing.T) {
	catalog := &stubCatalog{err: errors.New("boom")}
	_, err := NewCSVImporter(strings.NewReader(exportCSV), catalog, "USD").Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected writer error, got %v", err)
	}
}
