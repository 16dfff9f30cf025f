package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"matcha-storefront/internal/domain"
)

const (
	productIDPrefix = "gid://storefront/Product/"
	variantIDPrefix = "gid://storefront/ProductVariant/"
)

type ProductWriter interface {
	PutProduct(ctx context.Context, product domain.Product) error
}

// CSVImporter reads Shopify product export CSV files into a catalog.
type CSVImporter struct {
	reader   *csv.Reader
	catalog  ProductWriter
	currency string
}

func NewCSVImporter(r io.Reader, catalog ProductWriter, currency string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // exports pad trailing columns inconsistently
	if currency == "" {
		currency = "USD"
	}
	return &CSVImporter{
		reader:   csvr,
		catalog:  catalog,
		currency: currency,
	}
}

type csvRow struct {
	Handle      string
	Title       string
	Description string
	Tags        []string
	OptionName  string
	OptionValue string
	Price       string
	Inventory   *int
	ImageURL    string
	ImageAlt    string
}

// Run parses rows and writes one product per handle. Rows repeating a handle
// without a title carry extra variants or images for that product.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["Handle"]; !ok {
		return 0, errors.New("read headers: missing Handle column")
	}

	var (
		current  *domain.Product
		optName  string
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		if current == nil || row.Handle != current.Handle {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			if row.Title == "" {
				return imported, fmt.Errorf("product %q: first row must carry a title", row.Handle)
			}
			current = &domain.Product{
				ID:          productIDPrefix + row.Handle,
				Handle:      row.Handle,
				Title:       row.Title,
				Description: row.Description,
				Tags:        row.Tags,
			}
			optName = row.OptionName
		}

		if err := i.apply(current, optName, row); err != nil {
			return imported, err
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) apply(p *domain.Product, optName string, row *csvRow) error {
	if row.ImageURL != "" && p.FeaturedImage == nil {
		p.FeaturedImage = &domain.Image{URL: row.ImageURL, AltText: row.ImageAlt}
	}
	if row.Price == "" {
		return nil
	}

	price, err := domain.NewMoney(row.Price, i.currency)
	if err != nil {
		return fmt.Errorf("product %q: invalid price %q: %w", p.Handle, row.Price, err)
	}
	title := row.OptionValue
	if title == "" {
		title = "Default Title"
	}
	v := domain.Variant{
		ID:                fmt.Sprintf("%s%s-%d", variantIDPrefix, p.Handle, len(p.Variants)+1),
		Title:             title,
		Price:             price,
		AvailableForSale:  row.Inventory == nil || *row.Inventory > 0,
		QuantityAvailable: row.Inventory,
		ProductID:         p.ID,
	}
	if row.OptionValue != "" && optName != "" {
		v.SelectedOptions = []domain.SelectedOption{{Name: optName, Value: row.OptionValue}}
	}
	p.Variants = append(p.Variants, v)
	return nil
}

func (i *CSVImporter) save(ctx context.Context, p *domain.Product) error {
	if len(p.Variants) == 0 {
		return fmt.Errorf("invalid product %q: no priced variant", p.Handle)
	}
	p.PriceRange = priceRange(p.Variants)
	if err := i.catalog.PutProduct(ctx, *p); err != nil {
		return fmt.Errorf("put product %q: %w", p.Handle, err)
	}
	return nil
}

func priceRange(variants []domain.Variant) domain.PriceRange {
	r := domain.PriceRange{Min: variants[0].Price, Max: variants[0].Price}
	for _, v := range variants[1:] {
		if v.Price.Amount.LessThan(r.Min.Amount) {
			r.Min = v.Price
		}
		if v.Price.Amount.GreaterThan(r.Max.Amount) {
			r.Max = v.Price
		}
	}
	return r
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	handle := pick(record, index, "Handle")
	if handle == "" {
		return nil
	}
	row := &csvRow{
		Handle:      handle,
		Title:       pick(record, index, "Title"),
		Description: pick(record, index, "Body (HTML)"),
		OptionName:  pick(record, index, "Option1 Name"),
		OptionValue: pick(record, index, "Option1 Value"),
		Price:       pick(record, index, "Variant Price"),
		ImageURL:    pick(record, index, "Image Src"),
		ImageAlt:    pick(record, index, "Image Alt Text"),
	}
	if tags := pick(record, index, "Tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				row.Tags = append(row.Tags, t)
			}
		}
	}
	if qty := pick(record, index, "Variant Inventory Qty"); qty != "" {
		if n, err := strconv.Atoi(qty); err == nil {
			row.Inventory = &n
		}
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
