package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/configurator/internal/canon"
	"github.com/roach88/configurator/internal/document"
)

// describers holds the field layout of every section.
var describers = map[document.Section]describeFunc{
	document.SectionShop:          describeShop,
	document.SectionChannels:      describeChannel,
	document.SectionWarehouses:    describeWarehouse,
	document.SectionShippingZones: describeShippingZone,
	document.SectionTaxClasses:    describeTaxClass,
	document.SectionAttributes:    describeAttribute,
	document.SectionProductTypes:  describeProductType,
	document.SectionPageTypes:     describePageType,
	document.SectionCategories:    describeCategory,
	document.SectionCollections:   describeCollection,
	document.SectionProducts:      describeProduct,
	document.SectionModels:        describeModel,
	document.SectionMenus:         describeMenu,
}

var errMultipleLinks = errors.New("menu item links to more than one of url, category, collection and model")

func unexpected(record document.Record) error {
	return fmt.Errorf("unexpected record type %T", record)
}

func describeShop(record document.Record) ([]field, error) {
	s, ok := record.(*document.Shop)
	if !ok || s == nil {
		return nil, unexpected(record)
	}
	return []field{
		text("name", s.Name),
		text("description", s.Description),
		text("defaultMailSenderName", s.DefaultMailSenderName),
		text("defaultMailSenderAddress", s.DefaultMailSenderAddress),
		boolean("displayGrossPrices", s.DisplayGrossPrices),
		boolean("trackInventoryByDefault", s.TrackInventoryByDefault),
		boolean("fulfillmentAutoApprove", s.FulfillmentAutoApprove),
		enum("defaultWeightUnit", s.DefaultWeightUnit),
		integer("limitQuantityPerCheckout", s.LimitQuantityPerCheckout),
		integer("defaultDigitalMaxDownloads", s.DefaultDigitalMaxDownloads),
	}, nil
}

func describeChannel(record document.Record) ([]field, error) {
	c, ok := record.(document.Channel)
	if !ok {
		return nil, unexpected(record)
	}
	return []field{
		text("name", c.Name),
		enum("currencyCode", c.CurrencyCode),
		enum("defaultCountry", c.DefaultCountry),
		boolean("isActive", c.IsActive),
	}, nil
}

func describeWarehouse(record document.Record) ([]field, error) {
	w, ok := record.(document.Warehouse)
	if !ok {
		return nil, unexpected(record)
	}
	fields := []field{
		text("name", w.Name),
		text("email", w.Email),
		boolean("isPrivate", w.IsPrivate),
		enum("clickAndCollectOption", w.ClickAndCollectOption),
	}
	if w.Address != nil {
		fields = append(fields, mergeObject("address", addressObject(*w.Address)))
	}
	return fields, nil
}

// addressObject keeps only the address lines that are set.
func addressObject(a document.Address) map[string]any {
	out := make(map[string]any)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	set("companyName", a.CompanyName)
	set("streetAddress1", a.StreetAddress1)
	set("streetAddress2", a.StreetAddress2)
	set("city", a.City)
	set("cityArea", a.CityArea)
	set("postalCode", a.PostalCode)
	set("country", strings.ToUpper(a.Country))
	set("countryArea", a.CountryArea)
	set("phone", a.Phone)
	return out
}

func describeShippingZone(record document.Record) ([]field, error) {
	z, ok := record.(document.ShippingZone)
	if !ok {
		return nil, unexpected(record)
	}
	fields := []field{
		text("description", z.Description),
		boolean("default", z.Default),
		refs("warehouses", canon.Set, document.SectionWarehouses, z.Warehouses),
		refs("channels", canon.Set, document.SectionChannels, z.Channels),
	}
	if z.Countries != nil {
		fields = append(fields, required("countries", canon.EnumSet, z.Countries))
	}
	return fields, nil
}

func describeTaxClass(record document.Record) ([]field, error) {
	c, ok := record.(document.TaxClass)
	if !ok {
		return nil, unexpected(record)
	}
	if c.CountryRates == nil {
		return nil, nil
	}
	rates := make([]any, len(c.CountryRates))
	for i, r := range c.CountryRates {
		rates[i] = map[string]any{
			"countryCode": strings.ToUpper(strings.TrimSpace(r.CountryCode)),
			"rate":        r.Rate,
		}
	}
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].(map[string]any)["countryCode"].(string) < rates[j].(map[string]any)["countryCode"].(string)
	})
	return []field{required("countryRates", canon.Object, rates)}, nil
}

// describeAttribute builds the payload from the typed variant of the
// attribute. The switch is exhaustive over document.AttributeDefinition.
func describeAttribute(record document.Record) ([]field, error) {
	a, ok := record.(document.Attribute)
	if !ok {
		return nil, unexpected(record)
	}
	def, err := a.Definition()
	if err != nil {
		return nil, err
	}

	fields := []field{
		text("slug", a.Slug),
		enum("type", a.Type),
		required("inputType", canon.Enum, def.InputType()),
	}
	switch d := def.(type) {
	case document.ChoiceAttribute:
		fields = append(fields, required("values", canon.List, d.Values))
	case document.ReferenceAttribute:
		fields = append(fields, required("entityType", canon.Enum, d.EntityType))
	case document.NumericAttribute:
		fields = append(fields, enum("unit", d.Unit))
	case document.ScalarAttribute:
	default:
		return nil, &document.FieldError{Field: "inputType", Err: fmt.Errorf("unsupported attribute variant %T", def)}
	}
	return fields, nil
}

func describeProductType(record document.Record) ([]field, error) {
	p, ok := record.(document.ProductType)
	if !ok {
		return nil, unexpected(record)
	}
	return []field{
		enum("kind", p.Kind),
		boolean("isShippingRequired", p.IsShippingRequired),
		ref("taxClass", document.SectionTaxClasses, p.TaxClass),
		refs("productAttributes", canon.List, document.SectionAttributes, p.ProductAttributes),
		refs("variantAttributes", canon.List, document.SectionAttributes, p.VariantAttributes),
	}, nil
}

func describePageType(record document.Record) ([]field, error) {
	p, ok := record.(document.PageType)
	if !ok {
		return nil, unexpected(record)
	}
	return []field{
		refs("attributes", canon.List, document.SectionAttributes, p.Attributes),
	}, nil
}

// describeCategory accepts a planned node, whose parent may be implied by
// nesting, or a bare category.
func describeCategory(record document.Record) ([]field, error) {
	var (
		c      document.Category
		parent *string
	)
	switch r := record.(type) {
	case document.CategoryNode:
		c = r.Category
		if r.Parent != "" {
			p := r.Parent
			parent = &p
		}
	case document.Category:
		c = r
		parent = r.Parent
	default:
		return nil, unexpected(record)
	}
	return []field{
		required("name", canon.Text, c.Name),
		text("description", c.Description),
		ref("parent", document.SectionCategories, parent),
	}, nil
}

func describeCollection(record document.Record) ([]field, error) {
	c, ok := record.(document.Collection)
	if !ok {
		return nil, unexpected(record)
	}
	return []field{
		required("name", canon.Text, c.Name),
		text("description", c.Description),
		refs("channels", canon.Set, document.SectionChannels, c.Channels),
	}, nil
}

func describeProduct(record document.Record) ([]field, error) {
	p, ok := record.(document.Product)
	if !ok {
		return nil, unexpected(record)
	}
	productType, category := p.ProductType, p.Category
	return []field{
		required("name", canon.Text, p.Name),
		text("description", p.Description),
		ref("productType", document.SectionProductTypes, &productType),
		ref("category", document.SectionCategories, &category),
		ref("taxClass", document.SectionTaxClasses, p.TaxClass),
		number("weight", p.Weight.Float64()),
		number("rating", p.Rating.Float64()),
		refs("collections", canon.Set, document.SectionCollections, p.Collections),
		refs("channels", canon.Set, document.SectionChannels, p.Channels),
		attributeValues("attributes", p.Attributes),
	}, nil
}

func describeModel(record document.Record) ([]field, error) {
	m, ok := record.(document.Model)
	if !ok {
		return nil, unexpected(record)
	}
	modelType := m.ModelType
	return []field{
		required("title", canon.Text, m.Title),
		text("content", m.Content),
		ref("modelType", document.SectionPageTypes, &modelType),
		boolean("isPublished", m.IsPublished),
		attributeValues("attributes", m.Attributes),
	}, nil
}

// attributeValues resolves attribute names to remote IDs and keys the
// values by ID. Values of attributes the document does not list are kept.
// Names are resolved in sorted order so that the first
// missing attribute reported is stable.
func attributeValues(name string, values map[string]string) field {
	if values == nil {
		return field{name: name, form: canon.Object}
	}
	return field{name: name, form: canon.Object, merge: true, resolve: func(ctx context.Context, r *Resolver) (any, error) {
		names := make([]string, 0, len(values))
		for n := range values {
			names = append(names, n)
		}
		sort.Strings(names)

		out := make(map[string]any, len(values))
		for _, n := range names {
			resolved, err := r.Resolve(ctx, document.SectionAttributes, n)
			if err != nil {
				return nil, err
			}
			out[resolved.ID] = values[n]
		}
		return out, nil
	}}
}

func describeMenu(record document.Record) ([]field, error) {
	m, ok := record.(document.Menu)
	if !ok {
		return nil, unexpected(record)
	}
	for _, item := range m.Items {
		if err := checkMenuLinks(item); err != nil {
			return nil, err
		}
	}
	if m.Items == nil {
		return nil, nil
	}
	items := m.Items
	return []field{{name: "items", form: canon.Object, resolve: func(ctx context.Context, r *Resolver) (any, error) {
		return resolveMenuItems(ctx, r, items)
	}}}, nil
}

func checkMenuLinks(item document.MenuItem) error {
	links := 0
	for _, p := range []*string{item.URL, item.Category, item.Collection, item.Model} {
		if p != nil {
			links++
		}
	}
	if links > 1 {
		return &document.FieldError{Field: "items." + item.Name, Err: errMultipleLinks}
	}
	for _, child := range item.Children {
		if err := checkMenuLinks(child); err != nil {
			return err
		}
	}
	return nil
}

// resolveMenuItems turns the item tree into an object tree whose links are
// remote IDs.
func resolveMenuItems(ctx context.Context, r *Resolver, items []document.MenuItem) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		obj := map[string]any{"name": item.Name}
		if item.URL != nil {
			obj["url"] = *item.URL
		}
		links := []struct {
			key     string
			section document.Section
			value   *string
		}{
			{"category", document.SectionCategories, item.Category},
			{"collection", document.SectionCollections, item.Collection},
			{"model", document.SectionModels, item.Model},
		}
		for _, link := range links {
			if link.value == nil {
				continue
			}
			resolved, err := r.Resolve(ctx, link.section, *link.value)
			if err != nil {
				return nil, err
			}
			obj[link.key] = resolved.ID
		}
		if len(item.Children) > 0 {
			children, err := resolveMenuItems(ctx, r, item.Children)
			if err != nil {
				return nil, err
			}
			obj["children"] = children
		}
		out = append(out, obj)
	}
	return out, nil
}
