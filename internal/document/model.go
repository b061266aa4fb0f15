package document

// Record is an entity record with a section-unique identifier.
type Record interface {
	Identifier() string
}

// Document is the desired state of the remote service.
type Document struct {
	Shop          *Shop          `yaml:"shop,omitempty" json:"shop,omitempty"`
	Channels      []Channel      `yaml:"channels,omitempty" json:"channels,omitempty" validate:"dive"`
	Warehouses    []Warehouse    `yaml:"warehouses,omitempty" json:"warehouses,omitempty" validate:"dive"`
	ShippingZones []ShippingZone `yaml:"shippingZones,omitempty" json:"shippingZones,omitempty" validate:"dive"`
	TaxClasses    []TaxClass     `yaml:"taxClasses,omitempty" json:"taxClasses,omitempty" validate:"dive"`
	Attributes    []Attribute    `yaml:"attributes,omitempty" json:"attributes,omitempty" validate:"dive"`
	ProductTypes  []ProductType  `yaml:"productTypes,omitempty" json:"productTypes,omitempty" validate:"dive"`
	PageTypes     []PageType     `yaml:"pageTypes,omitempty" json:"pageTypes,omitempty" validate:"dive"`
	Categories    []Category     `yaml:"categories,omitempty" json:"categories,omitempty" validate:"dive"`
	Collections   []Collection   `yaml:"collections,omitempty" json:"collections,omitempty" validate:"dive"`
	Products      []Product      `yaml:"products,omitempty" json:"products,omitempty" validate:"dive"`
	Models        []Model        `yaml:"models,omitempty" json:"models,omitempty" validate:"dive"`
	Menus         []Menu         `yaml:"menus,omitempty" json:"menus,omitempty" validate:"dive"`
}

// Records returns the top-level records of a section in document order.
// For categories only the roots of the nested tree are returned; use
// Identifiers to see every node.
func (d *Document) Records(section Section) []Record {
	if d == nil {
		return nil
	}
	switch section {
	case SectionShop:
		if d.Shop == nil {
			return nil
		}
		return []Record{d.Shop}
	case SectionChannels:
		return toRecords(d.Channels)
	case SectionWarehouses:
		return toRecords(d.Warehouses)
	case SectionShippingZones:
		return toRecords(d.ShippingZones)
	case SectionTaxClasses:
		return toRecords(d.TaxClasses)
	case SectionAttributes:
		return toRecords(d.Attributes)
	case SectionProductTypes:
		return toRecords(d.ProductTypes)
	case SectionPageTypes:
		return toRecords(d.PageTypes)
	case SectionCategories:
		return toRecords(d.Categories)
	case SectionCollections:
		return toRecords(d.Collections)
	case SectionProducts:
		return toRecords(d.Products)
	case SectionModels:
		return toRecords(d.Models)
	case SectionMenus:
		return toRecords(d.Menus)
	default:
		return nil
	}
}

// Identifiers returns every identifier declared in a section, in document
// order. Nested subcategories are included depth-first.
func (d *Document) Identifiers(section Section) []string {
	if section == SectionCategories {
		if d == nil {
			return nil
		}
		nodes := FlattenCategories(d.Categories)
		out := make([]string, len(nodes))
		for i, n := range nodes {
			out[i] = n.Category.Slug
		}
		return out
	}
	records := d.Records(section)
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Identifier()
	}
	return out
}

func toRecords[T Record](items []T) []Record {
	if len(items) == 0 {
		return nil
	}
	out := make([]Record, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// Shop holds global settings.
type Shop struct {
	Name                       *string `yaml:"name,omitempty" json:"name,omitempty"`
	Description                *string `yaml:"description,omitempty" json:"description,omitempty"`
	DefaultMailSenderName      *string `yaml:"defaultMailSenderName,omitempty" json:"defaultMailSenderName,omitempty"`
	DefaultMailSenderAddress   *string `yaml:"defaultMailSenderAddress,omitempty" json:"defaultMailSenderAddress,omitempty" validate:"omitempty,email"`
	DisplayGrossPrices         *bool   `yaml:"displayGrossPrices,omitempty" json:"displayGrossPrices,omitempty"`
	TrackInventoryByDefault    *bool   `yaml:"trackInventoryByDefault,omitempty" json:"trackInventoryByDefault,omitempty"`
	FulfillmentAutoApprove     *bool   `yaml:"fulfillmentAutoApprove,omitempty" json:"fulfillmentAutoApprove,omitempty"`
	DefaultWeightUnit          *string `yaml:"defaultWeightUnit,omitempty" json:"defaultWeightUnit,omitempty"`
	LimitQuantityPerCheckout   *int    `yaml:"limitQuantityPerCheckout,omitempty" json:"limitQuantityPerCheckout,omitempty" validate:"omitempty,gte=1"`
	DefaultDigitalMaxDownloads *int    `yaml:"defaultDigitalMaxDownloads,omitempty" json:"defaultDigitalMaxDownloads,omitempty" validate:"omitempty,gte=0"`
}

// Identifier returns ShopIdentifier.
func (s *Shop) Identifier() string { return ShopIdentifier }

// Channel is a sales channel.
type Channel struct {
	Name           *string `yaml:"name,omitempty" json:"name,omitempty"`
	Slug           string  `yaml:"slug" json:"slug" validate:"required"`
	CurrencyCode   *string `yaml:"currencyCode,omitempty" json:"currencyCode,omitempty" validate:"omitempty,len=3"`
	DefaultCountry *string `yaml:"defaultCountry,omitempty" json:"defaultCountry,omitempty" validate:"omitempty,len=2"`
	IsActive       *bool   `yaml:"isActive,omitempty" json:"isActive,omitempty"`
}

// Identifier returns the slug.
func (c Channel) Identifier() string { return c.Slug }

// Warehouse is a stock location.
type Warehouse struct {
	Name                  *string  `yaml:"name,omitempty" json:"name,omitempty"`
	Slug                  string   `yaml:"slug" json:"slug" validate:"required"`
	Email                 *string  `yaml:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	IsPrivate             *bool    `yaml:"isPrivate,omitempty" json:"isPrivate,omitempty"`
	ClickAndCollectOption *string  `yaml:"clickAndCollectOption,omitempty" json:"clickAndCollectOption,omitempty"`
	Address               *Address `yaml:"address,omitempty" json:"address,omitempty"`
}

// Identifier returns the slug.
func (w Warehouse) Identifier() string { return w.Slug }

// Address is a postal address. Lines left out keep their remote value.
type Address struct {
	CompanyName    string `yaml:"companyName,omitempty" json:"companyName,omitempty"`
	StreetAddress1 string `yaml:"streetAddress1,omitempty" json:"streetAddress1,omitempty"`
	StreetAddress2 string `yaml:"streetAddress2,omitempty" json:"streetAddress2,omitempty"`
	City           string `yaml:"city,omitempty" json:"city,omitempty"`
	CityArea       string `yaml:"cityArea,omitempty" json:"cityArea,omitempty"`
	PostalCode     string `yaml:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country        string `yaml:"country,omitempty" json:"country,omitempty" validate:"omitempty,len=2"`
	CountryArea    string `yaml:"countryArea,omitempty" json:"countryArea,omitempty"`
	Phone          string `yaml:"phone,omitempty" json:"phone,omitempty"`
}

// ShippingZone groups countries served by a set of warehouses and channels.
type ShippingZone struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Description *string  `yaml:"description,omitempty" json:"description,omitempty"`
	Default     *bool    `yaml:"default,omitempty" json:"default,omitempty"`
	Countries   []string `yaml:"countries,omitempty" json:"countries,omitempty" validate:"omitempty,dive,len=2"`
	Warehouses  []string `yaml:"warehouses,omitempty" json:"warehouses,omitempty"`
	Channels    []string `yaml:"channels,omitempty" json:"channels,omitempty"`
}

// Identifier returns the name.
func (z ShippingZone) Identifier() string { return z.Name }

// TaxClass is a named set of per-country tax rates.
type TaxClass struct {
	Name         string    `yaml:"name" json:"name" validate:"required"`
	CountryRates []TaxRate `yaml:"countryRates,omitempty" json:"countryRates,omitempty" validate:"omitempty,dive"`
}

// Identifier returns the name.
func (c TaxClass) Identifier() string { return c.Name }

// TaxRate is a rate in percent for one country.
type TaxRate struct {
	CountryCode string  `yaml:"countryCode" json:"countryCode" validate:"required,len=2"`
	Rate        float64 `yaml:"rate" json:"rate" validate:"gte=0,lte=100"`
}

// ProductType describes the attributes products of a kind carry.
type ProductType struct {
	Name               string   `yaml:"name" json:"name" validate:"required"`
	Kind               *string  `yaml:"kind,omitempty" json:"kind,omitempty"`
	IsShippingRequired *bool    `yaml:"isShippingRequired,omitempty" json:"isShippingRequired,omitempty"`
	TaxClass           *string  `yaml:"taxClass,omitempty" json:"taxClass,omitempty"`
	ProductAttributes  []string `yaml:"productAttributes,omitempty" json:"productAttributes,omitempty"`
	VariantAttributes  []string `yaml:"variantAttributes,omitempty" json:"variantAttributes,omitempty"`
}

// Identifier returns the name.
func (p ProductType) Identifier() string { return p.Name }

// PageType describes the attributes content models of a kind carry.
type PageType struct {
	Name       string   `yaml:"name" json:"name" validate:"required"`
	Attributes []string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Identifier returns the name.
func (p PageType) Identifier() string { return p.Name }

// Category is a node of the category tree. The parent of a node is either
// given explicitly or implied by nesting under Subcategories.
type Category struct {
	Name          string     `yaml:"name" json:"name" validate:"required"`
	Slug          string     `yaml:"slug" json:"slug" validate:"required"`
	Description   *string    `yaml:"description,omitempty" json:"description,omitempty"`
	Parent        *string    `yaml:"parent,omitempty" json:"parent,omitempty"`
	Subcategories []Category `yaml:"subcategories,omitempty" json:"subcategories,omitempty" validate:"omitempty,dive"`
}

// Identifier returns the slug.
func (c Category) Identifier() string { return c.Slug }

// Collection is a curated grouping of products published to channels.
type Collection struct {
	Name        string   `yaml:"name" json:"name" validate:"required"`
	Slug        string   `yaml:"slug" json:"slug" validate:"required"`
	Description *string  `yaml:"description,omitempty" json:"description,omitempty"`
	Channels    []string `yaml:"channels,omitempty" json:"channels,omitempty"`
}

// Identifier returns the slug.
func (c Collection) Identifier() string { return c.Slug }

// Product is a leaf catalog item.
type Product struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Slug        string            `yaml:"slug" json:"slug" validate:"required"`
	Description *string           `yaml:"description,omitempty" json:"description,omitempty"`
	ProductType string            `yaml:"productType" json:"productType" validate:"required"`
	Category    string            `yaml:"category" json:"category" validate:"required"`
	TaxClass    *string           `yaml:"taxClass,omitempty" json:"taxClass,omitempty"`
	Weight      *Number           `yaml:"weight,omitempty" json:"weight,omitempty" validate:"omitempty,gte=0"`
	Rating      *Number           `yaml:"rating,omitempty" json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Collections []string          `yaml:"collections,omitempty" json:"collections,omitempty"`
	Channels    []string          `yaml:"channels,omitempty" json:"channels,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Identifier returns the slug.
func (p Product) Identifier() string { return p.Slug }

// Model is a content page built from a page type.
type Model struct {
	Title       string            `yaml:"title" json:"title" validate:"required"`
	Slug        string            `yaml:"slug" json:"slug" validate:"required"`
	Content     *string           `yaml:"content,omitempty" json:"content,omitempty"`
	ModelType   string            `yaml:"modelType" json:"modelType" validate:"required"`
	IsPublished *bool             `yaml:"isPublished,omitempty" json:"isPublished,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Identifier returns the slug.
func (m Model) Identifier() string { return m.Slug }

// Menu is a navigation structure.
type Menu struct {
	Name  string     `yaml:"name" json:"name" validate:"required"`
	Items []MenuItem `yaml:"items,omitempty" json:"items,omitempty" validate:"omitempty,dive"`
}

// Identifier returns the name.
func (m Menu) Identifier() string { return m.Name }

// MenuItem links to at most one of a URL, category, collection or model.
type MenuItem struct {
	Name       string     `yaml:"name" json:"name" validate:"required"`
	URL        *string    `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`
	Category   *string    `yaml:"category,omitempty" json:"category,omitempty"`
	Collection *string    `yaml:"collection,omitempty" json:"collection,omitempty"`
	Model      *string    `yaml:"model,omitempty" json:"model,omitempty"`
	Children   []MenuItem `yaml:"children,omitempty" json:"children,omitempty" validate:"omitempty,dive"`
}
