package document

// Section names a group of records of one kind.
type Section string

const (
	SectionShop          Section = "shop"
	SectionChannels      Section = "channels"
	SectionWarehouses    Section = "warehouses"
	SectionShippingZones Section = "shippingZones"
	SectionTaxClasses    Section = "taxClasses"
	SectionAttributes    Section = "attributes"
	SectionProductTypes  Section = "productTypes"
	SectionPageTypes     Section = "pageTypes"
	SectionCategories    Section = "categories"
	SectionCollections   Section = "collections"
	SectionProducts      Section = "products"
	SectionModels        Section = "models"
	SectionMenus         Section = "menus"
)

// ShopIdentifier is the identifier of the singleton shop record.
const ShopIdentifier = "shop"

// Sections lists every section in document order.
var Sections = []Section{
	SectionShop,
	SectionChannels,
	SectionWarehouses,
	SectionShippingZones,
	SectionTaxClasses,
	SectionAttributes,
	SectionProductTypes,
	SectionPageTypes,
	SectionCategories,
	SectionCollections,
	SectionProducts,
	SectionModels,
	SectionMenus,
}

// IsSingleton reports whether the section holds a single record.
func (s Section) IsSingleton() bool {
	return s == SectionShop
}

// IsHierarchical reports whether records in the section form a tree.
func (s Section) IsHierarchical() bool {
	return s == SectionCategories
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

func (s Section) String() string {
	return string(s)
}
