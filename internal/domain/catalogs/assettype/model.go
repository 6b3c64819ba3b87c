// Package assettype provides the user-configurable asset schema.
// An asset type enables a subset of a fixed property allow-list; assets
// of that type carry values only for enabled properties.
package assettype

import (
	"context"
	"time"

	"gims/internal/core/apperror"
	"gims/internal/core/entity"
	"gims/internal/core/id"
)

// ValidPropertyNames is the fixed allow-list of asset properties an
// asset type may enable.
var ValidPropertyNames = []string{
	"serial_number",
	"model",
	"manufacturer",
	"purchase_date",
	"purchase_price",
	"warranty_expiry",
	"location",
	"assigned_to",
	"condition",
	"remarks",
}

func validPropertyName(name string) bool {
	for _, p := range ValidPropertyNames {
		if p == name {
			return true
		}
	}
	return false
}

// PropertyConfig declares one enabled property of an asset type.
type PropertyConfig struct {
	PropertyName string `db:"property_name" json:"propertyName"`
	IsRequired   bool   `db:"is_required" json:"isRequired"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
}

// AssetType declares which properties assets of this type carry.
type AssetType struct {
	entity.BaseEntity

	// Name is unique across the catalog
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`

	// Properties is the enabled subset of ValidPropertyNames
	Properties []PropertyConfig `db:"-" json:"properties"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewAssetType creates an asset type with required fields.
func NewAssetType(name string) *AssetType {
	return &AssetType{
		BaseEntity: entity.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable.
func (t *AssetType) Validate(ctx context.Context) error {
	if t.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	seen := make(map[string]bool, len(t.Properties))
	for _, p := range t.Properties {
		if !validPropertyName(p.PropertyName) {
			return apperror.NewValidation("unknown property name").
				WithDetail("field", "properties").
				WithDetail("value", p.PropertyName)
		}
		if seen[p.PropertyName] {
			return apperror.NewValidation("duplicate property name").
				WithDetail("field", "properties").
				WithDetail("value", p.PropertyName)
		}
		seen[p.PropertyName] = true
	}
	return nil
}

// EnabledProperty returns the config for name if the type enables it.
func (t *AssetType) EnabledProperty(name string) (PropertyConfig, bool) {
	for _, p := range t.Properties {
		if p.PropertyName == name {
			return p, true
		}
	}
	return PropertyConfig{}, false
}

// Asset is a concrete tracked item of some asset type.
type Asset struct {
	entity.BaseEntity

	AssetTypeFk id.ID  `db:"asset_type_fk" json:"assetTypeFk"`
	AssetTag    string `db:"asset_tag" json:"assetTag"`
	Name        string `db:"name" json:"name"`

	// Properties holds values keyed by property name. Keys must be
	// within the type's enabled set.
	Properties map[string]string `db:"-" json:"properties"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	IsActive bool `db:"is_active" json:"isActive"`
}

// NewAsset creates an asset of the given type.
func NewAsset(assetTypeFk id.ID, assetTag, name string) *Asset {
	now := time.Now().UTC()
	return &Asset{
		BaseEntity:  entity.NewBaseEntity(),
		AssetTypeFk: assetTypeFk,
		AssetTag:    assetTag,
		Name:        name,
		Properties:  make(map[string]string),
		CreatedAt:   now,
		UpdatedAt:   now,
		IsActive:    true,
	}
}

// Validate implements entity.Validatable.
// Containment against the type's enabled set needs the type and is
// checked by the service.
func (a *Asset) Validate(ctx context.Context) error {
	if id.IsNil(a.AssetTypeFk) {
		return apperror.NewValidation("asset type is required").
			WithDetail("field", "assetTypeFk")
	}
	if a.AssetTag == "" {
		return apperror.NewValidation("asset tag is required").
			WithDetail("field", "assetTag")
	}
	if a.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// ValidateAgainstType checks that the asset's property values are
// contained in the type's enabled set and that required properties are
// present and non-empty.
func (a *Asset) ValidateAgainstType(assetType *AssetType) error {
	for name := range a.Properties {
		if _, ok := assetType.EnabledProperty(name); !ok {
			return apperror.NewValidation("property not enabled for asset type").
				WithDetail("property", name).
				WithDetail("assetType", assetType.Name)
		}
	}
	for _, p := range assetType.Properties {
		if p.IsRequired && a.Properties[p.PropertyName] == "" {
			return apperror.NewValidation("required property is missing").
				WithDetail("property", p.PropertyName).
				WithDetail("assetType", assetType.Name)
		}
	}
	return nil
}
