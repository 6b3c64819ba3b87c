package assettype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
)

func TestAssetTypeValidate_PropertyAllowList(t *testing.T) {
	ctx := context.Background()

	at := NewAssetType("Ground Power Unit")
	at.Properties = []PropertyConfig{
		{PropertyName: "serial_number", IsRequired: true, DisplayOrder: 1},
		{PropertyName: "manufacturer", DisplayOrder: 2},
	}
	require.NoError(t, at.Validate(ctx))

	at.Properties = append(at.Properties, PropertyConfig{PropertyName: "engine_hours"})
	err := at.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "engine_hours", appErr.Details["value"])
}

func TestAssetTypeValidate_DuplicateProperty(t *testing.T) {
	at := NewAssetType("Ground Power Unit")
	at.Properties = []PropertyConfig{
		{PropertyName: "serial_number"},
		{PropertyName: "serial_number"},
	}

	err := at.Validate(context.Background())
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "serial_number", appErr.Details["value"])
}

func TestAssetValidateAgainstType(t *testing.T) {
	at := NewAssetType("Ground Power Unit")
	at.Properties = []PropertyConfig{
		{PropertyName: "serial_number", IsRequired: true},
		{PropertyName: "location"},
	}

	asset := NewAsset(at.ID, "GPU-001", "Houchin 690")
	asset.Properties["serial_number"] = "H690-2211"
	asset.Properties["location"] = "Bay 3"
	require.NoError(t, asset.ValidateAgainstType(at))

	// Values for properties the type does not enable are rejected.
	asset.Properties["condition"] = "serviceable"
	err := asset.ValidateAgainstType(at)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "condition", appErr.Details["property"])

	// A required property must be present and non-empty.
	delete(asset.Properties, "condition")
	asset.Properties["serial_number"] = ""
	err = asset.ValidateAgainstType(at)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "serial_number", appErr.Details["property"])
}

func TestAssetValidate_RequiredFields(t *testing.T) {
	ctx := context.Background()

	asset := NewAsset(id.Nil(), "GPU-001", "Houchin 690")
	err := asset.Validate(ctx)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "assetTypeFk", appErr.Details["field"])

	asset = NewAsset(id.New(), "", "Houchin 690")
	err = asset.Validate(ctx)
	require.Error(t, err)
	appErr, _ = apperror.AsAppError(err)
	assert.Equal(t, "assetTag", appErr.Details["field"])
}
