package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorFormatting(t *testing.T) {
	err := New(CodeNoCatalogMatch, "no product matched 'widget'", CategoryNotFound)
	assert.Equal(t, "[NO_CATALOG_MATCH] no product matched 'widget'", err.Error())
}

func TestWrapPreservesInner(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := CatalogUnavailable(inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, CategoryCollaborator, GetCategory(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeConfigInvalid, "x", CategoryConfig))
}

func TestCategoryHelpers(t *testing.T) {
	assert.True(t, IsExtractionMalformed(ExtractionMalformed(stderrors.New("bad json"))))
	assert.True(t, IsNotFound(NoCatalogMatch("widget")))
	assert.False(t, IsNotFound(ExtractorUnavailable(stderrors.New("timeout"))))
}

func TestUnknownErrorDefaultsToCollaborator(t *testing.T) {
	assert.Equal(t, CategoryCollaborator, GetCategory(stderrors.New("mystery")))
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "extraction", CategoryExtraction.String())
	assert.Equal(t, "not_found", CategoryNotFound.String())
	assert.Equal(t, "collaborator", CategoryCollaborator.String())
}
