package services_test

import (
	"testing"
	"time"

	"becas-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyStripsAccents(t *testing.T) {
	assert.Equal(t, "becas-de-investigacion-en-espana", services.Slugify("Becas de Investigación en España"))
}

func TestSlugifyCollapsesSymbolsAndSpaces(t *testing.T) {
	assert.Equal(t, "masters-degree-2026-fully-funded", services.Slugify("  Master's Degree 2026: Fully Funded!  "))
}

func TestSlugifyCapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "beca "
	}
	slug := services.Slugify(long)
	assert.LessOrEqual(t, len(slug), 80)
	assert.NotEqual(t, "-", slug[len(slug)-1:])
}

func TestUniqueSlugAppendsTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "beca-doctoral-1700000000", services.UniqueSlug("Beca Doctoral", now))
}

func TestUniqueSlugFallbackForEmptyTitle(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.Equal(t, "beca-1700000000", services.UniqueSlug("???", now))
}
