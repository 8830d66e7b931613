package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeOf(t *testing.T) {
	assert.True(t, ScopeOf(nil).IsGlobal())

	id := 7
	scope := ScopeOf(&id)
	assert.False(t, scope.IsGlobal())
	business, ok := scope.BusinessID()
	assert.True(t, ok)
	assert.Equal(t, 7, business)
}

func TestScopeEqual(t *testing.T) {
	assert.True(t, GlobalScope().Equal(GlobalScope()))
	assert.True(t, TenantScope(3).Equal(TenantScope(3)))
	assert.False(t, TenantScope(3).Equal(TenantScope(4)))
	assert.False(t, GlobalScope().Equal(TenantScope(3)))
	assert.False(t, TenantScope(3).Equal(GlobalScope()))
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "global", GlobalScope().String())
	assert.Equal(t, "business:12", TenantScope(12).String())
}
