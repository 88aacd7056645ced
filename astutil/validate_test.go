package astutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateType(t *testing.T) {
	valid := []string{"int", "*User", "[]string", "map[string][]int", "time.Duration", "chan int", "func() error", "any", "List[int]"}
	for _, typ := range valid {
		assert.NoError(t, ValidateType(typ), typ)
	}

	invalid := []string{"", "   ", "1", `"str"`, "a + b", "int)"}
	for _, typ := range invalid {
		assert.Error(t, ValidateType(typ), typ)
	}
}

func TestValidateFieldName(t *testing.T) {
	assert.NoError(t, ValidateFieldName("RedisURL"))
	assert.Error(t, ValidateFieldName("redisURL"))
	assert.Error(t, ValidateFieldName(""))
	assert.Error(t, ValidateFieldName("Has Space"))
}

func TestValidateSyntax(t *testing.T) {
	assert.NoError(t, ValidateSyntax([]byte("package x\n")))
	assert.Error(t, ValidateSyntax([]byte("package\n")))
}
