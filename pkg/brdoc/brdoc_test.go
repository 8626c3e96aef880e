package brdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pdv-api/pkg/brdoc"
)

func TestDigits(t *testing.T) {
	assert.Equal(t, "11222333000181", brdoc.Digits("11.222.333/0001-81"))
	assert.Equal(t, "", brdoc.Digits("abc"))
}

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, brdoc.ValidateCPF("529.982.247-25"))
	assert.NoError(t, brdoc.ValidateCPF("52998224725"))
	assert.Error(t, brdoc.ValidateCPF("529.982.247-24"))
	assert.Error(t, brdoc.ValidateCPF("111.111.111-11"))
	assert.Error(t, brdoc.ValidateCPF("1234"))
}

func TestValidateCNPJ(t *testing.T) {
	assert.NoError(t, brdoc.ValidateCNPJ("11.222.333/0001-81"))
	assert.Error(t, brdoc.ValidateCNPJ("11.222.333/0001-82"))
	assert.Error(t, brdoc.ValidateCNPJ("00000000000000"))
	// máscaras no canónicas se normalizan antes de validar
	assert.NoError(t, brdoc.ValidateCNPJ(" 11 222 333 0001 81 "))
	assert.Error(t, brdoc.ValidateCNPJ("11.222.333/0001"))
}

func TestValidateDocument(t *testing.T) {
	assert.NoError(t, brdoc.ValidateDocument("52998224725"))
	assert.NoError(t, brdoc.ValidateDocument("11222333000181"))
	assert.Error(t, brdoc.ValidateDocument("123456789"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", brdoc.FormatCNPJ("11222333000181"))
	assert.Equal(t, "529.982.247-25", brdoc.FormatCPF("52998224725"))
	assert.Equal(t, "529.982.247-25", brdoc.FormatDocument("52998224725"))
	assert.Equal(t, "11.222.333/0001-81", brdoc.FormatDocument("11222333000181"))
	assert.Equal(t, "123", brdoc.FormatDocument("123"))
}
