package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCaseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want CaseStatus
	}{
		{"activo", CaseStatusActive},
		{"ACTIVE", CaseStatusActive},
		{" Activa ", CaseStatusActive},
		{"Encontrado", CaseStatusFound},
		{"resolved", CaseStatusFound},
		{"cerrado", CaseStatusClosed},
		{"archived", CaseStatusClosed},
		{"", CaseStatusUnknown},
		{"whatever", CaseStatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCaseStatus(tt.raw))
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole("Administrador"))
	assert.Equal(t, RoleOperator, ParseRole("user"))
	assert.Equal(t, RoleOperator, ParseRole(""))
}

func TestFaceResult_Name(t *testing.T) {
	name := "Ana Torres"

	matched := FaceResult{MatchFound: true, MatchName: &name}
	assert.Equal(t, "Ana Torres", matched.Name())
	assert.True(t, matched.IsMatch())

	unnamed := FaceResult{MatchFound: true}
	assert.Equal(t, "", unnamed.Name())
	assert.False(t, unnamed.IsMatch())
}

func TestSize_IsZero(t *testing.T) {
	assert.True(t, Size{}.IsZero())
	assert.True(t, Size{Width: 640}.IsZero())
	assert.False(t, Size{Width: 640, Height: 480}.IsZero())
}
