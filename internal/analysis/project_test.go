package analysis

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Hola, Mundo! 123", "holamundo"},
		{"   ...  ", ""},
		{"Año Ñu", "añoñu"},
		{"ÉCOLE über", "écoleüber"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Project(tt.in), "Project(%q)", tt.in)
	}
}

func TestProjectIdempotentAndShrinking(t *testing.T) {
	inputs := []string{
		"",
		"Xl wxlxli qsv jiv uirgmxmsr wiw yrmhsh jvigmirgme",
		"Vzmv yp eesxq alvrq buz wg cekmvp; euí buz in eesxq!",
		"1234 !? \t\n",
	}
	for _, in := range inputs {
		once := Project(in)
		assert.Equal(t, once, Project(once))
		assert.LessOrEqual(t, utf8.RuneCountInString(once), utf8.RuneCountInString(in))
	}
}
