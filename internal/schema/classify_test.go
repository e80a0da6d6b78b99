package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKey(t *testing.T) {
	tests := []struct {
		column string
		want   KeyClass
	}{
		{"ID", KeyClass{Kind: RealPrimaryKey}},
		{"refer:uid", KeyClass{Kind: ConventionForeignKey, ParentHint: "uid"}},
		{"refer:u_player:ID", KeyClass{Kind: ConventionForeignKey, ParentHint: "u_player:ID"}},
		{"refer:", KeyClass{Kind: ConventionForeignKey}},
		{"refer", KeyClass{Kind: RealPrimaryKey}},
		{"referral:uid", KeyClass{Kind: RealPrimaryKey}},
		{"x:refer:uid", KeyClass{Kind: RealPrimaryKey}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyKey(tt.column))
		})
	}
}

func TestConventionCustomMarker(t *testing.T) {
	conv := Convention{Marker: "fk"}
	assert.Equal(t, KeyClass{Kind: ConventionForeignKey, ParentHint: "uid"}, conv.Classify("fk:uid"))
	assert.Equal(t, KeyClass{Kind: RealPrimaryKey}, conv.Classify("refer:uid"))
}
