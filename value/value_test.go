/*
File    : yqlang/value/value_test.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/
package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoercionLadder(t *testing.T) {
	assert.Equal(t, Int(3), AddArith(Bool(true), Int(2)))
	assert.Equal(t, Float(3.5), AddArith(Int(1), Float(2.5)))
	assert.Equal(t, Float(1.0), AddArith(Bool(true), Float(0.0)))
}

func TestDivArithByZero(t *testing.T) {
	_, err := DivArith(Int(1), Int(0))
	require.Error(t, err)
}

func TestModArithRejectsFloat(t *testing.T) {
	_, err := ModArith(Int(1), Float(2))
	require.Error(t, err)
}

func TestTruthy(t *testing.T) {
	assert.False(t, Null.Truthy())
	assert.False(t, Int(0).Truthy())
	assert.True(t, Int(1).Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.True(t, Ref(CollectionId(0)).Truthy())
}

func TestEqualArithmeticCrossKind(t *testing.T) {
	assert.True(t, Int(1).Equal(Bool(true)))
	assert.True(t, Float(2.0).Equal(Int(2)))
	assert.False(t, Int(1).Equal(Int(2)))
}

func TestCompareArith(t *testing.T) {
	assert.Equal(t, -1, CompareArith(Int(1), Int(2)))
	assert.Equal(t, 0, CompareArith(Int(2), Float(2.0)))
	assert.Equal(t, 1, CompareArith(Float(3.5), Int(1)))
}
