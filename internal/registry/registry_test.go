package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type CalculatorTests struct {
	seed int
}

func NewCalculatorTests() *CalculatorTests { return &CalculatorTests{seed: 7} }

func (c *CalculatorTests) Add(a, b, sum int) {}
func (c *CalculatorTests) Divide()           {}

type BrokenTests struct{}

func NewBrokenTests() (*BrokenTests, error) { return nil, errors.New("no database") }

func TestDescribe(t *testing.T) {
	t.Run("struct pointer", func(t *testing.T) {
		info, err := Describe(&CalculatorTests{})
		require.NoError(t, err)
		assert.Equal(t, "CalculatorTests", info.Name)
		assert.Nil(t, info.Constructor)
		require.Len(t, info.Methods, 2)
		assert.Equal(t, "Add", info.Methods[0].Name)
		assert.Equal(t, 3, info.Methods[0].NumParams())
		assert.Equal(t, "CalculatorTests", info.Methods[1].Class)
	})

	t.Run("constructor", func(t *testing.T) {
		info, err := Describe(NewCalculatorTests)
		require.NoError(t, err)
		require.NotNil(t, info.Constructor)

		v, err := info.Constructor()
		require.NoError(t, err)
		assert.Equal(t, 7, v.(*CalculatorTests).seed)
	})

	t.Run("failing constructor", func(t *testing.T) {
		info, err := Describe(NewBrokenTests)
		require.NoError(t, err)
		_, err = info.Constructor()
		assert.EqualError(t, err, "no database")
	})

	t.Run("rejects other values", func(t *testing.T) {
		_, err := Describe(42)
		assert.Error(t, err)
		_, err = Describe(func(int) *CalculatorTests { return nil })
		assert.Error(t, err)
		_, err = Describe(nil)
		assert.Error(t, err)
	})
}

func TestOptions(t *testing.T) {
	info, err := Describe(&CalculatorTests{},
		Named("Calc"),
		WithTraits(Trait("Category", "Math")),
		WithMethodTraits("Divide", Trait("Owner", "qa")),
		Inputs("Add", []any{1, 2, 3}, []any{2, 2, 4}),
		Async("Divide"),
	)
	require.NoError(t, err)

	assert.Equal(t, "Calc", info.Name)
	assert.True(t, info.HasTrait("Category"))
	assert.Equal(t, "Calc", info.Methods[0].Class)
	assert.Len(t, info.Methods[0].Inputs, 2)
	assert.True(t, info.Methods[1].Async)
	owner, ok := info.Methods[1].Trait("Owner")
	assert.True(t, ok)
	assert.Equal(t, "qa", owner)

	_, err = Describe(&CalculatorTests{}, Inputs("Missing", []any{1}))
	assert.ErrorContains(t, err, `no exported method "Missing"`)
}

func TestRegistry(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(&CalculatorTests{}))
	require.NoError(t, r.Register(NewBrokenTests))
	assert.Error(t, r.Register("nope"))

	classes := r.Classes()
	require.Len(t, classes, 2)
	assert.Equal(t, "CalculatorTests", classes[0].Name)
	assert.Equal(t, "BrokenTests", classes[1].Name)
	assert.Equal(t, 2, r.Len())

	assert.Panics(t, func() { r.MustRegister(3) })
}
