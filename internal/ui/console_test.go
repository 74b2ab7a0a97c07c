package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carlaabellana/ElCofre/internal/cart"
	"github.com/carlaabellana/ElCofre/internal/registry"
	"github.com/carlaabellana/ElCofre/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTitleCaseBrand(t *testing.T) {
	assert.Equal(t, "Roca Roca", TitleCaseBrand("rocA roCa"))
	assert.Equal(t, "Logi", TitleCaseBrand("LOGI"))
	assert.Equal(t, "A B C", TitleCaseBrand("  a  b  c "))
	assert.Equal(t, "", TitleCaseBrand(""))
}

func TestCountStars(t *testing.T) {
	assert.Equal(t, 3, CountStars("***"))
	assert.Equal(t, 5, CountStars("*****"))
	assert.Equal(t, 0, CountStars(""))
	assert.Equal(t, -1, CountStars("**x*"))
	assert.Equal(t, -1, CountStars("3"))
}

func TestPromptOptionRetriesOnBadInput(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("abc\n7\n"), &out)

	assert.Equal(t, 7, console.PromptOption("option: "))
	assert.Contains(t, out.String(), "ERROR: option must be an integer!")
}

func TestPromptCategoryMapsLetters(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("x\nb\n"), &out)

	assert.Equal(t, "REDUCED", console.PromptCategory())
	assert.Contains(t, out.String(), "ERROR: Invalid category")
}

func TestConfirmYes(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("YES\nno\n"), &out)

	assert.True(t, console.ConfirmYes("sure? "))
	assert.False(t, console.ConfirmYes("sure? "))
}

func newScriptedController(t *testing.T, script string) (*Controller, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(productsPath, []byte("[]"), 0o644))

	local, err := store.NewLocal(productsPath, filepath.Join(dir, "shops.json"))
	require.NoError(t, err)
	dual := store.NewDual(local, nil)

	products, err := registry.NewProductRegistry(dual)
	require.NoError(t, err)
	shops, err := registry.NewShopRegistry(dual)
	require.NoError(t, err)

	var out bytes.Buffer
	console := NewConsole(strings.NewReader(script), &out)
	controller := NewController(console, products, shops, registry.NewDealer(products, shops), cart.NewEngine(products, shops))
	return controller, &out
}

func TestControllerCreateProductFlow(t *testing.T) {
	// Main menu 1, create, name/brand/price/category, back, exit.
	script := strings.Join([]string{
		"1",
		"1",
		"Olive Oil",
		"borges",
		"8.50",
		"a",
		"3",
		"6",
	}, "\n") + "\n"

	controller, out := newScriptedController(t, script)
	controller.Run(context.Background())

	output := out.String()
	assert.Contains(t, output, `The product "Olive Oil" by "Borges" was added to the system.`)
	assert.Contains(t, output, "We hope to see you again!")
}

func TestControllerEmptyCart(t *testing.T) {
	script := "5\n6\n"

	controller, out := newScriptedController(t, script)
	controller.Run(context.Background())

	assert.Contains(t, out.String(), "Your cart is empty.")
}
